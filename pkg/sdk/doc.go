// Package mallindex embeds the mallindex entry builder in a Go program.
//
// The client talks to Valkey or Redis directly and runs the same builder,
// indexing pipeline and category resolver as the HTTP service.
//
//	client, _ := mallindex.New(ctx,
//	    mallindex.WithValkey("localhost:6379", ""),
//	    mallindex.WithCurrency(1, "EUR", true),
//	    mallindex.WithCustomerGroup(10, "wholesale"),
//	)
//	defer client.Close()
//
//	entry, _ := client.Entries().Index(ctx, &variant, nil)
//	cat, _ := client.Categories().Resolve(ctx, "clothes/shirts")
package mallindex
