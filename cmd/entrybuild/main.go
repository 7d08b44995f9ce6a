// Command entrybuild builds a variant index document from a JSON snapshot and
// resolves category paths against a JSON category tree, without a server.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/kailas-cloud/mallindex/internal/config"
	"github.com/kailas-cloud/mallindex/internal/domain"
	domentry "github.com/kailas-cloud/mallindex/internal/domain/entry"
	logpkg "github.com/kailas-cloud/mallindex/internal/logger"
	categoryrepo "github.com/kailas-cloud/mallindex/internal/repository/category"
	"github.com/kailas-cloud/mallindex/internal/repository/registry"
	"github.com/kailas-cloud/mallindex/internal/transport/snapshot"
	"github.com/kailas-cloud/mallindex/internal/usecase/category"
	entryuc "github.com/kailas-cloud/mallindex/internal/usecase/entry"
)

const (
	configFlag  = "config"
	variantFlag = "variant"
	overlayFlag = "overlay"
	treeFlag    = "tree"
	resolveFlag = "resolve"
	prettyFlag  = "pretty"
)

type options struct {
	configPath  string
	variantPath string
	overlay     string
	treePath    string
	resolve     []string
	pretty      bool
}

// output is the JSON written to stdout.
type output struct {
	Entry      *entryOutput                  `json:"entry,omitempty"`
	Categories map[string]*snapshot.Category `json:"categories,omitempty"`
}

type entryOutput struct {
	Key      string         `json:"key"`
	Document map[string]any `json:"document"`
}

func main() {
	if err := run(context.Background(), os.Args[1:], os.Stdin, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "entrybuild: %v\n", err)
		os.Exit(2)
	}
}

func parseFlags(args []string) (options, error) {
	var o options
	fs := pflag.NewFlagSet("entrybuild", pflag.ContinueOnError)
	fs.StringVarP(&o.configPath, configFlag, "c", "", "config file (default: config/<ENV>.yaml)")
	fs.StringVarP(&o.variantPath, variantFlag, "v", "", "variant snapshot file, - for stdin")
	fs.StringVarP(&o.overlay, overlayFlag, "o", "", "JSON object merged over the built document")
	fs.StringVarP(&o.treePath, treeFlag, "t", "", "category tree file")
	fs.StringSliceVarP(&o.resolve, resolveFlag, "r", nil, "category paths to resolve against --tree")
	fs.BoolVar(&o.pretty, prettyFlag, false, "indent output")
	if err := fs.Parse(args); err != nil {
		return options{}, err
	}

	var errs []error
	if o.variantPath == "" && len(o.resolve) == 0 {
		errs = append(errs, fmt.Errorf("--%s or --%s flag: required", variantFlag, resolveFlag))
	}
	if len(o.resolve) > 0 && o.treePath == "" {
		errs = append(errs, fmt.Errorf("--%s flag: required with --%s", treeFlag, resolveFlag))
	}
	if o.overlay != "" && o.variantPath == "" {
		errs = append(errs, fmt.Errorf("--%s flag: requires --%s", overlayFlag, variantFlag))
	}
	return o, errors.Join(errs...)
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout io.Writer) error {
	o, err := parseFlags(args)
	if err != nil {
		return err
	}

	logger, err := logpkg.NewLogger(config.GetEnv(), "warn")
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	var out output

	if o.variantPath != "" {
		cfg, err := loadConfig(o.configPath)
		if err != nil {
			return err
		}
		e, err := buildEntry(ctx, cfg, o, stdin, logger)
		if err != nil {
			return err
		}
		out.Entry = e
	}

	if len(o.resolve) > 0 {
		cats, err := resolvePaths(ctx, o.treePath, o.resolve, logger)
		if err != nil {
			return err
		}
		out.Categories = cats
	}

	enc := json.NewEncoder(stdout)
	if o.pretty {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(out)
}

func loadConfig(path string) (config.Config, error) {
	if path == "" {
		return config.Load(config.GetEnv())
	}
	return config.LoadFile(path)
}

func buildEntry(
	ctx context.Context, cfg config.Config, o options, stdin io.Reader, logger *zap.Logger,
) (*entryOutput, error) {
	r, closeFn, err := openInput(o.variantPath, stdin)
	if err != nil {
		return nil, err
	}
	defer closeFn()

	snap, err := snapshot.DecodeVariant(r)
	if err != nil {
		return nil, err
	}
	v, err := snap.ToCatalog()
	if err != nil {
		return nil, err
	}

	reg := registry.FromConfig(cfg.Catalog)
	ve, err := entryuc.NewBuilder(reg, reg, logger).Build(ctx, v)
	if err != nil {
		return nil, fmt.Errorf("build variant %d: %w", v.ID, err)
	}

	var e domentry.Entry = ve
	if o.overlay != "" {
		var overlay map[string]any
		if err := json.Unmarshal([]byte(o.overlay), &overlay); err != nil {
			return nil, fmt.Errorf("--%s: %w", overlayFlag, err)
		}
		e = ve.WithData(overlay)
	}
	return &entryOutput{Key: e.Key(), Document: e.Data()}, nil
}

// resolvePaths maps every path to its category, or to null when unmatched.
func resolvePaths(
	ctx context.Context, treePath string, paths []string, logger *zap.Logger,
) (map[string]*snapshot.Category, error) {
	f, err := os.Open(filepath.Clean(treePath))
	if err != nil {
		return nil, fmt.Errorf("open tree: %w", err)
	}
	defer func() { _ = f.Close() }()

	t, err := snapshot.DecodeTree(f)
	if err != nil {
		return nil, err
	}
	tree, err := categoryrepo.NewTree(snapshot.CategoriesToCatalog(t.Categories))
	if err != nil {
		return nil, err
	}

	resolver := category.NewResolver(tree, logger)
	out := make(map[string]*snapshot.Category, len(paths))
	for _, p := range paths {
		c, err := resolver.Resolve(ctx, p)
		switch {
		case errors.Is(err, domain.ErrCategoryNotFound):
			out[p] = nil
		case err != nil:
			return nil, err
		default:
			wire := snapshot.CategoryFromCatalog(c)
			out[p] = &wire
		}
	}
	return out, nil
}

func openInput(path string, stdin io.Reader) (io.Reader, func(), error) {
	if path == "-" {
		return stdin, func() {}, nil
	}
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, nil, fmt.Errorf("open variant: %w", err)
	}
	return f, func() { _ = f.Close() }, nil
}
