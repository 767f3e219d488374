package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/pcbgraph/pkg/cache"
	"github.com/matzehuels/pcbgraph/pkg/dataset"
	errs "github.com/matzehuels/pcbgraph/pkg/errors"
	"github.com/matzehuels/pcbgraph/pkg/feature"
	pcbio "github.com/matzehuels/pcbgraph/pkg/io"
	"github.com/matzehuels/pcbgraph/pkg/netlist"
)

// featuresOpts holds the flags of the features command.
type featuresOpts struct {
	k          int
	simplified bool
	normalize  bool
	gridX      float64
	gridY      float64
	id         string
	output     string
	noCache    bool
}

// featuresCommand creates the features command.
func (c *CLI) featuresCommand() *cobra.Command {
	var opts featuresOpts

	cmd := &cobra.Command{
		Use:   "features [design]",
		Short: "Encode component feature vectors",
		Long: `Encode the feature vector of every component, or of one with --id.

The full layout describes the component and its K most connected signal
neighbors with their sizes, positions, types and connecting pads. The
simplified layout keeps areas, positions and pin counts only. --normalize
scales sizes by the largest component, positions by the grid pitch and
pin counts by the largest pin count.

Vectors are cached per design content and options. Output goes to stdout
as CSV, or to a .csv or .xlsx file with -o.`,
		Args: cobra.ExactArgs(1),
		PreRunE: func(cmd *cobra.Command, args []string) error {
			fc := c.config.Features
			if !cmd.Flags().Changed("k") {
				opts.k = fc.MaxNeighbors
			}
			if !cmd.Flags().Changed("simplified") {
				opts.simplified = fc.Simplified
			}
			if !cmd.Flags().Changed("normalize") {
				opts.normalize = fc.Normalize
			}
			if !cmd.Flags().Changed("grid-x") {
				opts.gridX = fc.GridX
			}
			if !cmd.Flags().Changed("grid-y") {
				opts.gridY = fc.GridY
			}
			if opts.k < 1 {
				return errs.New(errs.ErrCodeInvalidInput, "-k must be at least 1, got %d", opts.k)
			}
			return errs.ValidateGridPitch(opts.gridX, opts.gridY)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runFeatures(cmd.Context(), args[0], opts)
		},
	}

	cmd.Flags().IntVarP(&opts.k, "k", "k", feature.DefaultMaxNeighbors, "number of neighbor blocks")
	cmd.Flags().BoolVar(&opts.simplified, "simplified", false, "use the area-based layout")
	cmd.Flags().BoolVar(&opts.normalize, "normalize", false, "normalize sizes, positions and pin counts")
	cmd.Flags().Float64Var(&opts.gridX, "grid-x", 1, "x grid pitch used by normalization")
	cmd.Flags().Float64Var(&opts.gridY, "grid-y", 1, "y grid pitch used by normalization")
	cmd.Flags().StringVar(&opts.id, "id", "", "encode one component by id or name")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (.csv or .xlsx)")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the feature cache")

	return cmd
}

func (c *CLI) runFeatures(ctx context.Context, arg string, opts featuresOpts) error {
	logger := loggerFromContext(ctx)
	prog := newProgress(logger)

	d, err := c.loadDesign(ctx, arg)
	if err != nil {
		return err
	}
	g := d.graph

	ids := make([]int, 0, g.NodeCount())
	if opts.id != "" {
		id, err := resolveNode(g, opts.id)
		if err != nil {
			return err
		}
		ids = append(ids, id)
	} else {
		for _, n := range g.Nodes() {
			ids = append(ids, n.ID)
		}
	}

	fc, err := c.newCache(ctx, opts.noCache)
	if err != nil {
		return err
	}
	defer fc.Close()

	enc := feature.NewEncoder(g, feature.Options{
		MaxNeighbors: opts.k,
		Simplified:   opts.simplified,
		Normalize:    opts.normalize,
		GridX:        opts.gridX,
		GridY:        opts.gridY,
	})

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Encoding %d components...", len(ids)))
	spinner.Start()
	rows, hits, err := c.encodeRows(ctx, fc, enc, g, ids, func(done, total int) {
		spinner.Progress("Encoding components", done, total)
	})
	spinner.Stop()
	if err != nil {
		return err
	}
	logger.Debug("encoded features", "components", len(rows), "cached", hits)
	prog.done(fmt.Sprintf("Encoded %d components", len(rows)))

	switch ext := strings.ToLower(filepath.Ext(opts.output)); {
	case opts.output == "":
		return writeFeatureCSV(os.Stdout, rows, opts.k, opts.simplified)
	case ext == ".xlsx":
		err = dataset.WriteXLSX(opts.output, rows, dataset.Options{MaxNeighbors: opts.k, Simplified: opts.simplified})
	case ext == ".csv":
		err = writeFeatureFile(opts.output, rows, opts.k, opts.simplified)
	default:
		return errs.New(errs.ErrCodeInvalidFormat, "output %s: expected .csv or .xlsx", opts.output)
	}
	if err != nil {
		return err
	}
	printSuccess("Features written")
	printStats(len(rows), g.EdgeCount(), hits == len(rows))
	printFile(opts.output)
	return nil
}

// encodeRows encodes ids, consulting the cache for each vector. It returns
// the rows and the number of cache hits. progress, if set, is called after
// each component.
func (c *CLI) encodeRows(ctx context.Context, fc cache.Cache, enc *feature.Encoder, g *netlist.Graph, ids []int, progress func(done, total int)) ([]feature.Row, int, error) {
	logger := loggerFromContext(ctx)
	o := enc.Options()
	hash := cache.GraphHash(g, o.Normalize, o.GridX, o.GridY)
	ttl := c.config.Cache.TTL.Duration

	rows := make([]feature.Row, 0, len(ids))
	hits := 0
	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return nil, 0, err
		}
		key := cache.FeatureKey(hash, id, o.MaxNeighbors, o.Simplified)
		v, ok, err := cache.GetJSON[[]float64](ctx, fc, cache.KeyTypeFeatures, key)
		if err != nil {
			logger.Warn("feature cache read failed", "err", err)
		}
		if ok {
			hits++
		} else {
			vec, err := enc.Encode(id)
			if err != nil {
				return nil, 0, err
			}
			v = vec
			if err := cache.SetJSON(ctx, fc, cache.KeyTypeFeatures, key, v, ttl); err != nil {
				logger.Warn("feature cache write failed", "err", err)
			}
		}
		rows = append(rows, feature.Row{ID: id, Name: g.NodeName(id), Vector: v})
		if progress != nil {
			progress(len(rows), len(ids))
		}
	}
	return rows, hits, nil
}

func writeFeatureFile(path string, rows []feature.Row, k int, simplified bool) error {
	f, err := os.Create(path)
	if err != nil {
		return errs.Wrap(errs.ErrCodeInvalidPath, err, "create %s", path)
	}
	if err := writeFeatureCSV(f, rows, k, simplified); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// writeFeatureCSV writes a header line followed by one id,name,vector line
// per row.
func writeFeatureCSV(w io.Writer, rows []feature.Row, k int, simplified bool) error {
	bw := bufio.NewWriter(w)
	header := append([]string{"id", "name"}, feature.Header(k, simplified)...)
	fmt.Fprintln(bw, strings.Join(header, ","))
	for _, r := range rows {
		fmt.Fprintf(bw, "%s,%s,%s\n", strconv.Itoa(r.ID), r.Name, r.Vector.Record(pcbio.Precision))
	}
	return bw.Flush()
}
