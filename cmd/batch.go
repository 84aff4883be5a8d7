package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/s0up4200/genderapi/filter"
	"github.com/s0up4200/genderapi/genderapi"
)

var (
	batchKind   string
	batchFile   string
	batchFilter string
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Look up every line of a file",
	Long: `Read one name, email address or username per line and look each of them up.

Every line is an independent request; requests run concurrently up to
batch.concurrency. Blank lines and lines starting with # are skipped.
Results can be narrowed with an expression, for example:

  genderapi batch --kind name --file names.txt --filter 'gender == "female" && probability >= 90'`,
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().StringVarP(&batchKind, "kind", "k", kindName, "lookup kind: name, email or username")
	batchCmd.Flags().StringVarP(&batchFile, "file", "f", "-", "input file, - for stdin")
	batchCmd.Flags().StringVar(&batchFilter, "filter", "", "only print results matching this expression")
	batchCmd.Flags().Bool("force", false, "analyse nicknames, emojis and non-standard names")
}

func runBatch(cmd *cobra.Command, args []string) error {
	opts, err := lookupOptions(cmd)
	if err != nil {
		return err
	}

	lookup, err := newLookupFunc(client, batchKind, opts)
	if err != nil {
		return err
	}

	expression := cfg.Batch.Filter
	if cmd.Flags().Changed("filter") {
		expression = batchFilter
	}
	var f *filter.Filter
	if strings.TrimSpace(expression) != "" {
		if f, err = filter.Compile(expression); err != nil {
			return fmt.Errorf("invalid filter expression: %w", err)
		}
	}

	inputs, err := readInputFile(cmd.InOrStdin(), batchFile)
	if err != nil {
		return err
	}

	logger.Info().
		Str("kind", batchKind).
		Int("count", len(inputs)).
		Int("concurrency", cfg.Batch.Concurrency).
		Msg("Starting batch lookup")

	items := lookupAll(cmd.Context(), lookup, inputs, cfg.Batch.Concurrency)

	failed, rejected := 0, 0
	var firstRejection *genderapi.ErrorResult
	for _, item := range items {
		if item.Err != nil {
			failed++
			logger.Warn().Err(item.Err).Str("input", item.Input).Msg("Lookup failed")
			continue
		}
		if errRes, ok := item.Result.(*genderapi.ErrorResult); ok {
			rejected++
			if firstRejection == nil {
				firstRejection = errRes
			}
		}
	}

	if f != nil {
		items, err = applyFilter(f, items)
		if err != nil {
			return err
		}
	}

	if err := printBatch(cmd.OutOrStdout(), cfg.Output.Format, items); err != nil {
		return err
	}

	logger.Info().
		Int("failed", failed).
		Int("rejected", rejected).
		Int("printed", len(items)).
		Msg("Batch lookup finished")

	if failed > 0 {
		return fmt.Errorf("%d of %d lookups failed", failed, len(inputs))
	}
	if rejected > 0 {
		return fmt.Errorf("%d of %d lookups returned a service error: %w", rejected, len(inputs), firstRejection.Err())
	}
	return nil
}

// lookupAll runs lookup for each input with bounded concurrency. Results keep
// input order; a failing input does not stop the others.
func lookupAll(ctx context.Context, lookup lookupFunc, inputs []string, concurrency int) []batchItem {
	items := make([]batchItem, len(inputs))

	g := new(errgroup.Group)
	g.SetLimit(concurrency)

	for i, input := range inputs {
		g.Go(func() error {
			res, err := lookup(ctx, input)
			items[i] = batchItem{Input: input, Result: res, Err: err}
			return nil
		})
	}

	// Workers never return errors
	_ = g.Wait()
	return items
}

// applyFilter keeps successful lookups matching f. Failed lookups are kept so
// they stay visible.
func applyFilter(f *filter.Filter, items []batchItem) ([]batchItem, error) {
	kept := items[:0:0]
	for _, item := range items {
		if item.Err != nil {
			kept = append(kept, item)
			continue
		}
		ok, err := f.Match(item.Result)
		if err != nil {
			return nil, err
		}
		if ok {
			kept = append(kept, item)
		}
	}
	return kept, nil
}

// readInputFile reads inputs from path, or from stdin when path is "-"
func readInputFile(stdin io.Reader, path string) ([]string, error) {
	if path == "-" || path == "" {
		return readInputs(stdin)
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open input file: %w", err)
	}
	defer file.Close()

	return readInputs(file)
}

// readInputs returns the non-blank, non-comment lines of r
func readInputs(r io.Reader) ([]string, error) {
	var inputs []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		inputs = append(inputs, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read inputs: %w", err)
	}
	return inputs, nil
}
