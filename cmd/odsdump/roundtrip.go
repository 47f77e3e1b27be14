package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/tsawler/odsheet"
	"github.com/tsawler/odsheet/model"
)

var (
	roundtripLenient bool
	roundtripCheck   bool
)

var roundtripCmd = &cobra.Command{
	Use:   "roundtrip <in> <out>",
	Short: "Read a spreadsheet and write it back",
	Long: `Read a spreadsheet and write the in-memory workbook to a new file.

With --check the written file is read again and every cell value,
formula and style is compared with the original. Differences are
printed and the command exits with status 2.

Examples:
  odsdump roundtrip budget.ods copy.ods
  odsdump roundtrip budget.ods copy.ods --check`,
	Args: cobra.ExactArgs(2),
	RunE: runRoundtrip,
}

func init() {
	roundtripCmd.Flags().BoolVar(&roundtripLenient, "lenient", false, "Keep what was read from a truncated document")
	roundtripCmd.Flags().BoolVar(&roundtripCheck, "check", false, "Read the output again and compare cells")
	rootCmd.AddCommand(roundtripCmd)
}

func runRoundtrip(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true
	in, out := args[0], args[1]

	logger, err := newLogger(false)
	if err != nil {
		return fmt.Errorf("creating logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	loader := odsheet.Open(in).Logger(logger)
	if roundtripLenient {
		loader = loader.Lenient()
	}
	wb, err := loader.WorkBook()
	if err != nil {
		return err
	}
	if err := odsheet.Save(wb, out); err != nil {
		return err
	}
	logger.Debug("workbook written", zap.String("in", in), zap.String("out", out), zap.Int("sheets", wb.NumSheets()))

	if !roundtripCheck {
		fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%d sheets)\n", out, wb.NumSheets())
		return nil
	}

	again, err := odsheet.Open(out).Logger(logger).WorkBook()
	if err != nil {
		return fmt.Errorf("reading back %s: %w", out, err)
	}
	diffs := compareWorkBooks(wb, again)
	for _, d := range diffs {
		fmt.Fprintln(cmd.OutOrStdout(), d)
	}
	if len(diffs) > 0 {
		return &ExitError{Code: 2}
	}
	fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%d sheets), contents match\n", out, wb.NumSheets())
	return nil
}

// compareWorkBooks lists the cell level differences between a and b.
func compareWorkBooks(a, b *model.WorkBook) []string {
	var diffs []string
	if a.NumSheets() != b.NumSheets() {
		diffs = append(diffs, fmt.Sprintf("sheet count: %d != %d", a.NumSheets(), b.NumSheets()))
	}
	for i := 0; i < min(a.NumSheets(), b.NumSheets()); i++ {
		sa, sb := a.Sheet(i), b.Sheet(i)
		name := sa.DisplayName(i)
		if sa.Name != sb.Name {
			diffs = append(diffs, fmt.Sprintf("sheet %d: name %q != %q", i+1, sa.Name, sb.Name))
		}
		sa.Range(func(row, col uint32, c *model.SCell) bool {
			ref := name + "." + model.NewCellRef(row, col).Simple()
			d := sb.Cell(row, col)
			if d == nil {
				if !c.IsEmpty() {
					diffs = append(diffs, ref+": missing")
				}
				return true
			}
			if !c.Value.Equal(d.Value) {
				diffs = append(diffs, fmt.Sprintf("%s: value %s != %s", ref, c.Value, d.Value))
			}
			if c.Formula != d.Formula {
				diffs = append(diffs, fmt.Sprintf("%s: formula %q != %q", ref, c.Formula, d.Formula))
			}
			if c.Style != d.Style {
				diffs = append(diffs, fmt.Sprintf("%s: style %q != %q", ref, c.Style, d.Style))
			}
			return true
		})
		sb.Range(func(row, col uint32, c *model.SCell) bool {
			if sa.Cell(row, col) == nil && !c.IsEmpty() {
				diffs = append(diffs, name+"."+model.NewCellRef(row, col).Simple()+": unexpected cell")
			}
			return true
		})
	}
	return diffs
}
