package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/tsawler/odsheet"
	"github.com/tsawler/odsheet/model"
)

var (
	showFormat  outputFormat
	showSheet   string
	showDumpXML bool
	showLenient bool
)

var showCmd = &cobra.Command{
	Use:   "show <file>",
	Short: "Print the sheets and cells of a spreadsheet",
	Long: `Read a spreadsheet and print its sheets, cells and style counts.

Formats:
  text   one line per stored cell (default)
  json   workbook summary as JSON
  yaml   workbook summary as YAML
  dump   the complete in-memory workbook

Examples:
  odsdump show budget.ods
  odsdump show budget.ods --sheet Summary --format json
  odsdump show damaged.ods --lenient
  odsdump show budget.ods --dump-xml 2> events.log`,
	Args: cobra.ExactArgs(1),
	RunE: runShow,
}

func init() {
	showFormat = formatText
	showCmd.Flags().VarP(&showFormat, "format", "f", "Output format: text, json, yaml or dump")
	showCmd.Flags().StringVar(&showSheet, "sheet", "", "Only print the named sheet")
	showCmd.Flags().BoolVar(&showDumpXML, "dump-xml", false, "Log every XML event while reading")
	showCmd.Flags().BoolVar(&showLenient, "lenient", false, "Keep what was read from a truncated document")
	rootCmd.AddCommand(showCmd)
}

type workbookSummary struct {
	File        string         `json:"file" yaml:"file"`
	Sheets      []sheetSummary `json:"sheets" yaml:"sheets"`
	Styles      int            `json:"styles" yaml:"styles"`
	Formats     int            `json:"formats" yaml:"formats"`
	Fonts       int            `json:"fonts" yaml:"fonts"`
	PageLayouts int            `json:"pageLayouts" yaml:"pageLayouts"`
}

type sheetSummary struct {
	Name  string        `json:"name" yaml:"name"`
	Rows  uint32        `json:"rows" yaml:"rows"`
	Cols  uint32        `json:"cols" yaml:"cols"`
	Cells []cellSummary `json:"cells" yaml:"cells"`
}

type cellSummary struct {
	Ref        string `json:"ref" yaml:"ref"`
	Type       string `json:"type" yaml:"type"`
	Value      string `json:"value,omitempty" yaml:"value,omitempty"`
	Formula    string `json:"formula,omitempty" yaml:"formula,omitempty"`
	Style      string `json:"style,omitempty" yaml:"style,omitempty"`
	Span       string `json:"span,omitempty" yaml:"span,omitempty"`
	Annotation string `json:"annotation,omitempty" yaml:"annotation,omitempty"`
}

func runShow(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true

	logger, err := newLogger(showDumpXML)
	if err != nil {
		return fmt.Errorf("creating logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	loader := odsheet.Open(args[0]).Logger(logger)
	if showDumpXML {
		loader = loader.DumpXML()
	}
	if showLenient {
		loader = loader.Lenient()
	}
	wb, err := loader.WorkBook()
	if err != nil {
		return err
	}

	sheets := wb.Sheets()
	if showSheet != "" {
		sh := wb.SheetByName(showSheet)
		if sh == nil {
			return fmt.Errorf("sheet not found: %s", showSheet)
		}
		sheets = []*model.Sheet{sh}
	}

	out := cmd.OutOrStdout()
	if showFormat == formatDump {
		dumpPrint(out, wb)
		return nil
	}

	sum := summarize(wb, sheets)
	switch showFormat {
	case formatJSON:
		return jsonPrint(out, sum)
	case formatYAML:
		return yamlPrint(out, sum)
	}
	printSummary(out, sum)
	return nil
}

func summarize(wb *model.WorkBook, sheets []*model.Sheet) workbookSummary {
	sum := workbookSummary{
		File:        wb.File,
		Styles:      len(wb.Styles()),
		Formats:     len(wb.Formats()),
		Fonts:       len(wb.Fonts()),
		PageLayouts: len(wb.PageLayouts()),
	}
	for i, sh := range sheets {
		rows, cols := sh.UsedGridSize()
		ss := sheetSummary{
			Name:  sh.DisplayName(i),
			Rows:  rows,
			Cols:  cols,
			Cells: []cellSummary{},
		}
		sh.Range(func(row, col uint32, c *model.SCell) bool {
			cs := cellSummary{
				Ref:     model.NewCellRef(row, col).Simple(),
				Type:    c.Value.Type().String(),
				Formula: c.Formula,
				Style:   c.Style,
			}
			if !c.Value.IsEmpty() {
				cs.Value = c.Value.String()
			}
			if c.RowSpan > 1 || c.ColSpan > 1 {
				cs.Span = strconv.FormatUint(uint64(max(c.RowSpan, 1)), 10) + "x" +
					strconv.FormatUint(uint64(max(c.ColSpan, 1)), 10)
			}
			if !c.Annotation.IsEmpty() {
				cs.Annotation = c.Annotation.PlainText()
			}
			ss.Cells = append(ss.Cells, cs)
			return true
		})
		sum.Sheets = append(sum.Sheets, ss)
	}
	return sum
}

func printSummary(w io.Writer, sum workbookSummary) {
	for _, sh := range sum.Sheets {
		fmt.Fprintf(w, "%s (%d rows, %d columns, %d cells)\n", sh.Name, sh.Rows, sh.Cols, len(sh.Cells))
		for _, c := range sh.Cells {
			line := fmt.Sprintf("  %-6s %-13s %s", c.Ref, c.Type, c.Value)
			if c.Formula != "" {
				line += "  " + c.Formula
			}
			if c.Style != "" {
				line += "  [" + c.Style + "]"
			}
			if c.Span != "" {
				line += "  span " + c.Span
			}
			if c.Annotation != "" {
				line += "  note " + strconv.Quote(c.Annotation)
			}
			fmt.Fprintln(w, trimRight(line))
		}
	}
	fmt.Fprintf(w, "styles: %d  formats: %d  fonts: %d  page layouts: %d\n",
		sum.Styles, sum.Formats, sum.Fonts, sum.PageLayouts)
}

func trimRight(s string) string {
	i := len(s)
	for i > 0 && s[i-1] == ' ' {
		i--
	}
	return s[:i]
}
