// Command xlswriter-demo builds a sample .xls workbook exercising the
// module's public surface: multiple sheets, cell formats, a formula, a
// hyperlink and a column width override. Replaces the teacher's
// example/main.go with something that drives the full expanded feature set.
package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	xls "github.com/devin-xls/xlswriter"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		output     string
		sheetCount int
		verbose    bool
	)

	cmd := &cobra.Command{
		Use:   "xlswriter-demo",
		Short: "Generate a sample legacy .xls workbook",
		RunE: func(cmd *cobra.Command, args []string) error {
			var opts []xls.Option
			if verbose {
				log := logrus.New()
				log.SetLevel(logrus.DebugLevel)
				opts = append(opts, xls.WithLogger(log))
			}

			wb := xls.New(opts...)
			if err := buildDemoWorkbook(wb, sheetCount); err != nil {
				return fmt.Errorf("build workbook: %w", err)
			}

			sink, err := xls.CreateFile(output)
			if err != nil {
				return err
			}
			if err := wb.Close(sink); err != nil {
				return fmt.Errorf("write %s: %w", output, err)
			}

			fmt.Printf("wrote %s\n", output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "demo.xls", "output .xls path")
	cmd.Flags().IntVarP(&sheetCount, "sheets", "n", 2, "number of worksheets to generate")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "log rejected writes and truncations")

	return cmd
}

func buildDemoWorkbook(wb *xls.Workbook, sheetCount int) error {
	if sheetCount < 1 {
		sheetCount = 1
	}

	header := wb.AddFormat()
	header.SetBold(true)
	header.SetAlign("centre")
	header.SetBorder(1)

	currency := wb.AddFormat()
	currency.SetNumFormatStr("#,##0.00")

	for i := 0; i < sheetCount; i++ {
		sheet := wb.AddSheet("")

		if err := sheet.WriteString(0, 0, "Item", header); err != nil {
			return err
		}
		if err := sheet.WriteString(0, 1, "Unit Price", header); err != nil {
			return err
		}
		if err := sheet.WriteString(0, 2, "Quantity", header); err != nil {
			return err
		}
		if err := sheet.WriteString(0, 3, "Total", header); err != nil {
			return err
		}

		rows := []struct {
			item  string
			price float64
			qty   float64
		}{
			{"Widget", 4.5, 10},
			{"Gadget", 12.25, 3},
			{"Gizmo", 99.99, 1},
		}

		for r, row := range rows {
			excelRow := r + 1
			if err := sheet.WriteString(excelRow, 0, row.item, nil); err != nil {
				return err
			}
			if err := sheet.WriteNumber(excelRow, 1, row.price, currency); err != nil {
				return err
			}
			if err := sheet.WriteNumber(excelRow, 2, row.qty, nil); err != nil {
				return err
			}
			formula := fmt.Sprintf("=B%d*C%d", excelRow+1, excelRow+1)
			if err := sheet.WriteFormula(excelRow, 3, formula, currency); err != nil {
				return err
			}
		}

		if err := sheet.WriteURL(len(rows)+2, 0, "https://example.com", "More info", nil); err != nil {
			return err
		}

		sheet.SetColumn(0, 0, 16)
		sheet.SetColumn(1, 3, 12)
		sheet.SetSelection(0, 0, 0, 0)
	}

	return nil
}
