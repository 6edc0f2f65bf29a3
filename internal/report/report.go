// Package report renders a solved rod as an XLSX workbook.
package report

import (
	"fmt"
	"io"
	"sort"

	"github.com/xuri/excelize/v2"

	"github.com/eugenenazirov/rod-cutting/internal/rodcut"
)

const (
	summarySheet = "Summary"
	cutsSheet    = "Cuts"
	pricesSheet  = "Prices"
)

// Request is everything the workbook describes.
type Request struct {
	Length   int
	Strategy rodcut.Strategy
	Prices   []float64
	Result   rodcut.Result
}

// Write builds the workbook and streams it to w.
func Write(w io.Writer, req Request) error {
	f, err := Build(req)
	if err != nil {
		return err
	}
	defer func() {
		_ = f.Close()
	}()

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

// Build creates a workbook with a summary, the cut sequence and the price table.
func Build(req Request) (*excelize.File, error) {
	f := excelize.NewFile()

	if err := f.SetSheetName(f.GetSheetName(0), summarySheet); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("rename sheet: %w", err)
	}
	for _, name := range []string{cutsSheet, pricesSheet} {
		if _, err := f.NewSheet(name); err != nil {
			_ = f.Close()
			return nil, fmt.Errorf("create sheet %s: %w", name, err)
		}
	}

	if err := writeRows(f, summarySheet, summaryRows(req)); err != nil {
		_ = f.Close()
		return nil, err
	}
	if err := writeRows(f, cutsSheet, cutRows(req)); err != nil {
		_ = f.Close()
		return nil, err
	}
	if err := writeRows(f, pricesSheet, priceRows(req.Prices)); err != nil {
		_ = f.Close()
		return nil, err
	}

	return f, nil
}

func summaryRows(req Request) [][]any {
	rows := [][]any{
		{"Field", "Value"},
		{"Length", req.Length},
		{"Strategy", string(req.Strategy)},
		{"Max profit", req.Result.MaxProfit},
		{"Pieces", len(req.Result.Cuts)},
		{"Number of cuts", req.Result.NumberOfCuts},
	}

	pieces := req.Result.Pieces()
	lengths := make([]int, 0, len(pieces))
	for length := range pieces {
		lengths = append(lengths, length)
	}
	sort.Ints(lengths)
	for _, length := range lengths {
		rows = append(rows, []any{fmt.Sprintf("Pieces of length %d", length), pieces[length]})
	}
	return rows
}

func cutRows(req Request) [][]any {
	table := rodcut.PriceTable(req.Prices)
	rows := [][]any{{"Position", "Piece length", "Price"}}
	for i, cut := range req.Result.Cuts {
		price, _ := table.Price(cut)
		rows = append(rows, []any{i + 1, cut, price})
	}
	return rows
}

func priceRows(prices []float64) [][]any {
	rows := [][]any{{"Length", "Price"}}
	for i, price := range prices {
		rows = append(rows, []any{i + 1, price})
	}
	return rows
}

func writeRows(f *excelize.File, sheet string, rows [][]any) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return fmt.Errorf("cell reference: %w", err)
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("write %s row %d: %w", sheet, i+1, err)
		}
	}
	return nil
}
