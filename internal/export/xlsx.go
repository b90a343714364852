package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

const (
	placementsSheet = "Placements"
	summarySheet    = "Summary"
)

var placementHeader = []string{"Index", "Name", "X", "Y", "Width", "Height", "Area"}

// ExportXLSX 在 "Placements" 工作表中每个元素写一行，
// 在 "Summary" 工作表中写入打包统计。
func ExportXLSX(path string, l Layout) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), placementsSheet); err != nil {
		return err
	}
	for col, h := range placementHeader {
		if err := setCell(f, placementsSheet, col+1, 1, h); err != nil {
			return err
		}
	}
	for i, it := range l.Items {
		row := []any{i, it.Name, it.X, it.Y, it.Width, it.Height, it.Area()}
		for col, v := range row {
			if err := setCell(f, placementsSheet, col+1, i+2, v); err != nil {
				return err
			}
		}
	}

	if _, err := f.NewSheet(summarySheet); err != nil {
		return err
	}
	summary := [][]any{
		{"Title", l.Title},
		{"Run", l.RunID},
		{"Heuristic", l.Heuristic},
		{"Width", l.Bounds.Width},
		{"Height", l.Bounds.Height},
		{"Items", len(l.Items)},
		{"Used area", l.UsedArea()},
		{"Efficiency", l.Efficiency},
	}
	for r, kv := range summary {
		for col, v := range kv {
			if err := setCell(f, summarySheet, col+1, r+1, v); err != nil {
				return err
			}
		}
	}
	return f.SaveAs(path)
}

func setCell(f *excelize.File, sheet string, col, row int, v any) error {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return err
	}
	if err := f.SetCellValue(sheet, cell, v); err != nil {
		return fmt.Errorf("set %s!%s: %w", sheet, cell, err)
	}
	return nil
}
