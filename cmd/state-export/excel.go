package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/xuri/excelize/v2"
)

// writeCollectionXLSX writes the exported documents to an Excel workbook:
// one row per document, one column per field name seen anywhere in the
// collection.
func writeCollectionXLSX(path, collection string, docs map[string]map[string]interface{}) error {
	// Ensure directory exists before creating file
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	fx := excelize.NewFile()
	defer fx.Close()

	sheet := "Documents"
	fx.SetSheetName(fx.GetSheetName(0), sheet)

	headerStyle, dataStyle, err := createExportStyles(fx)
	if err != nil {
		return err
	}

	columns := collectFieldNames(docs)

	// Header row
	header := append([]string{"Document ID"}, columns...)
	for col, name := range header {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		fx.SetCellValue(sheet, cell, name)
		fx.SetCellStyle(sheet, cell, cell, headerStyle)
	}

	// Document rows, ordered by id for stable output
	ids := make([]string, 0, len(docs))
	for id := range docs {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for row, id := range ids {
		cell, _ := excelize.CoordinatesToCellName(1, row+2)
		fx.SetCellValue(sheet, cell, id)
		fx.SetCellStyle(sheet, cell, cell, dataStyle)

		for col, field := range columns {
			cell, _ := excelize.CoordinatesToCellName(col+2, row+2)
			if value, ok := docs[id][field]; ok {
				fx.SetCellValue(sheet, cell, fmt.Sprintf("%v", value))
			}
			fx.SetCellStyle(sheet, cell, cell, dataStyle)
		}
	}

	fx.SetColWidth(sheet, "A", "A", 25)
	if len(columns) > 0 {
		last, _ := excelize.ColumnNumberToName(len(columns) + 1)
		fx.SetColWidth(sheet, "B", last, 20)
	}

	// Save workbook
	return fx.SaveAs(path)
}

func createExportStyles(fx *excelize.File) (headerStyle, dataStyle int, err error) {
	// Header style - Dark background with white text
	headerStyle, err = fx.NewStyle(&excelize.Style{
		Font: &excelize.Font{
			Bold:   true,
			Size:   11,
			Color:  "FFFFFF",
			Family: "Calibri",
		},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"2F4F4F"},
			Pattern: 1,
		},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
		},
		Border: []excelize.Border{
			{Type: "left", Color: "000000", Style: 1},
			{Type: "right", Color: "000000", Style: 1},
			{Type: "top", Color: "000000", Style: 1},
			{Type: "bottom", Color: "000000", Style: 1},
		},
	})
	if err != nil {
		return 0, 0, err
	}

	dataStyle, err = fx.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{
			Horizontal: "left",
		},
		Border: []excelize.Border{
			{Type: "left", Color: "E0E0E0", Style: 1},
			{Type: "right", Color: "E0E0E0", Style: 1},
			{Type: "bottom", Color: "E0E0E0", Style: 1},
		},
	})
	if err != nil {
		return 0, 0, err
	}

	return headerStyle, dataStyle, nil
}

// collectFieldNames returns the sorted union of field names across all
// documents.
func collectFieldNames(docs map[string]map[string]interface{}) []string {
	seen := make(map[string]bool)
	for _, fields := range docs {
		for name := range fields {
			seen[name] = true
		}
	}

	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
