package ingest

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

const exportSheetName = "CRM Data"

// ContentType returns the MIME type of the bytes Write produces for a
// format. Legacy xls requests are served as OOXML workbooks, so they
// share the xlsx type.
func ContentType(format string) string {
	switch strings.ToLower(format) {
	case "xlsx", "xls":
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	default:
		return "text/csv; charset=utf-8"
	}
}

// Extension returns the file extension matching the bytes Write
// produces for a format.
func Extension(format string) string {
	switch strings.ToLower(format) {
	case "xlsx", "xls":
		return "xlsx"
	default:
		return "csv"
	}
}

// Write serializes a projected table (header row first) into the given
// format. The projection itself is format-agnostic; this is the only
// place format-specific encoding happens.
func Write(rows [][]string, format string) ([]byte, error) {
	switch strings.ToLower(format) {
	case "", "csv":
		return writeCSV(rows)
	case "xlsx", "xls":
		return writeExcel(rows)
	default:
		return nil, fmt.Errorf("unsupported export format %q", format)
	}
}

func writeCSV(rows [][]string) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.WriteAll(rows); err != nil {
		return nil, fmt.Errorf("write CSV: %w", err)
	}
	return buf.Bytes(), nil
}

func writeExcel(rows [][]string) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	if err := f.SetSheetName(sheet, exportSheetName); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return nil, fmt.Errorf("cell name: %w", err)
		}
		if err := f.SetSheetRow(exportSheetName, cell, &row); err != nil {
			return nil, fmt.Errorf("write row %d: %w", i+1, err)
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}
