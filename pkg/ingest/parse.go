// Package ingest turns uploaded spreadsheet files into raw tables and
// serializes projected tables back into downloadable files.
package ingest

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/shakinm/xlsReader/xls"
	"github.com/xuri/excelize/v2"

	"github.com/leadwise/lead-engine/pkg/apperrors"
	"github.com/leadwise/lead-engine/pkg/models"
)

// Parse reads an uploaded file into a RawTable based on its extension.
// Fully blank rows are filtered out. An unsupported extension, an
// unreadable file, or a file left with no rows is a hard error.
func Parse(filename string, r io.Reader) (*models.RawTable, error) {
	switch strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), ".")) {
	case "csv":
		return parseCSV(r)
	case "xlsx", "xls":
		return parseExcel(r)
	default:
		return nil, fmt.Errorf("%w: please use CSV, XLS, or XLSX files", apperrors.ErrUnsupportedFormat)
	}
}

func parseCSV(r io.Reader) (*models.RawTable, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	var rows [][]string
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("CSV parsing error: %w", err)
		}
		if !isBlankRow(record) {
			rows = append(rows, record)
		}
	}

	if len(rows) == 0 {
		return nil, apperrors.ErrEmptyFile
	}
	return &models.RawTable{Rows: rows}, nil
}

// oleSignature marks an OLE compound document, the container of legacy
// BIFF .xls workbooks. OOXML workbooks are zip archives instead.
var oleSignature = []byte{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1}

// parseExcel dispatches on file content rather than extension: files are
// routinely renamed between .xls and .xlsx, and both readers only accept
// their own container format.
func parseExcel(r io.Reader) (*models.RawTable, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	if bytes.HasPrefix(data, oleSignature) {
		return parseLegacyExcel(data)
	}

	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("Excel parsing error: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("Excel file contains no worksheets")
	}

	allRows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("Excel parsing error: %w", err)
	}

	var rows [][]string
	for _, row := range allRows {
		if !isBlankRow(row) {
			rows = append(rows, row)
		}
	}

	if len(rows) == 0 {
		return nil, apperrors.ErrEmptyFile
	}
	return &models.RawTable{Rows: rows}, nil
}

func parseLegacyExcel(data []byte) (*models.RawTable, error) {
	wb, err := xls.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("Excel parsing error: %w", err)
	}

	sheet, err := wb.GetSheet(0)
	if err != nil {
		return nil, fmt.Errorf("Excel file contains no worksheets")
	}

	var rows [][]string
	for i := 0; i < sheet.GetNumberRows(); i++ {
		row, err := sheet.GetRow(i)
		if err != nil {
			return nil, fmt.Errorf("Excel parsing error: %w", err)
		}

		var cells []string
		for _, col := range row.GetCols() {
			cells = append(cells, col.GetString())
		}
		if !isBlankRow(cells) {
			rows = append(rows, cells)
		}
	}

	if len(rows) == 0 {
		return nil, apperrors.ErrEmptyFile
	}
	return &models.RawTable{Rows: rows}, nil
}

func isBlankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
