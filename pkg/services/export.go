package services

import (
	"strings"

	"github.com/leadwise/lead-engine/pkg/models"
)

// exportBatchSize bounds how many records are projected per batch. Purely
// a responsiveness measure for large imports; output order and content do
// not depend on it.
const exportBatchSize = 1000

// ProjectForExport builds the final flat export: a header row of the
// fixed target schema followed by any custom mapped fields in first-seen
// order, then one row per record in input order. External ID is forced
// empty in every row, and the Name-from-Company-Name rule is applied a
// second time here so export stays safe even when callers skip
// normalization.
func ProjectForExport(records []models.MappedRecord, mappings []models.FieldMapping) [][]string {
	headers := exportHeaders(mappings)

	out := make([][]string, 0, len(records)+1)
	out = append(out, headers)

	for start := 0; start < len(records); start += exportBatchSize {
		end := start + exportBatchSize
		if end > len(records) {
			end = len(records)
		}
		for _, record := range records[start:end] {
			out = append(out, projectRow(record, headers))
		}
	}
	return out
}

// exportHeaders returns the fixed schema followed by the distinct custom
// target fields among mappings, in first-seen order.
func exportHeaders(mappings []models.FieldMapping) []string {
	headers := make([]string, 0, len(models.TargetSchema))
	headers = append(headers, models.TargetSchema...)

	seen := make(map[string]struct{}, len(mappings))
	for _, m := range mappings {
		if models.InTargetSchema(m.TargetField) {
			continue
		}
		if _, dup := seen[m.TargetField]; dup {
			continue
		}
		seen[m.TargetField] = struct{}{}
		headers = append(headers, m.TargetField)
	}
	return headers
}

func projectRow(record models.MappedRecord, headers []string) []string {
	name := record["Name"]
	if strings.TrimSpace(name) == "" && record["Company Name"] != "" {
		name = record["Company Name"]
	}

	row := make([]string, len(headers))
	for i, h := range headers {
		switch h {
		case "External ID":
			// Always empty: the CRM assigns its own identifiers.
			row[i] = ""
		case "Name":
			row[i] = name
		default:
			row[i] = record[h]
		}
	}
	return row
}
