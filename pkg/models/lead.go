package models

import "strings"

// TargetSchema is the fixed CRM import schema, in output column order.
// Mappings may also target arbitrary custom field names not listed here;
// those are appended after the base columns at export time.
var TargetSchema = []string{
	"External ID",
	"Name",
	"Company Name",
	"Contact Name",
	"Email",
	"Job Position",
	"Phone",
	"Mobile",
	"Street",
	"Street2",
	"City",
	"State",
	"Zip",
	"Country",
	"Website",
	"Notes",
	"medium_id",
	"source_id",
	"referred",
	"campaign_id",
}

// targetSchemaSet is the membership index for TargetSchema.
var targetSchemaSet = func() map[string]struct{} {
	set := make(map[string]struct{}, len(TargetSchema))
	for _, f := range TargetSchema {
		set[f] = struct{}{}
	}
	return set
}()

// InTargetSchema reports whether field is one of the fixed schema fields.
func InTargetSchema(field string) bool {
	_, ok := targetSchemaSet[field]
	return ok
}

// RawTable is a parsed spreadsheet: row 0 is the header row, every
// following row is one lead. Rows may be ragged; a cell beyond a row's
// length reads as empty rather than being an error.
type RawTable struct {
	Rows [][]string `json:"rows"`
}

// Headers returns the header row, or nil for an empty table.
func (t *RawTable) Headers() []string {
	if len(t.Rows) == 0 {
		return nil
	}
	return t.Rows[0]
}

// DataRows returns all rows after the header.
func (t *RawTable) DataRows() [][]string {
	if len(t.Rows) <= 1 {
		return nil
	}
	return t.Rows[1:]
}

// Cell returns the cell at (row, col) of the full table, or "" when the
// row is shorter than col.
func (t *RawTable) Cell(row, col int) string {
	if row < 0 || row >= len(t.Rows) {
		return ""
	}
	r := t.Rows[row]
	if col < 0 || col >= len(r) {
		return ""
	}
	return r[col]
}

// SampleColumn collects up to limit non-empty values of the column at
// index col among the first sampleRows data rows. Used for mapping
// previews.
func (t *RawTable) SampleColumn(col, sampleRows, limit int) []string {
	samples := []string{}
	data := t.DataRows()
	if sampleRows > len(data) {
		sampleRows = len(data)
	}
	for i := 0; i < sampleRows && len(samples) < limit; i++ {
		if col < len(data[i]) && data[i][col] != "" {
			samples = append(samples, data[i][col])
		}
	}
	return samples
}

// FieldMapping associates one source column with one target field.
type FieldMapping struct {
	SourceField string   `json:"sourceField"`
	TargetField string   `json:"targetField"`
	Confidence  int      `json:"confidence"`
	IsNewField  bool     `json:"isNewField"`
	DataPreview []string `json:"dataPreview"`
}

// MappedRecord is one lead keyed by target field names. Custom fields are
// runtime-determined, so this stays an open string map rather than a
// struct.
type MappedRecord map[string]string

// Get returns the first non-empty trimmed value among the given keys.
func (r MappedRecord) Get(keys ...string) string {
	for _, k := range keys {
		if v, ok := r[k]; ok {
			if trimmed := strings.TrimSpace(v); trimmed != "" {
				return trimmed
			}
		}
	}
	return ""
}

// IssueType classifies a validation finding.
type IssueType string

const (
	IssueError     IssueType = "error"
	IssueWarning   IssueType = "warning"
	IssueDuplicate IssueType = "duplicate"
)

// ValidationIssue is one finding against one record field. Row is the
// display row number: data row index + 2, accounting for the header row
// and 1-based presentation.
type ValidationIssue struct {
	Type    IssueType `json:"type"`
	Field   string    `json:"field"`
	Value   string    `json:"value"`
	Row     int       `json:"row"`
	Message string    `json:"message"`
}

// ValidationStats aggregates one validation run. ErrorRecords,
// WarningRecords and DuplicateRecords count issues, not records;
// ValidRecords counts records that triggered zero error-type issues.
type ValidationStats struct {
	TotalRecords     int `json:"totalRecords"`
	ValidRecords     int `json:"validRecords"`
	ErrorRecords     int `json:"errorRecords"`
	WarningRecords   int `json:"warningRecords"`
	DuplicateRecords int `json:"duplicateRecords"`
}

// ValidationResult is the full output of one validation run.
type ValidationResult struct {
	ValidRecords []MappedRecord    `json:"validRecords"`
	Issues       []ValidationIssue `json:"issues"`
	Stats        ValidationStats   `json:"stats"`
}

// UploadResult reports an Odoo upload attempt. Errors are attributed to
// the originating record by its input index.
type UploadResult struct {
	Success         bool     `json:"success"`
	UploadedCount   int      `json:"uploadedCount"`
	Errors          []string `json:"errors"`
	CreatedRecords  []int64  `json:"createdRecords,omitempty"`
	CreatedContacts []int64  `json:"createdContacts,omitempty"`
}
