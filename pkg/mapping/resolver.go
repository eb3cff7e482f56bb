package mapping

import (
	"fmt"

	"github.com/leadwise/lead-engine/pkg/apperrors"
	"github.com/leadwise/lead-engine/pkg/models"
)

// Confidence assigned when a reviewer overrides a mapping manually.
const (
	overrideSchemaConfidence = 95
	overrideCustomConfidence = 75
)

// EditMapping returns a copy of mappings with entry index retargeted to
// newTargetField. The edited entry's IsNewField and Confidence are
// recomputed from schema membership; its SourceField and DataPreview are
// carried over, and no other entry is touched.
func EditMapping(mappings []models.FieldMapping, index int, newTargetField string) ([]models.FieldMapping, error) {
	if index < 0 || index >= len(mappings) {
		return nil, fmt.Errorf("%w: index %d of %d mappings", apperrors.ErrMappingIndexOutOfRange, index, len(mappings))
	}

	out := make([]models.FieldMapping, len(mappings))
	copy(out, mappings)

	edited := &out[index]
	edited.TargetField = newTargetField
	if models.InTargetSchema(newTargetField) {
		edited.IsNewField = false
		edited.Confidence = overrideSchemaConfidence
	} else {
		edited.IsNewField = true
		edited.Confidence = overrideCustomConfidence
	}
	return out, nil
}

// ProjectRecords projects every data row of table through mappings,
// producing one record keyed by target field names per row. Source
// columns without a mapping are dropped here; ragged rows read as empty
// cells.
func ProjectRecords(table *models.RawTable, mappings []models.FieldMapping) []models.MappedRecord {
	headers := table.Headers()
	columnIndex := make(map[string]int, len(headers))
	for i, h := range headers {
		if _, seen := columnIndex[h]; !seen {
			columnIndex[h] = i
		}
	}

	data := table.DataRows()
	records := make([]models.MappedRecord, 0, len(data))
	for _, row := range data {
		record := make(models.MappedRecord, len(mappings))
		for _, m := range mappings {
			col, ok := columnIndex[m.SourceField]
			if !ok {
				continue
			}
			value := ""
			if col < len(row) {
				value = row[col]
			}
			record[m.TargetField] = value
		}
		records = append(records, record)
	}
	return records
}
