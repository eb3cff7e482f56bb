package mapping

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leadwise/lead-engine/pkg/apperrors"
	"github.com/leadwise/lead-engine/pkg/models"
)

func sampleMappings() []models.FieldMapping {
	return []models.FieldMapping{
		{SourceField: "Full Name", TargetField: "Name", Confidence: 92, DataPreview: []string{"Asha"}},
		{SourceField: "Dept", TargetField: "Dept", Confidence: 50, IsNewField: true},
	}
}

func TestEditMapping_RetargetToSchemaField(t *testing.T) {
	edited, err := EditMapping(sampleMappings(), 1, "Job Position")
	require.NoError(t, err)

	m := edited[1]
	assert.Equal(t, "Job Position", m.TargetField)
	assert.Equal(t, 95, m.Confidence)
	assert.False(t, m.IsNewField)
	assert.Equal(t, "Dept", m.SourceField)
}

func TestEditMapping_RetargetToCustomField(t *testing.T) {
	edited, err := EditMapping(sampleMappings(), 0, "Team Name")
	require.NoError(t, err)

	m := edited[0]
	assert.Equal(t, "Team Name", m.TargetField)
	assert.Equal(t, 75, m.Confidence)
	assert.True(t, m.IsNewField)
	assert.Equal(t, "Full Name", m.SourceField)
	assert.Equal(t, []string{"Asha"}, m.DataPreview)
}

func TestEditMapping_DoesNotMutateInput(t *testing.T) {
	original := sampleMappings()
	_, err := EditMapping(original, 0, "Email")
	require.NoError(t, err)

	assert.Equal(t, "Name", original[0].TargetField)
	assert.Equal(t, 92, original[0].Confidence)
}

func TestEditMapping_IndexOutOfRange(t *testing.T) {
	for _, index := range []int{-1, 2, 100} {
		_, err := EditMapping(sampleMappings(), index, "Email")
		require.Error(t, err)
		assert.ErrorIs(t, err, apperrors.ErrMappingIndexOutOfRange)
	}
}

func TestProjectRecords(t *testing.T) {
	table := &models.RawTable{Rows: [][]string{
		{"Full Name", "Work Email", "Dept"},
		{"Asha Rao", "asha@example.com", "Sales"},
		{"Vikram Shah", "vikram@example.com"},
	}}
	mappings := []models.FieldMapping{
		{SourceField: "Full Name", TargetField: "Name"},
		{SourceField: "Work Email", TargetField: "Email"},
		{SourceField: "Dept", TargetField: "Dept", IsNewField: true},
	}

	records := ProjectRecords(table, mappings)
	require.Len(t, records, 2)

	assert.Equal(t, models.MappedRecord{
		"Name": "Asha Rao", "Email": "asha@example.com", "Dept": "Sales",
	}, records[0])

	// Ragged row reads as empty, not missing.
	assert.Equal(t, models.MappedRecord{
		"Name": "Vikram Shah", "Email": "vikram@example.com", "Dept": "",
	}, records[1])
}

func TestProjectRecords_UnknownSourceFieldSkipped(t *testing.T) {
	table := &models.RawTable{Rows: [][]string{
		{"Full Name"},
		{"Asha Rao"},
	}}
	mappings := []models.FieldMapping{
		{SourceField: "Full Name", TargetField: "Name"},
		{SourceField: "Ghost Column", TargetField: "Email"},
	}

	records := ProjectRecords(table, mappings)
	require.Len(t, records, 1)
	_, present := records[0]["Email"]
	assert.False(t, present)
}
