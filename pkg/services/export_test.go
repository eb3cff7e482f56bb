package services

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leadwise/lead-engine/pkg/models"
)

func TestProjectForExport_HeaderOrder(t *testing.T) {
	mappings := []models.FieldMapping{
		{SourceField: "Full Name", TargetField: "Name"},
		{SourceField: "Code", TargetField: "Referral Code", IsNewField: true},
		{SourceField: "Code2", TargetField: "Referral Code", IsNewField: true},
		{SourceField: "Tier", TargetField: "Tier", IsNewField: true},
	}

	rows := ProjectForExport(nil, mappings)
	require.Len(t, rows, 1)

	header := rows[0]
	require.Len(t, header, len(models.TargetSchema)+2)
	assert.Equal(t, models.TargetSchema, header[:len(models.TargetSchema)])
	// Custom fields follow in first-seen order, deduplicated.
	assert.Equal(t, []string{"Referral Code", "Tier"}, header[len(models.TargetSchema):])
}

func TestProjectForExport_ExternalIDAlwaysEmpty(t *testing.T) {
	records := []models.MappedRecord{
		{"External ID": "should-not-survive", "Name": "Asha"},
	}

	rows := ProjectForExport(records, nil)
	require.Len(t, rows, 2)
	assert.Equal(t, "", rows[1][0])
	assert.Equal(t, "Asha", rows[1][1])
}

func TestProjectForExport_NameFallsBackToCompany(t *testing.T) {
	records := []models.MappedRecord{
		{"Name": "  ", "Company Name": "Acme Traders"},
		{"Name": "Asha", "Company Name": "Acme Traders"},
		{"Company Name": ""},
	}

	rows := ProjectForExport(records, nil)
	require.Len(t, rows, 4)
	assert.Equal(t, "Acme Traders", rows[1][1])
	assert.Equal(t, "Asha", rows[2][1])
	assert.Equal(t, "", rows[3][1])
}

func TestProjectForExport_MissingFieldsAreEmpty(t *testing.T) {
	records := []models.MappedRecord{
		{"Name": "Asha", "Email": "a@x.com"},
	}

	rows := ProjectForExport(records, nil)
	row := rows[1]
	for i, h := range rows[0] {
		switch h {
		case "Name":
			assert.Equal(t, "Asha", row[i])
		case "Email":
			assert.Equal(t, "a@x.com", row[i])
		default:
			assert.Equal(t, "", row[i], "column %s", h)
		}
	}
}

func TestProjectForExport_PreservesRecordOrderAcrossBatches(t *testing.T) {
	records := make([]models.MappedRecord, 2500)
	for i := range records {
		records[i] = models.MappedRecord{"Name": nameFor(i)}
	}

	rows := ProjectForExport(records, nil)
	require.Len(t, rows, 2501)
	assert.Equal(t, nameFor(0), rows[1][1])
	assert.Equal(t, nameFor(999), rows[1000][1])
	assert.Equal(t, nameFor(1000), rows[1001][1])
	assert.Equal(t, nameFor(2499), rows[2500][1])
}

func nameFor(i int) string {
	return "lead-" + strconv.Itoa(i)
}
