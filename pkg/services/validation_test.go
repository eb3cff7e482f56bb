package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/leadwise/lead-engine/pkg/models"
)

func TestValidator_InvalidEmailIsError(t *testing.T) {
	v := NewValidator(zap.NewNop())

	result := v.Validate([]models.MappedRecord{
		{"Name": "Asha", "Email": "not-an-email"},
	})

	require.Len(t, result.Issues, 1)
	issue := result.Issues[0]
	assert.Equal(t, models.IssueError, issue.Type)
	assert.Equal(t, "Email", issue.Field)
	assert.Equal(t, 2, issue.Row)
	assert.Empty(t, result.ValidRecords)
	assert.Equal(t, 1, result.Stats.ErrorRecords)
	assert.Equal(t, 0, result.Stats.ValidRecords)
}

func TestValidator_DuplicateEmailCaseInsensitive(t *testing.T) {
	v := NewValidator(zap.NewNop())

	result := v.Validate([]models.MappedRecord{
		{"Name": "Asha", "Email": "A@x.com"},
		{"Name": "Vikram", "Email": "a@x.com"},
	})

	require.Len(t, result.Issues, 1)
	issue := result.Issues[0]
	assert.Equal(t, models.IssueDuplicate, issue.Type)
	assert.Equal(t, 3, issue.Row)

	// Duplicates never exclude: both records stay valid.
	assert.Len(t, result.ValidRecords, 2)
	assert.Equal(t, 2, result.Stats.ValidRecords)
	assert.Equal(t, 1, result.Stats.DuplicateRecords)
}

func TestValidator_PhoneWarningKeepsRecordValid(t *testing.T) {
	v := NewValidator(zap.NewNop())

	result := v.Validate([]models.MappedRecord{
		{"Name": "Asha", "Phone": "12ab"},
	})

	require.Len(t, result.Issues, 1)
	assert.Equal(t, models.IssueWarning, result.Issues[0].Type)
	assert.Equal(t, "Phone", result.Issues[0].Field)
	assert.Len(t, result.ValidRecords, 1)
}

func TestValidator_PhoneDuplicateAcrossFormatting(t *testing.T) {
	v := NewValidator(zap.NewNop())

	// Same digits with different punctuation are duplicates.
	result := v.Validate([]models.MappedRecord{
		{"Name": "Asha", "Phone": "+91 98765 43210"},
		{"Name": "Vikram", "Mobile": "+919876543210"},
	})

	require.Len(t, result.Issues, 1)
	issue := result.Issues[0]
	assert.Equal(t, models.IssueDuplicate, issue.Type)
	assert.Equal(t, "Mobile", issue.Field)
	assert.Len(t, result.ValidRecords, 2)
}

func TestValidator_RequiredNameOrCompany(t *testing.T) {
	v := NewValidator(zap.NewNop())

	result := v.Validate([]models.MappedRecord{
		{"Email": "orphan@x.com"},
	})

	require.Len(t, result.Issues, 1)
	issue := result.Issues[0]
	assert.Equal(t, models.IssueError, issue.Type)
	assert.Equal(t, "Name", issue.Field)
	assert.Empty(t, result.ValidRecords)
}

func TestValidator_CompanyOnlySatisfiesRequiredField(t *testing.T) {
	v := NewValidator(zap.NewNop())

	result := v.Validate([]models.MappedRecord{
		{"Company Name": "Acme Traders"},
	})

	assert.Empty(t, result.Issues)
	require.Len(t, result.ValidRecords, 1)
	// Normalization ran first and backfilled the name.
	assert.Equal(t, "Acme Traders", result.ValidRecords[0]["Name"])
}

func TestValidator_Idempotent(t *testing.T) {
	v := NewValidator(zap.NewNop())
	records := []models.MappedRecord{
		{"Name": "Asha", "Email": "a@x.com"},
		{"Name": "Vikram", "Email": "a@x.com"},
	}

	first := v.Validate(records)
	second := v.Validate(records)

	// Duplicate sets are per call, so runs do not accumulate.
	assert.Equal(t, first.Stats, second.Stats)
	assert.Len(t, second.Issues, 1)
}

func TestValidator_EndToEnd(t *testing.T) {
	v := NewValidator(zap.NewNop())

	result := v.Validate([]models.MappedRecord{
		{"Company Name": "Acme Traders", "Email": "sales@acme.in", "State": "gujarat", "Marketing Medium": "google"},
		{"Name": "Vikram Shah", "Email": "SALES@ACME.IN", "Phone": "+91-98765-43210"},
	})

	assert.Equal(t, 2, result.Stats.TotalRecords)
	assert.Equal(t, 2, result.Stats.ValidRecords)
	assert.Equal(t, 0, result.Stats.ErrorRecords)
	assert.Equal(t, 1, result.Stats.DuplicateRecords)

	first := result.ValidRecords[0]
	assert.Equal(t, "Acme Traders", first["Name"])
	assert.Equal(t, "Gujarat (IN)", first["State"])
	assert.Equal(t, "Google Adwords", first["medium_id"])
}

func TestValidator_EmptyInput(t *testing.T) {
	v := NewValidator(zap.NewNop())

	result := v.Validate(nil)
	assert.Empty(t, result.Issues)
	assert.Empty(t, result.ValidRecords)
	assert.Equal(t, 0, result.Stats.TotalRecords)
}
