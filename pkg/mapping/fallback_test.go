package mapping

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leadwise/lead-engine/pkg/models"
)

func TestMapFallback_KeywordMatching(t *testing.T) {
	tests := []struct {
		name           string
		header         string
		wantTarget     string
		wantConfidence int
	}{
		{"plain name", "Name", "Name", 92},
		{"contact name prefers name over phone", "Contact Name", "Name", 92},
		{"client name", "Client Name", "Name", 92},
		{"company", "Company", "Company Name", 90},
		{"organization", "Organization", "Company Name", 90},
		{"email address", "Email Address", "Email", 95},
		{"e-mail", "E-Mail", "Email", 95},
		{"job title", "Job Title", "Job Position", 80},
		{"mobile", "Mobile Number", "Mobile", 88},
		{"whatsapp", "WhatsApp", "Mobile", 88},
		{"phone", "Phone", "Phone", 88},
		{"telephone", "Telephone No", "Phone", 88},
		{"street2 before street", "Street2", "Street2", 80},
		{"address line 2", "Address Line 2", "Street2", 80},
		{"address", "Address", "Street", 80},
		{"city", "City", "City", 80},
		{"state", "State", "State", 80},
		{"province", "Province", "State", 80},
		{"pincode", "Pincode", "Zip", 80},
		{"country", "Country", "Country", 80},
		{"website", "Website", "Website", 80},
		{"remarks", "Remarks", "Notes", 75},
		{"marketing medium", "Marketing Medium", "medium_id", 85},
		{"lead source", "Lead Source", "source_id", 85},
		{"campaign", "Campaign", "campaign_id", 85},
		{"referred by", "Referred By", "referred", 80},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table := &models.RawTable{Rows: [][]string{{tt.header}}}
			mappings := MapFallback(table)
			require.Len(t, mappings, 1)

			m := mappings[0]
			assert.Equal(t, tt.header, m.SourceField)
			assert.Equal(t, tt.wantTarget, m.TargetField)
			assert.Equal(t, tt.wantConfidence, m.Confidence)
			assert.False(t, m.IsNewField)
		})
	}
}

func TestMapFallback_UnrecognizedHeaderBecomesNewField(t *testing.T) {
	table := &models.RawTable{Rows: [][]string{{"Quarterly Budget"}}}

	mappings := MapFallback(table)
	require.Len(t, mappings, 1)

	m := mappings[0]
	assert.Equal(t, "Quarterly Budget", m.SourceField)
	assert.Equal(t, "Quarterly Budget", m.TargetField)
	assert.Equal(t, newFieldConfidence, m.Confidence)
	assert.True(t, m.IsNewField)
}

func TestMapFallback_IsTotal(t *testing.T) {
	headers := []string{"Name", "Email", "Mystery", "Phone", "Another Mystery"}
	table := &models.RawTable{Rows: [][]string{headers}}

	mappings := MapFallback(table)
	require.Len(t, mappings, len(headers))
	for i, m := range mappings {
		assert.Equal(t, headers[i], m.SourceField)
		assert.NotEmpty(t, m.TargetField)
	}
}

func TestMapFallback_DataPreview(t *testing.T) {
	table := &models.RawTable{Rows: [][]string{
		{"Email", "Notes"},
		{"a@x.com", ""},
		{"", "call later"},
		{"b@x.com", ""},
		{"c@x.com", "never sampled"},
	}}

	mappings := MapFallback(table)
	require.Len(t, mappings, 2)

	// Only the first three data rows contribute, blanks skipped.
	assert.Equal(t, []string{"a@x.com", "b@x.com"}, mappings[0].DataPreview)
	assert.Equal(t, []string{"call later"}, mappings[1].DataPreview)
}

func TestMapFallback_CaseInsensitive(t *testing.T) {
	table := &models.RawTable{Rows: [][]string{{"EMAIL", "  phone  "}}}

	mappings := MapFallback(table)
	require.Len(t, mappings, 2)
	assert.Equal(t, "Email", mappings[0].TargetField)
	assert.Equal(t, "Phone", mappings[1].TargetField)
}
