package mapping

import (
	"strings"

	"github.com/leadwise/lead-engine/pkg/models"
)

// fallbackSampleRows is how many data rows contribute to a mapping's
// preview.
const fallbackSampleRows = 3

// previewLimit caps the number of preview values per mapping.
const previewLimit = 3

// fallbackRule maps any header containing one of its keywords to a target
// field with a fixed confidence.
type fallbackRule struct {
	keywords   []string
	target     string
	confidence int
}

// fallbackRules is evaluated in order and the first match wins, so the
// ordering is a deliberate tie-break. "Contact Name" must hit the Name
// rule before the Phone rule's "contact" keyword, and "street2" must hit
// Street2 before Street. Do not re-sort.
var fallbackRules = []fallbackRule{
	{[]string{"client name", "contact name", "contact person", "lead name", "people", "person", "name"}, "Name", 92},
	{[]string{"company", "company name", "business", "org", "organization"}, "Company Name", 90},
	{[]string{"email", "e-mail", "mail"}, "Email", 95},
	{[]string{"job", "position", "role", "title"}, "Job Position", 80},
	{[]string{"mobile", "cell", "whatsapp"}, "Mobile", 88},
	{[]string{"contact", "phone", "telephone", "tel"}, "Phone", 88},
	{[]string{"street2", "address line 2", "addr2", "line2"}, "Street2", 80},
	{[]string{"street", "address", "address line 1", "addr1", "line1", "location"}, "Street", 80},
	{[]string{"city", "town"}, "City", 80},
	{[]string{"state", "province", "region"}, "State", 80},
	{[]string{"zip", "postal", "pincode", "pin code", "postcode"}, "Zip", 80},
	{[]string{"country"}, "Country", 80},
	{[]string{"website", "url", "site"}, "Website", 80},
	{[]string{"notes", "remark", "remarks", "comment", "comments", "note"}, "Notes", 75},
	{[]string{"medium", "marketing medium", "channel", "advertising medium"}, "medium_id", 85},
	{[]string{"source", "lead source", "origin", "referral source"}, "source_id", 85},
	{[]string{"campaign", "campaign name", "marketing campaign", "utm campaign"}, "campaign_id", 85},
	{[]string{"referred by", "referrer", "referred", "reference"}, "referred", 80},
}

// newFieldConfidence is assigned to headers no rule recognizes; the
// header itself becomes a custom target field.
const newFieldConfidence = 50

// MapFallback maps every header of table by keyword rules. It is total:
// every header yields exactly one mapping and unrecognized headers become
// new custom fields carrying the original header text.
func MapFallback(table *models.RawTable) []models.FieldMapping {
	headers := table.Headers()
	mappings := make([]models.FieldMapping, 0, len(headers))
	for i, header := range headers {
		target, confidence, isNew := mapHeader(header)
		mappings = append(mappings, models.FieldMapping{
			SourceField: header,
			TargetField: target,
			Confidence:  confidence,
			IsNewField:  isNew,
			DataPreview: table.SampleColumn(i, fallbackSampleRows, previewLimit),
		})
	}
	return mappings
}

func mapHeader(header string) (target string, confidence int, isNew bool) {
	h := strings.ToLower(strings.TrimSpace(header))
	for _, rule := range fallbackRules {
		for _, kw := range rule.keywords {
			if strings.Contains(h, kw) {
				return rule.target, rule.confidence, false
			}
		}
	}
	return header, newFieldConfidence, true
}
