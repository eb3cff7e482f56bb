// Package services implements the lead pipeline: record normalization,
// validation, export projection, and CRM upload.
package services

import (
	"strings"

	"github.com/leadwise/lead-engine/pkg/mapping"
	"github.com/leadwise/lead-engine/pkg/models"
)

// Alias key lists for fields that may appear under more than one name in
// a mapped record. The canonical capitalized key comes first.
var (
	stateKeys   = []string{"State", "state"}
	mediumKeys  = []string{"medium_id", "Medium", "medium", "Marketing Medium", "Channel"}
	sourceKeys  = []string{"source_id", "Source", "source", "Lead Source", "Origin"}
	countryKeys = []string{"Country", "country"}
	nameKeys    = []string{"Name", "name", "Contact Name"}
	companyKeys = []string{"Company Name", "company_name"}
)

// NormalizeRecord canonicalizes a record in place: states to the
// "Name (IN)" region form, medium and source values to the CRM
// vocabularies (force-writing medium_id/source_id on a match), India
// country spellings to "India", and Name backfilled from Company Name.
// Values with no table entry stay unchanged. This must run before
// validation: the required-field check depends on the Name backfill.
func NormalizeRecord(record models.MappedRecord) {
	for _, key := range stateKeys {
		if v, ok := record[key]; ok && v != "" {
			if canonical, ok := mapping.IndianStates.Canonicalize(v); ok {
				record[key] = canonical
			}
		}
	}

	for _, key := range mediumKeys {
		if v, ok := record[key]; ok && v != "" {
			if canonical, ok := mapping.Mediums.Canonicalize(v); ok {
				record["medium_id"] = canonical
				record[key] = canonical
			}
		}
	}

	for _, key := range sourceKeys {
		if v, ok := record[key]; ok && v != "" {
			if canonical, ok := mapping.Sources.Canonicalize(v); ok {
				record["source_id"] = canonical
				record[key] = canonical
			}
		}
	}

	for _, key := range countryKeys {
		if v, ok := record[key]; ok && v != "" {
			folded := strings.ToLower(strings.TrimSpace(v))
			if folded == "india" || folded == "in" {
				record[key] = "India"
			}
		}
	}

	backfillName(record)
}

// backfillName copies Company Name into Name when Name is absent or
// whitespace-only, writing both the canonical and the legacy lowercase
// alias key.
func backfillName(record models.MappedRecord) {
	if record.Get(nameKeys...) != "" {
		return
	}
	company := record.Get(companyKeys...)
	if company == "" {
		return
	}
	record["Name"] = company
	record["name"] = company
}
