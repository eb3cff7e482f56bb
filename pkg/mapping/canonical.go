// Package mapping maps arbitrary spreadsheet columns onto the fixed CRM
// target schema, by keyword rules or by an LLM classifier, and
// canonicalizes free-text field values to the CRM's vocabularies.
package mapping

import "strings"

// CanonicalTable rewrites free-text values to a fixed vocabulary. The
// lookup key is the lowercased, trimmed input; there is no fuzzy or
// partial matching.
type CanonicalTable map[string]string

// Canonicalize returns the canonical form of raw and true, or ("", false)
// when the table has no entry. A miss means the caller keeps the value
// unchanged.
func (t CanonicalTable) Canonicalize(raw string) (string, bool) {
	v, ok := t[strings.ToLower(strings.TrimSpace(raw))]
	return v, ok
}

// IndianStates maps state names to the CRM's "Name (IN)" region form.
var IndianStates = CanonicalTable{
	"andhra pradesh":    "Andhra Pradesh (IN)",
	"arunachal pradesh": "Arunachal Pradesh (IN)",
	"assam":             "Assam (IN)",
	"bihar":             "Bihar (IN)",
	"chhattisgarh":      "Chhattisgarh (IN)",
	"goa":               "Goa (IN)",
	"gujarat":           "Gujarat (IN)",
	"haryana":           "Haryana (IN)",
	"himachal pradesh":  "Himachal Pradesh (IN)",
	"jharkhand":         "Jharkhand (IN)",
	"karnataka":         "Karnataka (IN)",
	"kerala":            "Kerala (IN)",
	"madhya pradesh":    "Madhya Pradesh (IN)",
	"maharashtra":       "Maharashtra (IN)",
	"manipur":           "Manipur (IN)",
	"meghalaya":         "Meghalaya (IN)",
	"mizoram":           "Mizoram (IN)",
	"nagaland":          "Nagaland (IN)",
	"odisha":            "Odisha (IN)",
	"punjab":            "Punjab (IN)",
	"rajasthan":         "Rajasthan (IN)",
	"sikkim":            "Sikkim (IN)",
	"tamil nadu":        "Tamil Nadu (IN)",
	"telangana":         "Telangana (IN)",
	"tripura":           "Tripura (IN)",
	"uttar pradesh":     "Uttar Pradesh (IN)",
	"uttarakhand":       "Uttarakhand (IN)",
	"west bengal":       "West Bengal (IN)",
	"delhi":             "Delhi (IN)",
	"jammu and kashmir": "Jammu and Kashmir (IN)",
	"ladakh":            "Ladakh (IN)",
	"chandigarh":        "Chandigarh (IN)",
	"dadra and nagar haveli and daman and diu": "Dadra and Nagar Haveli and Daman and Diu (IN)",
	"lakshadweep": "Lakshadweep (IN)",
	"puducherry":  "Puducherry (IN)",
}

// Mediums maps marketing medium free text to the CRM medium vocabulary.
var Mediums = CanonicalTable{
	"banner":         "Banner",
	"direct":         "Direct",
	"email":          "Email",
	"facebook":       "Facebook",
	"google":         "Google Adwords",
	"google adwords": "Google Adwords",
	"linkedin":       "LinkedIn",
	"phone":          "Phone",
	"television":     "Television",
	"tv":             "Television",
	"website":        "Website",
	"x":              "X",
	"twitter":        "X",
}

// Sources maps lead source free text to the CRM source vocabulary.
var Sources = CanonicalTable{
	"search engine": "Search engine",
	"lead recall":   "Lead Recall",
	"newsletter":    "Newsletter",
	"facebook":      "Facebook",
	"x":             "X",
	"twitter":       "X",
	"linkedin":      "LinkedIn",
	"monster":       "Monster",
	"glassdoor":     "Glassdoor",
	"craigslist":    "Craigslist",
	"referral":      "Referral",
}
