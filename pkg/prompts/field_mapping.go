// Package prompts builds the LLM prompts used for field mapping.
package prompts

import (
	"encoding/json"
	"fmt"
	"strings"
)

// FieldMappingSystemMessage is the system message for the column
// classifier.
const FieldMappingSystemMessage = `You are an expert CRM data mapper. You map spreadsheet columns onto a fixed CRM import template and respond ONLY with valid JSON. No markdown, no explanations.`

// BuildFieldMappingPrompt creates the classifier prompt from the source
// headers, up to five sample data rows, and the fixed target field list.
// The rules mirror the deterministic fallback mapper so a degraded run
// stays semantically compatible.
func BuildFieldMappingPrompt(headers []string, sampleRows [][]string, targetFields []string) string {
	headersJSON, _ := json.Marshal(headers)
	samplesJSON, _ := json.Marshal(sampleRows)
	targetsJSON, _ := json.Marshal(targetFields)

	var prompt strings.Builder

	prompt.WriteString("# CRM Field Mapping\n\n")
	prompt.WriteString("Analyze the provided spreadsheet headers and sample data, then map them to the target CRM template fields.\n\n")

	prompt.WriteString("## Input\n\n")
	prompt.WriteString(fmt.Sprintf("Headers: %s\n", headersJSON))
	prompt.WriteString(fmt.Sprintf("Sample data: %s\n\n", samplesJSON))
	prompt.WriteString(fmt.Sprintf("Target CRM template fields (use these exact names): %s\n\n", targetsJSON))

	prompt.WriteString("## Critical rules\n\n")
	prompt.WriteString("1. External ID must always be an empty string in the final output. Do not try to infer or generate it.\n")
	prompt.WriteString("2. Name is mandatory and must contain the contact person's name. If the source provides only a company name (or similar), copy that value into Name.\n")
	prompt.WriteString("3. Company Name should contain the organization/business name when available.\n")
	prompt.WriteString("4. Contact Name can be used for an additional contact person name if the source has both a primary Name and a separate contact name; otherwise it may be blank.\n")
	prompt.WriteString("5. Map phone-like columns (e.g. \"Contact\", \"Phone\", \"Mobile\", \"WhatsApp\") to Phone or Mobile appropriately. If it's a single phone field, prefer Phone.\n")
	prompt.WriteString("6. Map address-like columns (Street/Street2/City/State/Zip/Country) and common synonyms accordingly. Location fields should map to Street, not City.\n")
	prompt.WriteString("7. Email should be mapped from any email-like column (e.g. \"Email\", \"E-mail\", \"Mail\").\n")
	prompt.WriteString("8. Job Position should map from role/title-like columns.\n")
	prompt.WriteString("9. medium_id should map from marketing medium/channel fields (e.g. \"Medium\", \"Channel\", \"Marketing Medium\").\n")
	prompt.WriteString("10. source_id should map from lead source fields (e.g. \"Source\", \"Lead Source\", \"Origin\").\n")
	prompt.WriteString("11. campaign_id should map from campaign-related fields (e.g. \"Campaign\", \"Campaign Name\", \"UTM Campaign\").\n")
	prompt.WriteString("12. referred should map from referral fields (e.g. \"Referred By\", \"Referrer\", \"Reference\").\n")
	prompt.WriteString("13. If a source column does not correspond to any target field, set isNewField to true and use the original header text as targetField so a new column can be created.\n")
	prompt.WriteString("14. Provide a confidence score (0-100) based on field name similarity and data content.\n")
	prompt.WriteString("15. Include a short data preview.\n\n")

	prompt.WriteString("State names, medium values and source values are normalized downstream (e.g. \"Gujarat\" becomes \"Gujarat (IN)\"); map the columns, do not rewrite the values.\n\n")

	prompt.WriteString("## Output format\n\n")
	prompt.WriteString(`Return ONLY a valid JSON array of mappings in this exact format:
[
  {
    "sourceField": "source_header_name",
    "targetField": "one_of_the_target_fields_or_new_column_name",
    "confidence": 95,
    "isNewField": false,
    "dataPreview": ["sample1", "sample2", "sample3"]
  }
]`)

	return prompt.String()
}
