package services

import (
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/leadwise/lead-engine/pkg/models"
)

var (
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	// Lenient but sane: optional leading +, then 7-16 digits.
	phonePattern    = regexp.MustCompile(`^[+]?\d{7,16}$`)
	phoneStripChars = regexp.MustCompile(`[^\d+]`)
)

// Validator runs structural checks and cross-record duplicate detection
// over mapped records.
type Validator struct {
	logger *zap.Logger
}

// NewValidator creates a new Validator.
func NewValidator(logger *zap.Logger) *Validator {
	return &Validator{logger: logger.Named("validator")}
}

// Validate normalizes and validates records in input order. The
// duplicate-detection sets are scoped to this call, so repeated runs over
// the same input are idempotent. Records are mutated in place by
// normalization. A record stays in ValidRecords unless it triggered at
// least one error-type issue; warnings and duplicates never exclude.
func (v *Validator) Validate(records []models.MappedRecord) *models.ValidationResult {
	issues := []models.ValidationIssue{}
	validRecords := []models.MappedRecord{}

	seenEmails := make(map[string]struct{})
	seenPhones := make(map[string]struct{})

	for i, record := range records {
		hasError := false
		// +2 for the header row and 1-based display
		rowNum := i + 2

		NormalizeRecord(record)

		nameVal := record.Get(nameKeys...)
		companyVal := record.Get(companyKeys...)

		if emailVal := record.Get("Email", "email"); emailVal != "" {
			if !emailPattern.MatchString(emailVal) {
				issues = append(issues, models.ValidationIssue{
					Type:    models.IssueError,
					Field:   "Email",
					Value:   emailVal,
					Row:     rowNum,
					Message: "Invalid email format",
				})
				hasError = true
			} else if key := strings.ToLower(emailVal); hasSeen(seenEmails, key) {
				issues = append(issues, models.ValidationIssue{
					Type:    models.IssueDuplicate,
					Field:   "Email",
					Value:   emailVal,
					Row:     rowNum,
					Message: "Duplicate email address",
				})
			}
		}

		if phoneVal := record.Get("Phone", "phone"); phoneVal != "" {
			issues = checkPhone(issues, seenPhones, phoneVal, "Phone", rowNum)
		}
		if mobileVal := record.Get("Mobile", "mobile"); mobileVal != "" {
			issues = checkPhone(issues, seenPhones, mobileVal, "Mobile", rowNum)
		}

		if nameVal == "" && companyVal == "" {
			issues = append(issues, models.ValidationIssue{
				Type:    models.IssueError,
				Field:   "Name",
				Value:   "",
				Row:     rowNum,
				Message: "Name is required (copy Company Name if Name missing)",
			})
			hasError = true
		}

		if !hasError {
			validRecords = append(validRecords, record)
		}
	}

	stats := models.ValidationStats{
		TotalRecords: len(records),
		ValidRecords: len(validRecords),
	}
	for _, issue := range issues {
		switch issue.Type {
		case models.IssueError:
			stats.ErrorRecords++
		case models.IssueWarning:
			stats.WarningRecords++
		case models.IssueDuplicate:
			stats.DuplicateRecords++
		}
	}

	v.logger.Info("validation completed",
		zap.Int("total", stats.TotalRecords),
		zap.Int("valid", stats.ValidRecords),
		zap.Int("errors", stats.ErrorRecords),
		zap.Int("warnings", stats.WarningRecords),
		zap.Int("duplicates", stats.DuplicateRecords))

	return &models.ValidationResult{
		ValidRecords: validRecords,
		Issues:       issues,
		Stats:        stats,
	}
}

// checkPhone validates one phone-like value. A malformed number is only a
// warning and a repeated stripped form only a duplicate; neither excludes
// the record.
func checkPhone(issues []models.ValidationIssue, seenPhones map[string]struct{}, value, field string, rowNum int) []models.ValidationIssue {
	stripped := phoneStripChars.ReplaceAllString(value, "")
	if !phonePattern.MatchString(stripped) {
		return append(issues, models.ValidationIssue{
			Type:    models.IssueWarning,
			Field:   field,
			Value:   value,
			Row:     rowNum,
			Message: "Phone number format may be invalid",
		})
	}
	if hasSeen(seenPhones, stripped) {
		return append(issues, models.ValidationIssue{
			Type:    models.IssueDuplicate,
			Field:   field,
			Value:   value,
			Row:     rowNum,
			Message: "Duplicate phone number",
		})
	}
	return issues
}

// hasSeen reports whether key is already in set, adding it when not.
func hasSeen(set map[string]struct{}, key string) bool {
	if _, ok := set[key]; ok {
		return true
	}
	set[key] = struct{}{}
	return false
}
