package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/leadwise/lead-engine/pkg/apperrors"
	"github.com/leadwise/lead-engine/pkg/models"
	"github.com/leadwise/lead-engine/pkg/odoo"
)

// Uploader pushes validated records into an Odoo instance, one contact
// plus one opportunity per record.
type Uploader struct {
	client      *odoo.Client
	concurrency int
	logger      *zap.Logger
}

// NewUploader creates a new Uploader. Concurrency below 1 means
// sequential upload, which mirrors the remote system's own rate
// expectations.
func NewUploader(client *odoo.Client, concurrency int, logger *zap.Logger) *Uploader {
	if concurrency < 1 {
		concurrency = 1
	}
	return &Uploader{
		client:      client,
		concurrency: concurrency,
		logger:      logger.Named("uploader"),
	}
}

// recordOutcome keeps one record's result attributable to its input
// index even when uploads run concurrently.
type recordOutcome struct {
	index         int
	contactID     int64
	opportunityID int64
	err           error
}

// Upload authenticates once and then uploads every record, using a
// bounded worker pool. Per-record failures are collected, never fatal;
// remaining records still upload.
func (u *Uploader) Upload(ctx context.Context, cfg *odoo.Config, records []models.MappedRecord, mappings []models.FieldMapping) (*models.UploadResult, error) {
	if len(records) == 0 {
		return nil, apperrors.ErrNoRecords
	}

	uid, err := u.client.Authenticate(ctx, cfg)
	if err != nil {
		return nil, err
	}

	outcomes := make([]recordOutcome, len(records))
	sem := make(chan struct{}, u.concurrency)
	var wg sync.WaitGroup

	for i, record := range records {
		wg.Add(1)
		go func(index int, record models.MappedRecord) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			contactID, oppID, err := u.uploadRecord(ctx, cfg, uid, record, mappings)
			outcomes[index] = recordOutcome{index: index, contactID: contactID, opportunityID: oppID, err: err}
		}(i, record)
	}
	wg.Wait()

	result := &models.UploadResult{Errors: []string{}}
	for _, o := range outcomes {
		if o.err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("record %d: %v", o.index+1, o.err))
			continue
		}
		if o.contactID > 0 {
			result.CreatedContacts = append(result.CreatedContacts, o.contactID)
		}
		if o.opportunityID > 0 {
			result.CreatedRecords = append(result.CreatedRecords, o.opportunityID)
		}
		if o.contactID > 0 || o.opportunityID > 0 {
			result.UploadedCount++
		}
	}
	result.Success = result.UploadedCount > 0 && len(result.Errors) == 0

	u.logger.Info("upload completed",
		zap.Int("records", len(records)),
		zap.Int("uploaded", result.UploadedCount),
		zap.Int("failed", len(result.Errors)))

	return result, nil
}

// uploadRecord creates the res.partner contact first, then the crm.lead
// opportunity linked to it.
func (u *Uploader) uploadRecord(ctx context.Context, cfg *odoo.Config, uid int64, record models.MappedRecord, mappings []models.FieldMapping) (contactID, opportunityID int64, err error) {
	contact, opportunity := u.buildPayloads(ctx, cfg, uid, record, mappings)

	contactID, err = u.client.Create(ctx, cfg, uid, "res.partner", contact)
	if err != nil {
		return 0, 0, fmt.Errorf("create contact: %w", err)
	}

	opportunity["partner_id"] = contactID
	opportunityID, err = u.client.Create(ctx, cfg, uid, "crm.lead", opportunity)
	if err != nil {
		return contactID, 0, fmt.Errorf("create opportunity: %w", err)
	}
	return contactID, opportunityID, nil
}

// buildPayloads translates one record into Odoo field values. Reference
// fields (country, state, UTM medium/source/campaign) are resolved
// against the remote instance here; resolution misses leave the field
// unset rather than failing the record. Values under target fields the
// CRM has no column for are folded into the notes block.
func (u *Uploader) buildPayloads(ctx context.Context, cfg *odoo.Config, uid int64, record models.MappedRecord, mappings []models.FieldMapping) (contact, opportunity map[string]any) {
	contact = map[string]any{
		"is_company":    false,
		"customer_rank": 1,
	}
	opportunity = map[string]any{
		"type": "opportunity",
	}

	handled := make(map[string]struct{})
	pendingState := ""

	setBoth := func(field, value string) {
		contact[field] = value
		opportunity[field] = value
	}

	for _, m := range mappings {
		value, ok := record[m.TargetField]
		if !ok || strings.TrimSpace(value) == "" {
			continue
		}
		handled[m.TargetField] = struct{}{}

		switch m.TargetField {
		case "Name":
			contact["name"] = value
			if _, ok := opportunity["name"]; !ok {
				opportunity["name"] = value
			}
		case "Contact Name":
			if _, ok := contact["name"]; !ok {
				contact["name"] = value
			}
			if _, ok := opportunity["name"]; !ok {
				opportunity["name"] = value
			}
		case "Company Name":
			contact["parent_name"] = value
			opportunity["partner_name"] = value
			if _, ok := contact["name"]; !ok {
				contact["name"] = value
			}
			if _, ok := opportunity["name"]; !ok {
				opportunity["name"] = value
			}
		case "Email":
			contact["email"] = value
			opportunity["email_from"] = value
		case "Phone":
			setBoth("phone", value)
		case "Mobile":
			setBoth("mobile", value)
		case "Street":
			setBoth("street", value)
		case "Street2":
			setBoth("street2", value)
		case "City":
			setBoth("city", value)
		case "State":
			pendingState = value
		case "Zip":
			setBoth("zip", value)
		case "Country":
			if id := u.client.ResolveCountryID(ctx, cfg, uid, value); id > 0 {
				contact["country_id"] = id
				opportunity["country_id"] = id
			}
		case "Website":
			setBoth("website", value)
		case "Job Position":
			setBoth("function", value)
		case "medium_id":
			if id := u.client.ResolveByName(ctx, cfg, uid, "utm.medium", value); id > 0 {
				opportunity["medium_id"] = id
			}
		case "source_id":
			if id := u.client.ResolveByName(ctx, cfg, uid, "utm.source", value); id > 0 {
				opportunity["source_id"] = id
			}
		case "campaign_id":
			if id := u.client.ResolveByName(ctx, cfg, uid, "utm.campaign", value); id > 0 {
				opportunity["campaign_id"] = id
			}
		case "External ID":
			// Never uploaded: the CRM assigns its own identifiers.
		default:
			// Notes, referred, and custom fields fall through to the
			// notes block below.
			delete(handled, m.TargetField)
		}
	}

	if pendingState != "" {
		countryID, _ := contact["country_id"].(int64)
		if id := u.client.ResolveStateID(ctx, cfg, uid, pendingState, countryID); id > 0 {
			contact["state_id"] = id
			opportunity["state_id"] = id
		}
	}

	if notes := collectNotes(record, handled); notes != "" {
		contact["comment"] = notes
		opportunity["description"] = notes
	}

	if _, ok := contact["name"]; !ok {
		name := "Imported Contact"
		if v, ok := contact["parent_name"].(string); ok {
			name = v
		} else if v, ok := contact["email"].(string); ok {
			name = v
		}
		contact["name"] = name
	}
	if _, ok := opportunity["name"]; !ok {
		if v, ok := contact["name"].(string); ok {
			opportunity["name"] = v
		} else {
			opportunity["name"] = "Imported Opportunity"
		}
	}

	return contact, opportunity
}

// collectNotes folds record values without a dedicated CRM column into a
// "key: value" block, in stable key order. External ID variants are
// always skipped.
func collectNotes(record models.MappedRecord, handled map[string]struct{}) string {
	skip := map[string]struct{}{
		"External ID": {},
		"external_id": {},
		"id":          {},
		"ID":          {},
	}

	keys := make([]string, 0, len(record))
	for key := range record {
		if _, ok := handled[key]; ok {
			continue
		}
		if _, ok := skip[key]; ok {
			continue
		}
		if strings.TrimSpace(record[key]) == "" {
			continue
		}
		keys = append(keys, key)
	}
	sort.Strings(keys)

	lines := make([]string, 0, len(keys))
	for _, key := range keys {
		lines = append(lines, fmt.Sprintf("%s: %s", key, record[key]))
	}
	return strings.Join(lines, "\n")
}
