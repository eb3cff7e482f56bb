package mapping

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/leadwise/lead-engine/pkg/jsonutil"
	"github.com/leadwise/lead-engine/pkg/llm"
	"github.com/leadwise/lead-engine/pkg/logging"
	"github.com/leadwise/lead-engine/pkg/models"
	"github.com/leadwise/lead-engine/pkg/prompts"
)

// aiSampleRows is how many data rows are sent to the classifier and used
// for preview extraction on the AI path.
const aiSampleRows = 5

// aiTemperature keeps the classifier near-deterministic.
const aiTemperature = 0.1

// AIMapper maps source columns onto the target schema using an LLM
// classifier, degrading to the deterministic keyword mapper on any
// classifier failure.
type AIMapper struct {
	client llm.Client
	logger *zap.Logger
}

// NewAIMapper creates a new AIMapper. A nil client is allowed and makes
// every Map call take the fallback path.
func NewAIMapper(client llm.Client, logger *zap.Logger) *AIMapper {
	return &AIMapper{
		client: client,
		logger: logger.Named("ai-mapper"),
	}
}

// Map produces one FieldMapping per source column. Classifier failures of
// any kind (network, non-success status, missing content, unparseable or
// malformed output) silently degrade to MapFallback with no partial
// results mixed in. The only error ever returned is the context's own,
// so an abandoned call does not auto-trigger the fallback; callers run
// MapFallback explicitly when they still want a mapping.
func (m *AIMapper) Map(ctx context.Context, table *models.RawTable) ([]models.FieldMapping, error) {
	if m.client == nil {
		m.logger.Debug("no classifier configured, using fallback mapper")
		return MapFallback(table), nil
	}

	mappings, err := m.mapWithClassifier(ctx, table)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		m.logger.Warn("classifier mapping failed, using fallback mapper",
			zap.String("error", logging.SanitizeError(err)))
		return MapFallback(table), nil
	}
	return mappings, nil
}

func (m *AIMapper) mapWithClassifier(ctx context.Context, table *models.RawTable) ([]models.FieldMapping, error) {
	headers := table.Headers()
	data := table.DataRows()
	sampleCount := aiSampleRows
	if sampleCount > len(data) {
		sampleCount = len(data)
	}
	samples := data[:sampleCount]

	prompt := prompts.BuildFieldMappingPrompt(headers, samples, models.TargetSchema)

	content, err := m.client.GenerateResponse(ctx, prompt, prompts.FieldMappingSystemMessage, aiTemperature)
	if err != nil {
		return nil, fmt.Errorf("generate response: %w", err)
	}
	if content == "" {
		return nil, fmt.Errorf("empty response from classifier")
	}

	arrayJSON, err := llm.ExtractJSONArray(content)
	if err != nil {
		return nil, fmt.Errorf("extract mappings: %w", err)
	}

	mappings, err := m.decodeMappings(arrayJSON, table)
	if err != nil {
		return nil, fmt.Errorf("decode mappings: %w", err)
	}

	m.logger.Info("classifier mapping completed",
		zap.String("model", m.client.GetModel()),
		zap.Int("columns", len(headers)),
		zap.Int("mappings", len(mappings)))

	return mappings, nil
}

// rawMapping tolerates classifier output quirks: numeric confidence may
// arrive as a string, and field names as numbers.
type rawMapping struct {
	SourceField json.RawMessage `json:"sourceField"`
	TargetField json.RawMessage `json:"targetField"`
	Confidence  json.RawMessage `json:"confidence"`
}

// decodeMappings parses the classifier's array. Any malformed entry fails
// the whole decode so the caller degrades wholesale to the fallback
// mapper. The IsNewField flag is recomputed from schema membership rather
// than trusted, and every preview is rebuilt from the real table data.
func (m *AIMapper) decodeMappings(arrayJSON string, table *models.RawTable) ([]models.FieldMapping, error) {
	var raw []rawMapping
	if err := json.Unmarshal([]byte(arrayJSON), &raw); err != nil {
		return nil, fmt.Errorf("unmarshal array: %w", err)
	}
	if len(raw) == 0 {
		return nil, fmt.Errorf("classifier returned no mappings")
	}

	headers := table.Headers()
	columnIndex := make(map[string]int, len(headers))
	for i, h := range headers {
		if _, seen := columnIndex[h]; !seen {
			columnIndex[h] = i
		}
	}

	mappings := make([]models.FieldMapping, 0, len(raw))
	for i, entry := range raw {
		source := jsonutil.FlexibleStringValue(entry.SourceField)
		target := jsonutil.FlexibleStringValue(entry.TargetField)
		if source == "" || target == "" {
			return nil, fmt.Errorf("entry %d is missing sourceField or targetField", i)
		}

		confidence, ok := jsonutil.FlexibleIntValue(entry.Confidence)
		if !ok {
			return nil, fmt.Errorf("entry %d has non-numeric confidence", i)
		}
		if confidence < 0 {
			confidence = 0
		} else if confidence > 100 {
			confidence = 100
		}

		preview := []string{}
		if col, ok := columnIndex[source]; ok {
			preview = table.SampleColumn(col, aiSampleRows, previewLimit)
		}

		mappings = append(mappings, models.FieldMapping{
			SourceField: source,
			TargetField: target,
			Confidence:  confidence,
			IsNewField:  !models.InTargetSchema(target),
			DataPreview: preview,
		})
	}
	return mappings, nil
}
