package recipes

import (
	"encoding/json"
	"fmt"

	"github.com/JaimeStill/cookbook/internal/template"
)

// stageRecord is the persisted shape of a stage. Parsed fields are not
// stored; decodeStages re-derives them.
type stageRecord struct {
	ID              string                    `json:"id"`
	Order           int                       `json:"order"`
	Type            template.StageType        `json:"type"`
	Template        string                    `json:"template,omitempty"`
	ToolID          string                    `json:"toolId,omitempty"`
	ReferenceImages []template.ReferenceImage `json:"referenceImages"`
}

func encodeStages(stages []template.Stage) ([]byte, error) {
	records := make([]stageRecord, len(stages))
	for i, s := range stages {
		records[i] = stageRecord{
			ID:              s.ID,
			Order:           s.Order,
			Type:            s.Type,
			Template:        s.Template,
			ToolID:          s.ToolID,
			ReferenceImages: s.ReferenceImages,
		}
	}

	data, err := json.Marshal(records)
	if err != nil {
		return nil, fmt.Errorf("encode stages: %w", err)
	}
	return data, nil
}

func decodeStages(data []byte) ([]template.Stage, error) {
	var records []stageRecord
	if len(data) > 0 {
		if err := json.Unmarshal(data, &records); err != nil {
			return nil, fmt.Errorf("decode stages: %w", err)
		}
	}

	stages := make([]template.Stage, len(records))
	for i, rec := range records {
		stages[i] = template.Stage{
			ID:              rec.ID,
			Order:           rec.Order,
			Type:            rec.Type,
			Template:        rec.Template,
			ToolID:          rec.ToolID,
			ReferenceImages: rec.ReferenceImages,
		}
	}

	return template.Normalize(stages), nil
}
