package template

import (
	"encoding/json"
	"slices"
	"strings"

	"github.com/google/uuid"
)

// StageType distinguishes templated generation stages from tool invocations.
type StageType string

// Valid stage types.
const (
	StageGeneration StageType = "generation"
	StageTool       StageType = "tool"
)

var stageTypes = []StageType{
	StageGeneration,
	StageTool,
}

// StageTypes returns the list of valid stage types.
func StageTypes() []StageType {
	return stageTypes
}

// UnmarshalJSON validates that the decoded string is a known stage type.
// An empty string is accepted and resolved by Normalize.
func (t *StageType) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	v := StageType(raw)
	if v != "" && !slices.Contains(stageTypes, v) {
		return ErrInvalidStageType
	}
	*t = v
	return nil
}

// ParseStageType validates a string as a known stage type.
func ParseStageType(s string) (StageType, error) {
	v := StageType(s)
	if !slices.Contains(stageTypes, v) {
		return "", ErrInvalidStageType
	}
	return v, nil
}

// ReferenceImage is an image always supplied alongside a stage's invocation.
type ReferenceImage struct {
	ID   string `json:"id"`
	URL  string `json:"url"`
	Name string `json:"name,omitempty"`
}

// Stage is one step of a recipe pipeline.
// Fields are always derived from Template and never trusted from input.
type Stage struct {
	ID              string           `json:"id"`
	Order           int              `json:"order"`
	Type            StageType        `json:"type"`
	Template        string           `json:"template"`
	ToolID          string           `json:"toolId,omitempty"`
	Fields          []Field          `json:"fields"`
	ReferenceImages []ReferenceImage `json:"referenceImages"`
}

// IsTool reports whether the stage invokes an external tool.
func (s Stage) IsTool() bool {
	return s.Type == StageTool
}

// NewGenerationStage creates a generation stage for template.
func NewGenerationStage(template string) Stage {
	return Stage{
		ID:       uuid.NewString(),
		Type:     StageGeneration,
		Template: template,
	}
}

// NewToolStage creates a tool stage invoking toolID.
func NewToolStage(toolID string) Stage {
	return Stage{
		ID:     uuid.NewString(),
		Type:   StageTool,
		ToolID: toolID,
	}
}

// Normalize returns a copy of stages with dense 0..N-1 ordering, resolved
// stage types, assigned ids, and fields re-derived from each template.
// A stage without a declared type that carries a tool id, or a generation
// stage with a tool id but no template, is treated as a tool stage.
func Normalize(stages []Stage) []Stage {
	out := make([]Stage, len(stages))

	for i, s := range stages {
		s.Order = i
		if s.ID == "" {
			s.ID = uuid.NewString()
		}

		s.ToolID = strings.TrimSpace(s.ToolID)
		if s.Type != StageTool && s.ToolID != "" && strings.TrimSpace(s.Template) == "" {
			s.Type = StageTool
		}
		if s.Type == "" {
			s.Type = StageGeneration
		}

		if s.IsTool() {
			s.Template = ""
			s.Fields = []Field{}
		} else {
			s.ToolID = ""
			s.Fields = Parse(s.Template, i)
		}

		if s.ReferenceImages == nil {
			s.ReferenceImages = []ReferenceImage{}
		} else {
			s.ReferenceImages = slices.Clone(s.ReferenceImages)
		}

		out[i] = s
	}

	return out
}

// AppendStage adds stage to the end of the pipeline.
func AppendStage(stages []Stage, stage Stage) []Stage {
	next := append(slices.Clone(stages), stage)
	return Normalize(next)
}

// RemoveStage deletes the stage at index. A pipeline is never left empty.
func RemoveStage(stages []Stage, index int) ([]Stage, error) {
	if index < 0 || index >= len(stages) {
		return nil, ErrStageIndex
	}
	if len(stages) == 1 {
		return nil, ErrNoStages
	}
	next := slices.Delete(slices.Clone(stages), index, index+1)
	return Normalize(next), nil
}

// MoveStage relocates the stage at from to position to.
func MoveStage(stages []Stage, from, to int) ([]Stage, error) {
	if from < 0 || from >= len(stages) || to < 0 || to >= len(stages) {
		return nil, ErrStageIndex
	}
	next := slices.Clone(stages)
	s := next[from]
	next = slices.Delete(next, from, from+1)
	next = slices.Insert(next, to, s)
	return Normalize(next), nil
}

// SetTemplate replaces the template of the stage at index and converts it to
// a generation stage.
func SetTemplate(stages []Stage, index int, tmpl string) ([]Stage, error) {
	if index < 0 || index >= len(stages) {
		return nil, ErrStageIndex
	}
	next := slices.Clone(stages)
	next[index].Type = StageGeneration
	next[index].Template = tmpl
	next[index].ToolID = ""
	return Normalize(next), nil
}

// SetTool converts the stage at index into a tool stage invoking toolID.
func SetTool(stages []Stage, index int, toolID string) ([]Stage, error) {
	if index < 0 || index >= len(stages) {
		return nil, ErrStageIndex
	}
	next := slices.Clone(stages)
	next[index].Type = StageTool
	next[index].ToolID = toolID
	next[index].Template = ""
	return Normalize(next), nil
}

// ValidateStages checks the pipeline invariants: at least one stage, every
// stage has a template or a tool id, and tool stages carry a tool id.
func ValidateStages(stages []Stage) error {
	if len(stages) == 0 {
		return ErrNoStages
	}
	for _, s := range stages {
		if s.IsTool() {
			if strings.TrimSpace(s.ToolID) == "" {
				return ErrMissingTool
			}
			continue
		}
		if strings.TrimSpace(s.Template) == "" && strings.TrimSpace(s.ToolID) == "" {
			return ErrEmptyStage
		}
	}
	return nil
}
