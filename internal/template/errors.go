package template

import "errors"

// Stage model errors.
var (
	ErrInvalidStageType = errors.New("stage type must be generation or tool")
	ErrNoStages         = errors.New("recipe must have at least one stage")
	ErrEmptyStage       = errors.New("stage requires a template or a tool")
	ErrMissingTool      = errors.New("tool stage requires a tool id")
	ErrStageIndex       = errors.New("stage index out of range")
)
