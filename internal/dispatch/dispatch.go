// Package dispatch hands rendered recipe prompts to the image-generation
// pipeline. The library publishes a Job when a session is applied and has
// no compile-time knowledge of the consumer.
package dispatch

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// JobStage is one rendered pipeline step.
type JobStage struct {
	Order           int      `json:"order"`
	Type            string   `json:"type"`
	Prompt          string   `json:"prompt,omitempty"`
	ToolID          string   `json:"toolId,omitempty"`
	ReferenceImages []string `json:"referenceImages"`
}

// Job is a rendered recipe ready for generation.
type Job struct {
	ID                   uuid.UUID  `json:"id"`
	Owner                string     `json:"owner"`
	RecipeID             uuid.UUID  `json:"recipeId"`
	RecipeName           string     `json:"recipeName"`
	Stages               []JobStage `json:"stages"`
	ReferenceImages      []string   `json:"referenceImages"`
	SuggestedAspectRatio string     `json:"suggestedAspectRatio,omitempty"`
	SuggestedModel       string     `json:"suggestedModel,omitempty"`
	CreatedAt            time.Time  `json:"createdAt"`
}

// Dispatcher publishes jobs to a consumer.
type Dispatcher interface {
	Dispatch(ctx context.Context, job Job) error
}

// Func adapts a function to the Dispatcher interface.
type Func func(ctx context.Context, job Job) error

func (f Func) Dispatch(ctx context.Context, job Job) error {
	return f(ctx, job)
}

// Noop discards every job.
type Noop struct{}

func (Noop) Dispatch(ctx context.Context, job Job) error {
	return nil
}
