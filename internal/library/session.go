package library

import (
	"context"
	"fmt"
	"maps"

	"github.com/google/uuid"

	"github.com/JaimeStill/cookbook/internal/dispatch"
	"github.com/JaimeStill/cookbook/internal/recipes"
	"github.com/JaimeStill/cookbook/internal/template"
)

// SessionState is the phase of the active recipe session.
type SessionState string

const (
	Idle    SessionState = "idle"
	Editing SessionState = "editing"
)

// Session is the single recipe being filled in. Values are keyed by field id.
type Session struct {
	State      SessionState    `json:"state"`
	RecipeID   *uuid.UUID      `json:"recipeId,omitempty"`
	RecipeNote *string         `json:"recipeNote,omitempty"`
	Values     template.Values `json:"values"`
}

// ApplyResult reports the outcome of applying the session. When the
// validation fails nothing is built or dispatched and the session stays open.
type ApplyResult struct {
	Validation template.Validation `json:"validation"`
	Prompts    *template.Prompts   `json:"prompts,omitempty"`
	JobID      *uuid.UUID          `json:"jobId,omitempty"`
}

func idleSession() Session {
	return Session{State: Idle, Values: template.Values{}}
}

func (s Session) active(id uuid.UUID) bool {
	return s.State == Editing && s.RecipeID != nil && *s.RecipeID == id
}

func (s Session) clone() Session {
	s.Values = maps.Clone(s.Values)
	return s
}

// Session returns a copy of the active session.
func (l *Library) Session() Session {
	l.mu.RLock()
	defer l.mu.RUnlock()

	return l.session.clone()
}

// SelectRecipe starts a session for recipe id with empty values, replacing
// any session already open.
func (l *Library) SelectRecipe(id uuid.UUID) (Session, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	r, _, ok := l.find(id)
	if !ok {
		return Session{}, recipes.ErrNotFound
	}

	recipeID := r.ID
	l.resetSession(Session{
		State:      Editing,
		RecipeID:   &recipeID,
		RecipeNote: r.RecipeNote,
		Values:     template.Values{},
	})

	l.logger.Info("session started", "recipe_id", id)
	return l.session.clone(), nil
}

// SetFieldValue records value for fieldID in the active session.
func (l *Library) SetFieldValue(fieldID, value string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.session.State != Editing {
		return recipes.ErrNoActiveSession
	}

	l.session.Values[fieldID] = value
	return nil
}

// SetFieldValues records several values in the active session.
func (l *Library) SetFieldValues(values template.Values) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.session.State != Editing {
		return recipes.ErrNoActiveSession
	}

	maps.Copy(l.session.Values, values)
	return nil
}

// Validate checks the active session's values against its recipe.
func (l *Library) Validate() (template.Validation, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	r, err := l.activeRecipe()
	if err != nil {
		return template.Validation{}, err
	}
	return template.ValidateRecipe(r.Stages, l.session.Values), nil
}

// Apply validates the session, renders every stage, dispatches the job,
// and closes the session. A failed validation or dispatch leaves the
// session open for correction. The dispatcher runs without the library
// lock; a second Apply during dispatch returns ErrApplyInProgress.
func (l *Library) Apply(ctx context.Context) (*ApplyResult, error) {
	result, job, gen, err := l.stageApply()
	if err != nil || job == nil {
		return result, err
	}

	dispatchErr := l.dispatcher.Dispatch(ctx, *job)

	l.mu.Lock()
	defer l.mu.Unlock()

	l.applying = false
	if dispatchErr != nil {
		return nil, fmt.Errorf("%w: recipe %s: %w", ErrDispatch, job.RecipeID, dispatchErr)
	}

	// A session replaced during dispatch belongs to a newer selection.
	if l.sessionGen == gen {
		l.resetSession(idleSession())
	}

	result.JobID = &job.ID
	l.logger.Info("recipe applied", "recipe_id", job.RecipeID, "job_id", job.ID)
	return result, nil
}

// stageApply validates and renders the active session under the lock.
// A nil job means the apply is blocked and result explains why.
func (l *Library) stageApply() (*ApplyResult, *dispatch.Job, uint64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.applying {
		return nil, nil, 0, ErrApplyInProgress
	}

	r, err := l.activeRecipe()
	if err != nil {
		return nil, nil, 0, err
	}

	result := &ApplyResult{
		Validation: template.ValidateRecipe(r.Stages, l.session.Values),
	}
	if !result.Validation.IsValid {
		l.logger.Info("apply blocked", "recipe_id", r.ID, "missing", result.Validation.MissingFields)
		return result, nil, 0, nil
	}

	prompts := template.BuildRecipePrompts(r.Stages, l.session.Values)
	if len(prompts.Fallbacks) > 0 {
		l.logger.Debug("field values resolved by name match", "recipe_id", r.ID, "fields", prompts.Fallbacks)
	}

	job := l.job(r, prompts)
	result.Prompts = &prompts
	l.applying = true
	return result, &job, l.sessionGen, nil
}

// Preview validates and renders recipe id with values without touching
// the session or dispatching anything.
func (l *Library) Preview(id uuid.UUID, values template.Values) (*ApplyResult, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	r, _, ok := l.find(id)
	if !ok {
		return nil, recipes.ErrNotFound
	}

	prompts := template.BuildRecipePrompts(r.Stages, values)
	return &ApplyResult{
		Validation: template.ValidateRecipe(r.Stages, values),
		Prompts:    &prompts,
	}, nil
}

// Cancel discards the active session without building anything.
func (l *Library) Cancel() {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.resetSession(idleSession())
}

func (l *Library) resetSession(s Session) {
	l.session = s
	l.sessionGen++
}

func (l *Library) activeRecipe() (*recipes.Recipe, error) {
	if l.session.State != Editing || l.session.RecipeID == nil {
		return nil, recipes.ErrNoActiveSession
	}
	r, _, ok := l.find(*l.session.RecipeID)
	if !ok {
		l.resetSession(idleSession())
		return nil, recipes.ErrNoActiveSession
	}
	return r, nil
}

func (l *Library) job(r *recipes.Recipe, prompts template.Prompts) dispatch.Job {
	stages := make([]dispatch.JobStage, len(r.Stages))
	for i, s := range r.Stages {
		stages[i] = dispatch.JobStage{
			Order:           s.Order,
			Type:            string(s.Type),
			Prompt:          prompts.Prompts[i],
			ToolID:          s.ToolID,
			ReferenceImages: prompts.StageReferenceImages[i],
		}
	}

	job := dispatch.Job{
		ID:              uuid.New(),
		Owner:           l.owner,
		RecipeID:        r.ID,
		RecipeName:      r.Name,
		Stages:          stages,
		ReferenceImages: prompts.ReferenceImages,
		CreatedAt:       l.now().UTC(),
	}
	if r.SuggestedAspectRatio != nil {
		job.SuggestedAspectRatio = *r.SuggestedAspectRatio
	}
	if r.SuggestedModel != nil {
		job.SuggestedModel = *r.SuggestedModel
	}
	return job
}
