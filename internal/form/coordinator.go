package form

import (
	"context"
	"log/slog"

	"github.com/gourmich/recipeform/internal/model"
	"github.com/gourmich/recipeform/internal/validation"
)

// User facing submission messages.
const (
	MsgCreated      = "Recipe added successfully!"
	MsgUpdated      = "Recipe updated!"
	MsgDeleted      = "Recipe deleted."
	MsgCreateFailed = "Failed to save the recipe."
	MsgUpdateFailed = "Failed to update the recipe."
	MsgDeleteFailed = "Failed to delete the recipe."
	MsgInvalid      = "Please fix the highlighted fields."
	MsgNotSignedIn  = "You need to be logged in to do this."
)

// Result describes a completed submission.
type Result struct {
	Mode     Mode
	RecipeID int64
	Message  string
	Payload  *model.RecipePayload
}

// Coordinator turns a finished Session into a create or update call.
type Coordinator struct {
	repo      RecipeRepository
	identity  Identity
	validator *validation.Validator
	log       *slog.Logger
}

// NewCoordinator returns a Coordinator backed by repo.
func NewCoordinator(repo RecipeRepository, identity Identity, log *slog.Logger) *Coordinator {
	if log == nil {
		log = slog.Default()
	}
	return &Coordinator{
		repo:      repo,
		identity:  identity,
		validator: validation.New(),
		log:       log,
	}
}

// Submit validates s and sends it. Every error returned is a *SubmissionError.
func (c *Coordinator) Submit(ctx context.Context, s *Session) (*Result, error) {
	c.settlePendingEdit(s)

	if !s.FormValid() {
		s.TouchAll()
		return nil, &SubmissionError{Kind: KindInvalid, Message: MsgInvalid, Err: ErrFormInvalid}
	}

	author, ok := c.identity.CurrentUsername(ctx)
	if !ok || author == "" {
		return nil, &SubmissionError{Kind: KindUnauthenticated, Message: MsgNotSignedIn}
	}

	payload := s.Draft().Payload(author)
	if err := c.validator.Validate(payload); err != nil {
		return nil, &SubmissionError{Kind: KindInvalid, Message: MsgInvalid, Err: err}
	}

	switch s.Mode() {
	case ModeEdit:
		id, err := c.repo.UpdateRecipe(ctx, s.RecipeID(), payload)
		if err != nil {
			c.log.Error("update recipe failed", "recipe_id", s.RecipeID(), "error", err)
			return nil, &SubmissionError{Kind: KindRemote, Message: MsgUpdateFailed, Status: statusOf(err), Err: err}
		}
		if id == 0 {
			id = s.RecipeID()
		}
		c.log.Info("recipe updated", "recipe_id", id, "author", author)
		return &Result{Mode: ModeEdit, RecipeID: id, Message: MsgUpdated, Payload: payload}, nil
	default:
		id, err := c.repo.CreateRecipe(ctx, payload)
		if err != nil {
			c.log.Error("create recipe failed", "error", err)
			return nil, &SubmissionError{Kind: KindRemote, Message: MsgCreateFailed, Status: statusOf(err), Err: err}
		}
		c.log.Info("recipe created", "recipe_id", id, "author", author)
		return &Result{Mode: ModeCreate, RecipeID: id, Message: MsgCreated, Payload: payload}, nil
	}
}

// Delete removes a stored recipe.
func (c *Coordinator) Delete(ctx context.Context, id int64) (*Result, error) {
	if _, ok := c.identity.CurrentUsername(ctx); !ok {
		return nil, &SubmissionError{Kind: KindUnauthenticated, Message: MsgNotSignedIn}
	}
	if err := c.repo.DeleteRecipe(ctx, id); err != nil {
		c.log.Error("delete recipe failed", "recipe_id", id, "error", err)
		return nil, &SubmissionError{Kind: KindRemote, Message: MsgDeleteFailed, Status: statusOf(err), Err: err}
	}
	return &Result{Mode: ModeEdit, RecipeID: id, Message: MsgDeleted}, nil
}

// settlePendingEdit commits a valid scratch edit and drops an invalid one.
func (c *Coordinator) settlePendingEdit(s *Session) {
	ed := s.Ingredients()
	i, editing := ed.Selected()
	if !editing {
		return
	}
	if ed.Commit() {
		return
	}
	c.log.Warn("discarding invalid ingredient edit", "index", i)
	ed.Cancel()
}
