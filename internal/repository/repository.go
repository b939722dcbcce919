package repository

import (
	"context"
	"errors"

	"rspo-readiness/internal/model"
)

// ErrDuplicate is returned when a unique key (user email) already exists
var ErrDuplicate = errors.New("duplicate key")

// UserRepo stores accounts. Emails are stored lower-cased by the caller.
type UserRepo interface {
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id string) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
}

// ResultRepo stores completed-stage records, one per (user, stage)
type ResultRepo interface {
	Save(ctx context.Context, record *model.AssessmentRecord) error
	GetByUserStage(ctx context.Context, userID string, stage model.Stage) (*model.AssessmentRecord, error)
	GetByUser(ctx context.Context, userID string) ([]*model.AssessmentRecord, error)
	DeleteByUser(ctx context.Context, userID string) error
}
