// Package repo declares the persistence contracts shared by the postgres and
// in-memory stores.
package repo

import (
	"context"

	"github.com/nomzodai/nomzod-api/internal/domain/question"
	"github.com/nomzodai/nomzod-api/internal/domain/user"
)

type UserRepository interface {
	// Create returns user.ErrEmailTaken on a duplicate email.
	Create(ctx context.Context, u user.User) (user.User, error)
	// GetByID fills ImageURL when the user has an image.
	GetByID(ctx context.Context, id int64) (user.User, error)
	GetByEmail(ctx context.Context, email string) (user.User, error)
	List(ctx context.Context) ([]user.User, error)
	// Update writes every mutable column of u.
	Update(ctx context.Context, u user.User) (user.User, error)
	Delete(ctx context.Context, id int64) error
}

type UserImageRepository interface {
	// Upsert replaces the user's image row if one already exists.
	Upsert(ctx context.Context, userID int64, imageURL string) (user.Image, error)
	GetByUserID(ctx context.Context, userID int64) (user.Image, error)
}

type QuestionTypeRepository interface {
	// Create returns question.ErrTypeNameTaken on a duplicate name.
	Create(ctx context.Context, typeName string) (question.Type, error)
	GetByID(ctx context.Context, id int64) (question.Type, error)
	List(ctx context.Context) ([]question.Type, error)
	Update(ctx context.Context, t question.Type) (question.Type, error)
	Delete(ctx context.Context, id int64) error
}

// QuestionRepository results carry the Type summary when the type still exists.
type QuestionRepository interface {
	Create(ctx context.Context, q question.Question) (question.Question, error)
	GetByID(ctx context.Context, id int64) (question.Question, error)
	List(ctx context.Context) ([]question.Question, error)
	ListByType(ctx context.Context, typeID int64) ([]question.Question, error)
	Update(ctx context.Context, q question.Question) (question.Question, error)
	Delete(ctx context.Context, id int64) error
}

type Repos interface {
	Users() UserRepository
	UserImages() UserImageRepository
	QuestionTypes() QuestionTypeRepository
	Questions() QuestionRepository
}

// Store hands out repositories bound to the pool, or to a single transaction
// inside WithTx. A non-nil error from fn rolls the transaction back and is
// returned as is.
type Store interface {
	Repos
	WithTx(ctx context.Context, fn func(tx Repos) error) error
	Ping(ctx context.Context) error
}
