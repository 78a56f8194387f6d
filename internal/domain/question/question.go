package question

import (
	"errors"
	"time"
)

// TypeSummary is the type embedded in a question response.
type TypeSummary struct {
	ID        int64     `json:"id"`
	TypeName  string    `json:"typeName"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Type struct {
	ID        int64      `json:"id"`
	TypeName  string     `json:"typeName"`
	Questions []Question `json:"questions"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

func (t Type) Summary() *TypeSummary {
	return &TypeSummary{
		ID:        t.ID,
		TypeName:  t.TypeName,
		CreatedAt: t.CreatedAt,
		UpdatedAt: t.UpdatedAt,
	}
}

type Question struct {
	ID     int64  `json:"id"`
	Text   string `json:"text"`
	Answer string `json:"answer"`
	TypeID int64  `json:"type_id"`
	// nil once the referenced type has been deleted
	Type      *TypeSummary `json:"type,omitempty"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
}

var (
	ErrQuestionNotFound  = errors.New("question not found")
	ErrQuestionsNotFound = errors.New("questions not found")
	ErrTypeNotFound      = errors.New("question type not found")
	ErrTypesNotFound     = errors.New("question types not found")
	ErrTypeNameTaken     = errors.New("question type already exists")
)

type CreateTypeRequest struct {
	TypeName string `json:"typeName" binding:"required,notblank,max=255"`
}

type UpdateTypeRequest struct {
	TypeName *string `json:"typeName" binding:"omitempty,notblank,max=255"`
}

type CreateQuestionRequest struct {
	Text   string `json:"text" binding:"required,notblank,max=255"`
	Answer string `json:"answer" binding:"required,notblank,max=255"`
	TypeID *int64 `json:"type_id" binding:"required"`
}

// UpdateQuestionRequest is a partial update: nil fields are left untouched.
type UpdateQuestionRequest struct {
	Text   *string `json:"text" binding:"omitempty,notblank,max=255"`
	Answer *string `json:"answer" binding:"omitempty,notblank,max=255"`
	TypeID *int64  `json:"type_id"`
}

type DeleteResult struct {
	Status string `json:"status"`
	Msg    string `json:"msg"`
}
