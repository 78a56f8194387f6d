package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/nomzodai/nomzod-api/internal/domain/question"
	"github.com/nomzodai/nomzod-api/internal/domain/user"
	"github.com/nomzodai/nomzod-api/internal/repo"
)

func TestUsersEmailIsUnique(t *testing.T) {
	ctx := context.Background()
	s := NewStore()

	if _, err := s.Users().Create(ctx, user.User{Email: "a@test.io"}); err != nil {
		t.Fatalf("create: %v", err)
	}
	_, err := s.Users().Create(ctx, user.User{Email: "A@test.io"})
	if !errors.Is(err, user.ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

func TestWithTxRollsBackOnError(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	boom := errors.New("boom")

	err := s.WithTx(ctx, func(tx repo.Repos) error {
		if _, err := tx.QuestionTypes().Create(ctx, "Go"); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}

	types, _ := s.QuestionTypes().List(ctx)
	if len(types) != 0 {
		t.Fatalf("expected rollback, got %d types", len(types))
	}
}

func TestQuestionsCarryTypeSummaryUntilTypeDeleted(t *testing.T) {
	ctx := context.Background()
	s := NewStore()

	qt, _ := s.QuestionTypes().Create(ctx, "Go")
	q, err := s.Questions().Create(ctx, question.Question{Text: "t", Answer: "a", TypeID: qt.ID})
	if err != nil {
		t.Fatalf("create question: %v", err)
	}
	if q.Type == nil || q.Type.TypeName != "Go" {
		t.Fatalf("expected type summary, got %+v", q.Type)
	}

	if err := s.QuestionTypes().Delete(ctx, qt.ID); err != nil {
		t.Fatalf("delete type: %v", err)
	}

	got, err := s.Questions().GetByID(ctx, q.ID)
	if err != nil {
		t.Fatalf("question should survive type deletion: %v", err)
	}
	if got.TypeID != qt.ID || got.Type != nil {
		t.Fatalf("expected orphan with type_id %d and no summary, got %+v", qt.ID, got)
	}
}

func TestDeleteUserCascadesImage(t *testing.T) {
	ctx := context.Background()
	s := NewStore()

	u, _ := s.Users().Create(ctx, user.User{Email: "a@test.io"})
	if _, err := s.UserImages().Upsert(ctx, u.ID, "http://x/1.png"); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	img, _ := s.UserImages().Upsert(ctx, u.ID, "http://x/2.png")
	if img.ImageURL != "http://x/2.png" {
		t.Fatalf("upsert should replace url, got %q", img.ImageURL)
	}

	got, _ := s.Users().GetByID(ctx, u.ID)
	if got.ImageURL == nil || *got.ImageURL != "http://x/2.png" {
		t.Fatalf("expected image url on user, got %v", got.ImageURL)
	}

	if err := s.Users().Delete(ctx, u.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := s.UserImages().GetByUserID(ctx, u.ID); !errors.Is(err, user.ErrImageNotFound) {
		t.Fatalf("expected image removed, got %v", err)
	}
}

func TestIDsAreSequencedPerTable(t *testing.T) {
	ctx := context.Background()
	s := NewStore()

	if _, err := s.Users().Create(ctx, user.User{Email: "a@test.io"}); err != nil {
		t.Fatalf("create user: %v", err)
	}
	qt, err := s.QuestionTypes().Create(ctx, "Go")
	if err != nil {
		t.Fatalf("create type: %v", err)
	}
	q, err := s.Questions().Create(ctx, question.Question{Text: "t", Answer: "a", TypeID: qt.ID})
	if err != nil {
		t.Fatalf("create question: %v", err)
	}

	if qt.ID != 1 || q.ID != 1 {
		t.Fatalf("expected id 1 for the first type and question, got type=%d question=%d", qt.ID, q.ID)
	}
}
