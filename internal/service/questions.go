package service

import (
	"context"
	"log/slog"

	"github.com/nomzodai/nomzod-api/internal/cache"
	"github.com/nomzodai/nomzod-api/internal/domain/question"
	"github.com/nomzodai/nomzod-api/internal/observability"
	"github.com/nomzodai/nomzod-api/internal/repo"
)

type QuestionService struct {
	store repo.Store
	cache typeCache
	log   *slog.Logger
}

// NewQuestionService shares c with the question-type service so that writes
// here invalidate the cached types embedding these questions.
func NewQuestionService(store repo.Store, c cache.Cache, prom *observability.Prom, log *slog.Logger) *QuestionService {
	if log == nil {
		log = slog.Default()
	}
	return &QuestionService{
		store: store,
		cache: typeCache{c: c, prom: prom, log: log},
		log:   log,
	}
}

// Create fails with question.ErrTypeNotFound when the type does not exist.
func (s *QuestionService) Create(ctx context.Context, req question.CreateQuestionRequest) (question.Question, error) {
	if req.TypeID == nil {
		return question.Question{}, question.ErrTypeNotFound
	}
	typeID := *req.TypeID

	text, err := nonBlank("text", req.Text)
	if err != nil {
		return question.Question{}, err
	}
	answer, err := nonBlank("answer", req.Answer)
	if err != nil {
		return question.Question{}, err
	}

	var created question.Question

	err = s.store.WithTx(ctx, func(tx repo.Repos) error {
		if _, err := tx.QuestionTypes().GetByID(ctx, typeID); err != nil {
			return err
		}

		q, err := tx.Questions().Create(ctx, question.Question{
			Text:   text,
			Answer: answer,
			TypeID: typeID,
		})
		if err != nil {
			return err
		}
		created = q
		return nil
	})
	if err != nil {
		return question.Question{}, err
	}

	s.cache.invalidate(ctx)
	return created, nil
}

func (s *QuestionService) List(ctx context.Context) ([]question.Question, error) {
	out, err := s.store.Questions().List(ctx)
	if err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, question.ErrQuestionsNotFound
	}
	return out, nil
}

func (s *QuestionService) ListByType(ctx context.Context, typeID int64) ([]question.Question, error) {
	out, err := s.store.Questions().ListByType(ctx, typeID)
	if err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, question.ErrQuestionsNotFound
	}
	return out, nil
}

func (s *QuestionService) Get(ctx context.Context, id int64) (question.Question, error) {
	return s.store.Questions().GetByID(ctx, id)
}

// Update applies the non-nil fields of req. A supplied type_id must exist.
func (s *QuestionService) Update(ctx context.Context, id int64, req question.UpdateQuestionRequest) (question.Question, error) {
	var text, answer string
	if req.Text != nil {
		t, err := nonBlank("text", *req.Text)
		if err != nil {
			return question.Question{}, err
		}
		text = t
	}
	if req.Answer != nil {
		a, err := nonBlank("answer", *req.Answer)
		if err != nil {
			return question.Question{}, err
		}
		answer = a
	}

	var updated question.Question

	err := s.store.WithTx(ctx, func(tx repo.Repos) error {
		q, err := tx.Questions().GetByID(ctx, id)
		if err != nil {
			return err
		}

		if req.TypeID != nil {
			if _, err := tx.QuestionTypes().GetByID(ctx, *req.TypeID); err != nil {
				return err
			}
			q.TypeID = *req.TypeID
		}
		if req.Text != nil {
			q.Text = text
		}
		if req.Answer != nil {
			q.Answer = answer
		}

		updated, err = tx.Questions().Update(ctx, q)
		return err
	})
	if err != nil {
		return question.Question{}, err
	}

	s.cache.invalidate(ctx)
	return updated, nil
}

func (s *QuestionService) Delete(ctx context.Context, id int64) error {
	err := s.store.WithTx(ctx, func(tx repo.Repos) error {
		return tx.Questions().Delete(ctx, id)
	})
	if err != nil {
		return err
	}

	s.cache.invalidate(ctx)
	return nil
}
