package service

import (
	"context"
	"log/slog"

	"github.com/nomzodai/nomzod-api/internal/cache"
	"github.com/nomzodai/nomzod-api/internal/domain/question"
	"github.com/nomzodai/nomzod-api/internal/observability"
	"github.com/nomzodai/nomzod-api/internal/repo"
)

type QuestionTypeService struct {
	store repo.Store
	cache typeCache
	log   *slog.Logger
}

func NewQuestionTypeService(store repo.Store, c cache.Cache, prom *observability.Prom, log *slog.Logger) *QuestionTypeService {
	if log == nil {
		log = slog.Default()
	}
	return &QuestionTypeService{
		store: store,
		cache: typeCache{c: c, prom: prom, log: log},
		log:   log,
	}
}

func (s *QuestionTypeService) Create(ctx context.Context, req question.CreateTypeRequest) (question.Type, error) {
	name, err := nonBlank("typeName", req.TypeName)
	if err != nil {
		return question.Type{}, err
	}

	var created question.Type

	err = s.store.WithTx(ctx, func(tx repo.Repos) error {
		t, err := tx.QuestionTypes().Create(ctx, name)
		if err != nil {
			return err
		}
		created = t
		return nil
	})
	if err != nil {
		return question.Type{}, err
	}

	created.Questions = []question.Question{}
	s.cache.invalidate(ctx)

	return created, nil
}

// List returns every type with its questions. An empty table is
// question.ErrTypesNotFound.
func (s *QuestionTypeService) List(ctx context.Context) ([]question.Type, error) {
	cached, key, ok := s.cache.getList(ctx)
	if ok {
		return cached, nil
	}

	types, err := s.store.QuestionTypes().List(ctx)
	if err != nil {
		return nil, err
	}
	if len(types) == 0 {
		return nil, question.ErrTypesNotFound
	}

	questions, err := s.store.Questions().List(ctx)
	if err != nil {
		return nil, err
	}

	byType := make(map[int64][]question.Question, len(types))
	for _, q := range questions {
		byType[q.TypeID] = append(byType[q.TypeID], q)
	}

	for i := range types {
		types[i].Questions = byType[types[i].ID]
		if types[i].Questions == nil {
			types[i].Questions = []question.Question{}
		}
	}

	s.cache.set(ctx, key, types)
	return types, nil
}

func (s *QuestionTypeService) Get(ctx context.Context, id int64) (question.Type, error) {
	cached, key, ok := s.cache.getType(ctx, id)
	if ok {
		return cached, nil
	}

	t, err := s.withQuestions(ctx, s.store, id)
	if err != nil {
		return question.Type{}, err
	}

	s.cache.set(ctx, key, t)
	return t, nil
}

func (s *QuestionTypeService) withQuestions(ctx context.Context, r repo.Repos, id int64) (question.Type, error) {
	t, err := r.QuestionTypes().GetByID(ctx, id)
	if err != nil {
		return question.Type{}, err
	}

	questions, err := r.Questions().ListByType(ctx, id)
	if err != nil {
		return question.Type{}, err
	}
	t.Questions = questions

	return t, nil
}

// Update applies the non-nil fields of req.
func (s *QuestionTypeService) Update(ctx context.Context, id int64, req question.UpdateTypeRequest) (question.Type, error) {
	var name string
	if req.TypeName != nil {
		n, err := nonBlank("typeName", *req.TypeName)
		if err != nil {
			return question.Type{}, err
		}
		name = n
	}

	var updated question.Type

	err := s.store.WithTx(ctx, func(tx repo.Repos) error {
		t, err := tx.QuestionTypes().GetByID(ctx, id)
		if err != nil {
			return err
		}

		if req.TypeName != nil {
			t.TypeName = name
			if _, err := tx.QuestionTypes().Update(ctx, t); err != nil {
				return err
			}
		}

		updated, err = s.withQuestions(ctx, tx, id)
		return err
	})
	if err != nil {
		return question.Type{}, err
	}

	s.cache.invalidate(ctx)
	return updated, nil
}

// Delete removes the type. Questions referencing it are kept.
func (s *QuestionTypeService) Delete(ctx context.Context, id int64) error {
	err := s.store.WithTx(ctx, func(tx repo.Repos) error {
		return tx.QuestionTypes().Delete(ctx, id)
	})
	if err != nil {
		return err
	}

	s.cache.invalidate(ctx)
	s.log.InfoContext(ctx, "question type deleted", "type_id", id)
	return nil
}
