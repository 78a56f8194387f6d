package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/nomzodai/nomzod-api/internal/domain/question"
	"github.com/nomzodai/nomzod-api/internal/observability"
)

// joined with the type so responses can embed it; the LEFT JOIN keeps
// questions whose type has been deleted
const questionSelect = `
	SELECT q.id, q.text, q.answer, q.type_id, q.created_at, q.updated_at,
		t.id, t.type_name, t.created_at, t.updated_at
	FROM question q
	LEFT JOIN question_type t ON t.id = q.type_id
`

type QuestionsRepo struct {
	db   DBTX
	prom *observability.Prom
}

func scanQuestion(row pgx.Row) (question.Question, error) {
	var (
		q        question.Question
		tID      *int64
		tName    *string
		tCreated *time.Time
		tUpdated *time.Time
	)

	err := row.Scan(
		&q.ID, &q.Text, &q.Answer, &q.TypeID, &q.CreatedAt, &q.UpdatedAt,
		&tID, &tName, &tCreated, &tUpdated,
	)
	if err != nil {
		return question.Question{}, err
	}

	if tID != nil {
		q.Type = &question.TypeSummary{
			ID:        *tID,
			TypeName:  *tName,
			CreatedAt: *tCreated,
			UpdatedAt: *tUpdated,
		}
	}
	return q, nil
}

func (r *QuestionsRepo) collect(ctx context.Context, op, where string, args ...any) ([]question.Question, error) {
	out := make([]question.Question, 0)

	err := observe(r.prom, op, func() error {
		rows, err := r.db.Query(ctx, questionSelect+where+` ORDER BY q.id ASC`, args...)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			q, err := scanQuestion(rows)
			if err != nil {
				return err
			}
			out = append(out, q)
		}
		return rows.Err()
	})

	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *QuestionsRepo) Create(ctx context.Context, in question.Question) (question.Question, error) {
	var id int64

	err := observe(r.prom, "questions.create", func() error {
		return r.db.QueryRow(ctx, `
			INSERT INTO question (text, answer, type_id)
			VALUES ($1, $2, $3)
			RETURNING id
		`, in.Text, in.Answer, in.TypeID).Scan(&id)
	})
	if err != nil {
		return question.Question{}, err
	}

	return r.GetByID(ctx, id)
}

func (r *QuestionsRepo) GetByID(ctx context.Context, id int64) (q question.Question, err error) {
	err = observe(r.prom, "questions.get_by_id", func() error {
		q, err = scanQuestion(r.db.QueryRow(ctx, questionSelect+` WHERE q.id = $1`, id))
		return err
	})

	if err != nil {
		return question.Question{}, notFound(err, question.ErrQuestionNotFound)
	}
	return q, nil
}

func (r *QuestionsRepo) List(ctx context.Context) ([]question.Question, error) {
	return r.collect(ctx, "questions.list", "")
}

func (r *QuestionsRepo) ListByType(ctx context.Context, typeID int64) ([]question.Question, error) {
	return r.collect(ctx, "questions.list_by_type", ` WHERE q.type_id = $1`, typeID)
}

func (r *QuestionsRepo) Update(ctx context.Context, in question.Question) (question.Question, error) {
	var tag pgconn.CommandTag

	err := observe(r.prom, "questions.update", func() (err error) {
		tag, err = r.db.Exec(ctx, `
			UPDATE question
			SET text = $2, answer = $3, type_id = $4, updated_at = NOW()
			WHERE id = $1
		`, in.ID, in.Text, in.Answer, in.TypeID)
		return err
	})
	if err != nil {
		return question.Question{}, err
	}
	if tag.RowsAffected() == 0 {
		return question.Question{}, question.ErrQuestionNotFound
	}

	return r.GetByID(ctx, in.ID)
}

func (r *QuestionsRepo) Delete(ctx context.Context, id int64) error {
	var tag pgconn.CommandTag

	err := observe(r.prom, "questions.delete", func() (err error) {
		tag, err = r.db.Exec(ctx, `DELETE FROM question WHERE id = $1`, id)
		return err
	})
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return question.ErrQuestionNotFound
	}
	return nil
}
