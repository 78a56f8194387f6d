package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/nomzodai/nomzod-api/internal/domain/question"
	"github.com/nomzodai/nomzod-api/internal/observability"
)

type QuestionTypesRepo struct {
	db   DBTX
	prom *observability.Prom
}

func scanType(row pgx.Row) (question.Type, error) {
	var t question.Type
	err := row.Scan(&t.ID, &t.TypeName, &t.CreatedAt, &t.UpdatedAt)
	return t, err
}

func (r *QuestionTypesRepo) Create(ctx context.Context, typeName string) (t question.Type, err error) {
	err = observe(r.prom, "question_types.create", func() error {
		t, err = scanType(r.db.QueryRow(ctx, `
			INSERT INTO question_type (type_name)
			VALUES ($1)
			RETURNING id, type_name, created_at, updated_at
		`, typeName))
		return err
	})

	if observability.IsUniqueViolation(err) {
		return question.Type{}, question.ErrTypeNameTaken
	}
	return t, err
}

func (r *QuestionTypesRepo) GetByID(ctx context.Context, id int64) (t question.Type, err error) {
	err = observe(r.prom, "question_types.get_by_id", func() error {
		t, err = scanType(r.db.QueryRow(ctx, `
			SELECT id, type_name, created_at, updated_at
			FROM question_type
			WHERE id = $1
		`, id))
		return err
	})

	if err != nil {
		return question.Type{}, notFound(err, question.ErrTypeNotFound)
	}
	return t, nil
}

func (r *QuestionTypesRepo) List(ctx context.Context) ([]question.Type, error) {
	out := make([]question.Type, 0)

	err := observe(r.prom, "question_types.list", func() error {
		rows, err := r.db.Query(ctx, `
			SELECT id, type_name, created_at, updated_at
			FROM question_type
			ORDER BY id ASC
		`)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			t, err := scanType(rows)
			if err != nil {
				return err
			}
			out = append(out, t)
		}
		return rows.Err()
	})

	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *QuestionTypesRepo) Update(ctx context.Context, in question.Type) (t question.Type, err error) {
	err = observe(r.prom, "question_types.update", func() error {
		t, err = scanType(r.db.QueryRow(ctx, `
			UPDATE question_type
			SET type_name = $2, updated_at = NOW()
			WHERE id = $1
			RETURNING id, type_name, created_at, updated_at
		`, in.ID, in.TypeName))
		return err
	})

	if err != nil {
		if observability.IsUniqueViolation(err) {
			return question.Type{}, question.ErrTypeNameTaken
		}
		return question.Type{}, notFound(err, question.ErrTypeNotFound)
	}
	return t, nil
}

func (r *QuestionTypesRepo) Delete(ctx context.Context, id int64) error {
	var tag pgconn.CommandTag

	err := observe(r.prom, "question_types.delete", func() (err error) {
		tag, err = r.db.Exec(ctx, `DELETE FROM question_type WHERE id = $1`, id)
		return err
	})
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return question.ErrTypeNotFound
	}
	return nil
}
