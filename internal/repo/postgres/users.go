package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/nomzodai/nomzod-api/internal/domain/user"
	"github.com/nomzodai/nomzod-api/internal/observability"
)

const userColumns = `u.id, u.full_name, u.email, u.hashed_password, u.role,
	u.is_active, u.is_superuser, u.is_verified, u.created_at, u.updated_at`

type UsersRepo struct {
	db   DBTX
	prom *observability.Prom
}

func scanUser(row pgx.Row, extra ...any) (user.User, error) {
	var u user.User

	dest := []any{
		&u.ID,
		&u.FullName,
		&u.Email,
		&u.HashedPassword,
		&u.Role,
		&u.IsActive,
		&u.IsSuperuser,
		&u.IsVerified,
		&u.CreatedAt,
		&u.UpdatedAt,
	}

	err := row.Scan(append(dest, extra...)...)

	return u, err
}

func (r *UsersRepo) Create(ctx context.Context, in user.User) (u user.User, err error) {
	err = observe(r.prom, "users.create", func() error {
		u, err = scanUser(r.db.QueryRow(ctx,
			`INSERT INTO users AS u (full_name, email, hashed_password, role, is_active, is_superuser, is_verified)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			RETURNING `+userColumns,
			in.FullName, in.Email, in.HashedPassword, in.Role, in.IsActive, in.IsSuperuser, in.IsVerified,
		))
		return err
	})

	if err != nil {
		if observability.IsUniqueViolation(err) {
			return user.User{}, user.ErrEmailTaken
		}
		return user.User{}, err
	}

	return u, nil
}

func (r *UsersRepo) GetByID(ctx context.Context, id int64) (u user.User, err error) {
	var img *string

	err = observe(r.prom, "users.get_by_id", func() error {
		u, err = scanUser(r.db.QueryRow(ctx,
			`SELECT `+userColumns+`, i.image_url
			FROM users u
			LEFT JOIN user_image i ON i.user_id = u.id
			WHERE u.id = $1`,
			id,
		), &img)
		return err
	})

	if err != nil {
		return user.User{}, notFound(err, user.ErrNotFound)
	}

	u.ImageURL = img
	return u, nil
}

func (r *UsersRepo) GetByEmail(ctx context.Context, email string) (u user.User, err error) {
	err = observe(r.prom, "users.get_by_email", func() error {
		u, err = scanUser(r.db.QueryRow(ctx,
			`SELECT `+userColumns+` FROM users u WHERE u.email = $1`,
			email,
		))
		return err
	})

	if err != nil {
		return user.User{}, notFound(err, user.ErrNotFound)
	}
	return u, nil
}

func (r *UsersRepo) List(ctx context.Context) ([]user.User, error) {
	out := make([]user.User, 0)

	err := observe(r.prom, "users.list", func() error {
		rows, err := r.db.Query(ctx,
			`SELECT `+userColumns+`, i.image_url
			FROM users u
			LEFT JOIN user_image i ON i.user_id = u.id
			ORDER BY u.id ASC`)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			var img *string
			u, err := scanUser(rows, &img)
			if err != nil {
				return err
			}
			u.ImageURL = img
			out = append(out, u)
		}
		return rows.Err()
	})

	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *UsersRepo) Update(ctx context.Context, in user.User) (u user.User, err error) {
	err = observe(r.prom, "users.update", func() error {
		u, err = scanUser(r.db.QueryRow(ctx,
			`UPDATE users AS u
			SET full_name = $2, email = $3, hashed_password = $4, role = $5,
				is_active = $6, is_superuser = $7, is_verified = $8, updated_at = NOW()
			WHERE u.id = $1
			RETURNING `+userColumns,
			in.ID, in.FullName, in.Email, in.HashedPassword, in.Role, in.IsActive, in.IsSuperuser, in.IsVerified,
		))
		return err
	})

	if err != nil {
		if observability.IsUniqueViolation(err) {
			return user.User{}, user.ErrEmailTaken
		}
		return user.User{}, notFound(err, user.ErrNotFound)
	}

	u.ImageURL = in.ImageURL
	return u, nil
}

func (r *UsersRepo) Delete(ctx context.Context, id int64) error {
	var tag pgconn.CommandTag

	err := observe(r.prom, "users.delete", func() (err error) {
		tag, err = r.db.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
		return err
	})
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return user.ErrNotFound
	}
	return nil
}

// notFound maps pgx.ErrNoRows to the domain sentinel.
func notFound(err, sentinel error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return sentinel
	}
	return err
}
