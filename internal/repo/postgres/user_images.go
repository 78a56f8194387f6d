package postgres

import (
	"context"

	"github.com/nomzodai/nomzod-api/internal/domain/user"
	"github.com/nomzodai/nomzod-api/internal/observability"
)

type UserImagesRepo struct {
	db   DBTX
	prom *observability.Prom
}

func (r *UserImagesRepo) Upsert(ctx context.Context, userID int64, imageURL string) (img user.Image, err error) {
	err = observe(r.prom, "user_images.upsert", func() error {
		return r.db.QueryRow(ctx, `
			INSERT INTO user_image (user_id, image_url)
			VALUES ($1, $2)
			ON CONFLICT (user_id)
			DO UPDATE SET image_url = EXCLUDED.image_url, updated_at = NOW()
			RETURNING id, user_id, image_url, created_at, updated_at
		`, userID, imageURL).Scan(&img.ID, &img.UserID, &img.ImageURL, &img.CreatedAt, &img.UpdatedAt)
	})

	return img, err
}

func (r *UserImagesRepo) GetByUserID(ctx context.Context, userID int64) (img user.Image, err error) {
	err = observe(r.prom, "user_images.get_by_user", func() error {
		return r.db.QueryRow(ctx, `
			SELECT id, user_id, image_url, created_at, updated_at
			FROM user_image
			WHERE user_id = $1
		`, userID).Scan(&img.ID, &img.UserID, &img.ImageURL, &img.CreatedAt, &img.UpdatedAt)
	})

	return img, notFound(err, user.ErrImageNotFound)
}
