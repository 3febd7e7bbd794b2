package repositories

import (
	"context"

	"contentservice/app/models"
)

// PostRepository defines the interface for post data access
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, id int64) (*models.Post, error)
	List(ctx context.Context) ([]*models.Post, error)
	// Update persists the editable fields of an existing post. Counters,
	// id and created_at are left as stored.
	Update(ctx context.Context, post *models.Post) error
	// Delete reports how many rows were removed (0 or 1).
	Delete(ctx context.Context, id int64) (int64, error)
	IncrementLikes(ctx context.Context, id int64) (int64, error)
	IncrementViews(ctx context.Context, id int64) (int64, error)
	Close() error
}
