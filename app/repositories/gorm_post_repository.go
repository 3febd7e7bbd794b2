package repositories

import (
	"context"
	"errors"

	"contentservice/app/models"

	"gorm.io/gorm"
)

// GormPostRepository implements PostRepository on a SQL database via GORM.
type GormPostRepository struct {
	db *gorm.DB
}

// NewGormPostRepository wraps an open GORM handle. The posts table must
// already be migrated (OpenGorm does this).
func NewGormPostRepository(db *gorm.DB) (*GormPostRepository, error) {
	if db == nil {
		return nil, errors.New("nil gorm db")
	}
	return &GormPostRepository{db: db}, nil
}

func (r *GormPostRepository) Create(ctx context.Context, post *models.Post) error {
	return r.db.WithContext(ctx).Create(post).Error
}

func (r *GormPostRepository) GetByID(ctx context.Context, id int64) (*models.Post, error) {
	var post models.Post
	err := r.db.WithContext(ctx).First(&post, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &post, nil
}

func (r *GormPostRepository) List(ctx context.Context) ([]*models.Post, error) {
	posts := []*models.Post{}
	if err := r.db.WithContext(ctx).Order("id").Find(&posts).Error; err != nil {
		return nil, err
	}
	return posts, nil
}

func (r *GormPostRepository) Update(ctx context.Context, post *models.Post) error {
	res := r.db.WithContext(ctx).
		Model(&models.Post{}).
		Where("id = ?", post.ID).
		Updates(map[string]interface{}{
			"title":        post.Title,
			"content":      post.Content,
			"author":       post.Author,
			"category":     post.Category,
			"author_id":    post.AuthorID,
			"is_published": post.IsPublished,
			"updated_at":   post.UpdatedAt,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *GormPostRepository) Delete(ctx context.Context, id int64) (int64, error) {
	res := r.db.WithContext(ctx).Delete(&models.Post{}, id)
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}

func (r *GormPostRepository) IncrementLikes(ctx context.Context, id int64) (int64, error) {
	return r.increment(ctx, id, "likes_count")
}

func (r *GormPostRepository) IncrementViews(ctx context.Context, id int64) (int64, error) {
	return r.increment(ctx, id, "views")
}

// increment bumps column with a single UPDATE and reads the result back in
// the same transaction, so the row lock covers both statements.
func (r *GormPostRepository) increment(ctx context.Context, id int64, column string) (int64, error) {
	var value int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Post{}).
			Where("id = ?", id).
			UpdateColumn(column, gorm.Expr(column+" + ?", 1))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return tx.Model(&models.Post{}).Select(column).Where("id = ?", id).Scan(&value).Error
	})
	if err != nil {
		return 0, err
	}
	return value, nil
}

func (r *GormPostRepository) Close() error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
