package repositories

import (
	"context"
	"errors"
	"fmt"

	"contentservice/app/models"

	"github.com/dgraph-io/badger/v4"
)

// BadgerPostRepository implements PostRepository using BadgerDB
type BadgerPostRepository struct {
	db *badger.DB
}

// NewBadgerPostRepository creates a new BadgerPostRepository
func NewBadgerPostRepository(db *badger.DB) *BadgerPostRepository {
	return &BadgerPostRepository{db: db}
}

// update runs fn in a read-write transaction, retrying when badger rejects
// the commit because a concurrent transaction wrote a key fn read.
func (r *BadgerPostRepository) update(ctx context.Context, fn func(txn *badger.Txn) error) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		err := r.db.Update(fn)
		if errors.Is(err, badger.ErrConflict) {
			continue
		}
		return err
	}
}

func getPost(txn *badger.Txn, id int64) (*models.Post, error) {
	item, err := txn.Get(postKey(id))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	var post models.Post
	if err := item.Value(func(val []byte) error {
		return unmarshalEntity(val, &post)
	}); err != nil {
		return nil, err
	}
	return &post, nil
}

func putPost(txn *badger.Txn, post *models.Post) error {
	data, err := marshalEntity(post)
	if err != nil {
		return err
	}
	return txn.Set(postKey(post.ID), data)
}

// Create creates a new post
func (r *BadgerPostRepository) Create(ctx context.Context, post *models.Post) error {
	return r.update(ctx, func(txn *badger.Txn) error {
		id, err := getNextID(txn, PostSeqKey)
		if err != nil {
			return err
		}
		post.ID = id
		return putPost(txn, post)
	})
}

// GetByID retrieves a post by ID
func (r *BadgerPostRepository) GetByID(ctx context.Context, id int64) (*models.Post, error) {
	var post *models.Post
	err := r.db.View(func(txn *badger.Txn) error {
		var err error
		post, err = getPost(txn, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return post, nil
}

// List retrieves every post in key order
func (r *BadgerPostRepository) List(ctx context.Context) ([]*models.Post, error) {
	posts := []*models.Post{}
	err := r.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		prefix := []byte(PostKeyPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var post models.Post
			err := it.Item().Value(func(val []byte) error {
				return unmarshalEntity(val, &post)
			})
			if err != nil {
				return fmt.Errorf("failed to unmarshal post: %w", err)
			}
			posts = append(posts, &post)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return posts, nil
}

// Update updates an existing post
func (r *BadgerPostRepository) Update(ctx context.Context, post *models.Post) error {
	return r.update(ctx, func(txn *badger.Txn) error {
		stored, err := getPost(txn, post.ID)
		if err != nil {
			return err
		}
		stored.CopyEditable(post)
		return putPost(txn, stored)
	})
}

// Delete deletes a post by ID
func (r *BadgerPostRepository) Delete(ctx context.Context, id int64) (int64, error) {
	var deleted int64
	err := r.update(ctx, func(txn *badger.Txn) error {
		deleted = 0
		key := postKey(id)
		_, err := txn.Get(key)
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		if err := txn.Delete(key); err != nil {
			return err
		}
		deleted = 1
		return nil
	})
	if err != nil {
		return 0, err
	}
	return deleted, nil
}

// IncrementLikes adds one like and returns the new count
func (r *BadgerPostRepository) IncrementLikes(ctx context.Context, id int64) (int64, error) {
	return r.increment(ctx, id, func(p *models.Post) *int64 { return &p.LikesCount })
}

// IncrementViews adds one view and returns the new count
func (r *BadgerPostRepository) IncrementViews(ctx context.Context, id int64) (int64, error) {
	return r.increment(ctx, id, func(p *models.Post) *int64 { return &p.Views })
}

func (r *BadgerPostRepository) increment(ctx context.Context, id int64, counter func(*models.Post) *int64) (int64, error) {
	var value int64
	err := r.update(ctx, func(txn *badger.Txn) error {
		post, err := getPost(txn, id)
		if err != nil {
			return err
		}
		c := counter(post)
		*c++
		value = *c
		return putPost(txn, post)
	})
	if err != nil {
		return 0, err
	}
	return value, nil
}

// Close closes the underlying database
func (r *BadgerPostRepository) Close() error {
	return r.db.Close()
}
