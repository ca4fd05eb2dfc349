package repositories

import (
	"context"
	"fmt"
	"io"
	"sync"

	"hodolog/app/config"
	"hodolog/app/models"

	"github.com/dgraph-io/badger/v4"
	"github.com/sirupsen/logrus"
)

// BadgerPostRepository implements PostRepository using BadgerDB
type BadgerPostRepository struct {
	db     *badger.DB
	ownsDB bool
	// mutex serializes writers so concurrent saves never race on the sequence key.
	mutex sync.Mutex
}

// NewBadgerPostRepository creates a BadgerPostRepository on an already open DB.
// Close leaves the DB open.
func NewBadgerPostRepository(db *badger.DB) *BadgerPostRepository {
	return &BadgerPostRepository{db: db}
}

// OpenBadgerPostRepository opens the Badger database described by cfg.
func OpenBadgerPostRepository(cfg *config.Store, log logrus.FieldLogger) (*BadgerPostRepository, error) {
	opts := badger.DefaultOptions(cfg.Path)
	if cfg.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	}
	opts = opts.
		WithLogger(log.WithField("component", "badger")).
		WithNumVersionsToKeep(1)

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger at %q: %w", cfg.Path, err)
	}
	return &BadgerPostRepository{db: db, ownsDB: true}, nil
}

// Save stores a new post and assigns its ID
func (r *BadgerPostRepository) Save(ctx context.Context, post *models.Post) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	var id int64
	err := r.db.Update(func(txn *badger.Txn) error {
		var err error
		id, err = getNextID(txn, PostSeqKey)
		if err != nil {
			return err
		}

		stored := *post
		stored.ID = id
		data, err := marshalEntity(&stored)
		if err != nil {
			return err
		}
		return txn.Set(postKey(id), data)
	})
	if err != nil {
		return fmt.Errorf("failed to save post: %w", err)
	}

	post.ID = id
	return nil
}

// FindByID retrieves a post by ID
func (r *BadgerPostRepository) FindByID(ctx context.Context, id int64) (*models.Post, error) {
	var post models.Post

	err := r.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(postKey(id))
		if err == badger.ErrKeyNotFound {
			return ErrNotFound
		}
		if err != nil {
			return err
		}

		return item.Value(func(val []byte) error {
			return unmarshalEntity(val, &post)
		})
	})

	if err != nil {
		return nil, err
	}
	return &post, nil
}

// FindAll retrieves every post in ID order
func (r *BadgerPostRepository) FindAll(ctx context.Context) ([]*models.Post, error) {
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

// Update replaces an existing post
func (r *BadgerPostRepository) Update(ctx context.Context, post *models.Post) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	return r.db.Update(func(txn *badger.Txn) error {
		key := postKey(post.ID)

		// Verify post exists
		_, err := txn.Get(key)
		if err == badger.ErrKeyNotFound {
			return ErrNotFound
		}
		if err != nil {
			return err
		}

		data, err := marshalEntity(post)
		if err != nil {
			return err
		}
		return txn.Set(key, data)
	})
}

// Delete deletes a post by ID
func (r *BadgerPostRepository) Delete(ctx context.Context, id int64) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	return r.db.Update(func(txn *badger.Txn) error {
		key := postKey(id)
		_, err := txn.Get(key)
		if err == badger.ErrKeyNotFound {
			return ErrNotFound
		}
		if err != nil {
			return err
		}
		return txn.Delete(key)
	})
}

// DeleteAll removes every post. The ID sequence is kept so IDs are never reused.
func (r *BadgerPostRepository) DeleteAll(ctx context.Context) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	var keys [][]byte
	err := r.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()

		prefix := []byte(PostKeyPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			keys = append(keys, it.Item().KeyCopy(nil))
		}
		return nil
	})
	if err != nil {
		return err
	}

	wb := r.db.NewWriteBatch()
	defer wb.Cancel()
	for _, key := range keys {
		if err := wb.Delete(key); err != nil {
			return fmt.Errorf("failed to delete %s: %w", key, err)
		}
	}
	return wb.Flush()
}

// Count returns the number of stored posts
func (r *BadgerPostRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()

		prefix := []byte(PostKeyPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			count++
		}
		return nil
	})
	return count, err
}

// Backup writes a full backup of the database to w.
func (r *BadgerPostRepository) Backup(w io.Writer) (uint64, error) {
	return r.db.Backup(w, 0)
}

// Load restores a backup produced by Backup. Entries keep their backed up
// versions, so the target should be a fresh database.
func (r *BadgerPostRepository) Load(rd io.Reader) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	return r.db.Load(rd, 256)
}

// Close closes the database if this repository opened it.
func (r *BadgerPostRepository) Close() error {
	if !r.ownsDB {
		return nil
	}
	return r.db.Close()
}
