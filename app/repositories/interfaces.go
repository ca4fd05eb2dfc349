package repositories

import (
	"context"
	"io"

	"hodolog/app/models"
)

// PostRepository defines the interface for post data access
type PostRepository interface {
	Save(ctx context.Context, post *models.Post) error
	FindByID(ctx context.Context, id int64) (*models.Post, error)
	FindAll(ctx context.Context) ([]*models.Post, error)
	Update(ctx context.Context, post *models.Post) error
	Delete(ctx context.Context, id int64) error
	DeleteAll(ctx context.Context) error
	Count(ctx context.Context) (int64, error)
}

// Store is a PostRepository that owns an underlying connection or database.
type Store interface {
	PostRepository
	io.Closer
}

// Backuper is implemented by stores that can dump and reload their contents.
type Backuper interface {
	Backup(w io.Writer) (uint64, error)
	Load(r io.Reader) error
}
