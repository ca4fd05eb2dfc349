package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"hodolog/app/config"
	"hodolog/app/models"
)

// SQLPostRepository implements PostRepository on a relational database.
type SQLPostRepository struct {
	db      *sql.DB
	dialect dialect
}

// NewSQLPostRepository wraps an open database and creates the posts table if needed.
func NewSQLPostRepository(ctx context.Context, db *sql.DB, driver string) (*SQLPostRepository, error) {
	d, ok := dialects[driver]
	if !ok {
		return nil, fmt.Errorf("unsupported sql driver %q", driver)
	}

	r := &SQLPostRepository{db: db, dialect: d}
	if err := r.migrate(ctx); err != nil {
		return nil, err
	}
	return r, nil
}

// OpenSQLPostRepository connects to the database described by cfg.
func OpenSQLPostRepository(ctx context.Context, cfg *config.Store) (*SQLPostRepository, error) {
	d, ok := dialects[cfg.Driver]
	if !ok {
		return nil, fmt.Errorf("unsupported sql driver %q", cfg.Driver)
	}
	if cfg.DSN == "" {
		return nil, fmt.Errorf("%s: connection dsn is empty", d.name)
	}

	db, err := sql.Open(d.driverName, cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to open connection: %w", d.name, err)
	}

	if d.singleConn {
		db.SetMaxOpenConns(1)
	} else {
		if cfg.MaxOpenConns > 0 {
			db.SetMaxOpenConns(cfg.MaxOpenConns)
		}
		if cfg.MaxIdleConns > 0 {
			db.SetMaxIdleConns(cfg.MaxIdleConns)
		}
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("%s: failed to ping database: %w", d.name, err)
	}

	r, err := NewSQLPostRepository(ctx, db, d.name)
	if err != nil {
		db.Close()
		return nil, err
	}
	return r, nil
}

func (r *SQLPostRepository) migrate(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, r.dialect.schema); err != nil {
		return fmt.Errorf("%s: failed to create posts table: %w", r.dialect.name, err)
	}
	return nil
}

// Save inserts a new post and assigns its ID
func (r *SQLPostRepository) Save(ctx context.Context, post *models.Post) error {
	const q = "INSERT INTO posts (title, content) VALUES (?, ?)"

	var id int64
	if r.dialect.returning {
		err := r.db.QueryRowContext(ctx, r.dialect.rebind(q+" RETURNING id"), post.Title, post.Content).Scan(&id)
		if err != nil {
			return fmt.Errorf("insert post: %w", err)
		}
	} else {
		res, err := r.db.ExecContext(ctx, q, post.Title, post.Content)
		if err != nil {
			return fmt.Errorf("insert post: %w", err)
		}
		if id, err = res.LastInsertId(); err != nil {
			return fmt.Errorf("insert post: %w", err)
		}
	}

	post.ID = id
	return nil
}

// FindByID retrieves a post by ID
func (r *SQLPostRepository) FindByID(ctx context.Context, id int64) (*models.Post, error) {
	const q = "SELECT id, title, content FROM posts WHERE id = ?"

	var p models.Post
	err := r.db.QueryRowContext(ctx, r.dialect.rebind(q), id).Scan(&p.ID, &p.Title, &p.Content)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query post %d: %w", id, err)
	}
	return &p, nil
}

// FindAll retrieves every post in ID order
func (r *SQLPostRepository) FindAll(ctx context.Context) ([]*models.Post, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT id, title, content FROM posts ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("query posts: %w", err)
	}
	defer rows.Close()

	posts := []*models.Post{}
	for rows.Next() {
		var p models.Post
		if err := rows.Scan(&p.ID, &p.Title, &p.Content); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		posts = append(posts, &p)
	}
	return posts, rows.Err()
}

// Update replaces an existing post inside a single transaction.
func (r *SQLPostRepository) Update(ctx context.Context, post *models.Post) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	var id int64
	err = tx.QueryRowContext(ctx, r.dialect.rebind("SELECT id FROM posts WHERE id = ?"), post.ID).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("query post %d: %w", post.ID, err)
	}

	_, err = tx.ExecContext(ctx, r.dialect.rebind("UPDATE posts SET title = ?, content = ? WHERE id = ?"),
		post.Title, post.Content, post.ID)
	if err != nil {
		return fmt.Errorf("update post %d: %w", post.ID, err)
	}
	return tx.Commit()
}

// Delete deletes a post by ID
func (r *SQLPostRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, r.dialect.rebind("DELETE FROM posts WHERE id = ?"), id)
	if err != nil {
		return fmt.Errorf("delete post %d: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete post %d: %w", id, err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteAll removes every post. Identity columns keep counting.
func (r *SQLPostRepository) DeleteAll(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM posts"); err != nil {
		return fmt.Errorf("delete posts: %w", err)
	}
	return nil
}

// Count returns the number of stored posts
func (r *SQLPostRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM posts").Scan(&n); err != nil {
		return 0, fmt.Errorf("count posts: %w", err)
	}
	return n, nil
}

// Close closes the connection pool.
func (r *SQLPostRepository) Close() error {
	return r.db.Close()
}
