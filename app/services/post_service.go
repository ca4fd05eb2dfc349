package services

import (
	"context"
	"errors"
	"fmt"

	"hodolog/app/models"
	"hodolog/app/repositories"

	"github.com/sirupsen/logrus"
)

// PostService handles business logic for blog posts
type PostService struct {
	repo      repositories.PostRepository
	validator *models.Validator
	log       logrus.FieldLogger
}

// NewPostService creates a new PostService
func NewPostService(repo repositories.PostRepository, v *models.Validator, log logrus.FieldLogger) *PostService {
	return &PostService{
		repo:      repo,
		validator: v,
		log:       log.WithField("component", "post_service"),
	}
}

// Write validates and stores a new post
func (s *PostService) Write(ctx context.Context, req models.PostCreate) error {
	if err := s.validator.ValidateCreate(req); err != nil {
		return err
	}

	post := models.NewPost(req)
	if err := s.repo.Save(ctx, post); err != nil {
		return fmt.Errorf("failed to save post: %w", err)
	}

	s.log.WithField("post_id", post.ID).Debug("post written")
	return nil
}

// Get returns the projection of a single post
func (s *PostService) Get(ctx context.Context, id int64) (*models.PostResponse, error) {
	post, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, s.translate(err, fmt.Sprintf("find post %d", id))
	}
	return models.NewPostResponse(post), nil
}

// GetList returns the projections of all posts in id order
func (s *PostService) GetList(ctx context.Context) ([]*models.PostResponse, error) {
	posts, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}

	responses := make([]*models.PostResponse, 0, len(posts))
	for _, post := range posts {
		responses = append(responses, models.NewPostResponse(post))
	}
	return responses, nil
}

// Edit replaces the title and content of an existing post
func (s *PostService) Edit(ctx context.Context, id int64, req models.PostEdit) error {
	if err := s.validator.ValidateEdit(req); err != nil {
		return err
	}

	post := &models.Post{ID: id}
	post.ApplyEdit(req)
	if err := s.repo.Update(ctx, post); err != nil {
		return s.translate(err, fmt.Sprintf("update post %d", id))
	}

	s.log.WithField("post_id", id).Debug("post edited")
	return nil
}

// Delete removes a post
func (s *PostService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return s.translate(err, fmt.Sprintf("delete post %d", id))
	}

	s.log.WithField("post_id", id).Debug("post deleted")
	return nil
}

// Count returns the number of stored posts
func (s *PostService) Count(ctx context.Context) (int64, error) {
	n, err := s.repo.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to count posts: %w", err)
	}
	return n, nil
}

// translate maps a store miss to ErrPostNotFound and wraps anything else.
func (s *PostService) translate(err error, op string) error {
	if errors.Is(err, repositories.ErrNotFound) {
		return ErrPostNotFound
	}
	return fmt.Errorf("failed to %s: %w", op, err)
}
