package controllers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"hodolog/app/docs"
	"hodolog/app/models"
	"hodolog/app/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// snippetDir is HODOLOG_SNIPPETS_DIR when set so the snippets can be published.
func snippetDir(t *testing.T) string {
	if dir := os.Getenv("HODOLOG_SNIPPETS_DIR"); dir != "" {
		return dir
	}
	return t.TempDir()
}

func TestPostControllerDocs(t *testing.T) {
	ctx := context.Background()

	t.Run("post-inquiry", func(t *testing.T) {
		repo := repositories.NewMemoryPostRepository()
		router, _ := setupRouter(t, repo)
		require.NoError(t, repo.Save(ctx, &models.Post{Title: "호돌맨 제목", Content: "반포자이"}))

		req := httptest.NewRequest(http.MethodGet, "/posts/1", nil)
		req.Header.Set("Accept", "application/json")
		ex, err := docs.Perform(router, req)
		require.NoError(t, err)
		require.Equal(t, http.StatusOK, ex.Response.Code)

		dir := snippetDir(t)
		err = docs.NewRecorder(dir).Document("post-inquiry", ex, docs.Snippet{
			PathTemplate:   "/posts/{postId}",
			PathParameters: []docs.Parameter{{Name: "postId", Description: "게시글 ID"}},
			ResponseFields: []docs.Field{
				{Path: "id", Description: "게시글 ID"},
				{Path: "title", Description: "제목"},
				{Path: "content", Description: "내용"},
			},
		})
		require.NoError(t, err)
		assert.FileExists(t, filepath.Join(dir, "post-inquiry", "response-fields.adoc"))
	})

	t.Run("post-create", func(t *testing.T) {
		router, _ := setupRouter(t, repositories.NewMemoryPostRepository())

		req := httptest.NewRequest(http.MethodPost, "/posts", strings.NewReader(`{"title":"호돌맨","content":"반포자이"}`))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Accept", "application/json")
		ex, err := docs.Perform(router, req)
		require.NoError(t, err)
		require.Equal(t, http.StatusOK, ex.Response.Code)

		dir := snippetDir(t)
		err = docs.NewRecorder(dir).Document("post-create", ex, docs.Snippet{
			RequestFields: []docs.Field{
				{Path: "title", Description: "제목", Constraint: "좋은 제목 입력해주세요."},
				{Path: "content", Description: "내용", Optional: true},
			},
		})
		require.NoError(t, err)
		assert.FileExists(t, filepath.Join(dir, "post-create", "request-fields.adoc"))
	})
}
