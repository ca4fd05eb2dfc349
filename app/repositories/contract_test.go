package repositories

import (
	"context"
	"sync"
	"testing"

	"hodolog/app/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testPostRepository runs the behaviour every PostRepository must share.
// newRepo must return an empty repository.
func testPostRepository(t *testing.T, newRepo func(t *testing.T) PostRepository) {
	ctx := context.Background()

	t.Run("save and find post", func(t *testing.T) {
		repo := newRepo(t)
		post := &models.Post{Title: "제목입니다.", Content: "내용입니다."}

		require.NoError(t, repo.Save(ctx, post))
		assert.True(t, post.IsPersisted())

		found, err := repo.FindByID(ctx, post.ID)
		require.NoError(t, err)
		assert.Equal(t, post.ID, found.ID)
		assert.Equal(t, "제목입니다.", found.Title)
		assert.Equal(t, "내용입니다.", found.Content)

		count, err := repo.Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(1), count)
	})

	t.Run("save keeps long titles and empty content", func(t *testing.T) {
		repo := newRepo(t)
		post := &models.Post{Title: "123456789012345"}
		require.NoError(t, repo.Save(ctx, post))

		found, err := repo.FindByID(ctx, post.ID)
		require.NoError(t, err)
		assert.Equal(t, "123456789012345", found.Title)
		assert.Equal(t, "", found.Content)
	})

	t.Run("find missing post", func(t *testing.T) {
		repo := newRepo(t)
		_, err := repo.FindByID(ctx, 1)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("find all in id order", func(t *testing.T) {
		repo := newRepo(t)

		posts, err := repo.FindAll(ctx)
		require.NoError(t, err)
		assert.Empty(t, posts)

		var ids []int64
		for i := 0; i < 12; i++ {
			post := &models.Post{Title: "foo", Content: "bar"}
			require.NoError(t, repo.Save(ctx, post))
			ids = append(ids, post.ID)
		}

		posts, err = repo.FindAll(ctx)
		require.NoError(t, err)
		require.Len(t, posts, 12)
		for i, p := range posts {
			assert.Equal(t, ids[i], p.ID)
		}
	})

	t.Run("update post", func(t *testing.T) {
		repo := newRepo(t)
		post := &models.Post{Title: "foo", Content: "bar"}
		require.NoError(t, repo.Save(ctx, post))

		post.Title = "호돌걸"
		post.Content = "반포자이"
		require.NoError(t, repo.Update(ctx, post))

		found, err := repo.FindByID(ctx, post.ID)
		require.NoError(t, err)
		assert.Equal(t, "호돌걸", found.Title)
		assert.Equal(t, "반포자이", found.Content)
	})

	t.Run("update with unchanged values", func(t *testing.T) {
		repo := newRepo(t)
		post := &models.Post{Title: "foo", Content: "bar"}
		require.NoError(t, repo.Save(ctx, post))
		assert.NoError(t, repo.Update(ctx, post))
	})

	t.Run("update missing post", func(t *testing.T) {
		repo := newRepo(t)
		err := repo.Update(ctx, &models.Post{ID: 1, Title: "호돌걸"})
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("delete post", func(t *testing.T) {
		repo := newRepo(t)
		post := &models.Post{Title: "foo", Content: "bar"}
		require.NoError(t, repo.Save(ctx, post))

		require.NoError(t, repo.Delete(ctx, post.ID))

		_, err := repo.FindByID(ctx, post.ID)
		assert.ErrorIs(t, err, ErrNotFound)
		assert.ErrorIs(t, repo.Delete(ctx, post.ID), ErrNotFound)
	})

	t.Run("delete missing post", func(t *testing.T) {
		repo := newRepo(t)
		assert.ErrorIs(t, repo.Delete(ctx, 1), ErrNotFound)
	})

	t.Run("ids are never reused", func(t *testing.T) {
		repo := newRepo(t)
		first := &models.Post{Title: "one"}
		second := &models.Post{Title: "two"}
		require.NoError(t, repo.Save(ctx, first))
		require.NoError(t, repo.Save(ctx, second))

		require.NoError(t, repo.Delete(ctx, second.ID))
		third := &models.Post{Title: "three"}
		require.NoError(t, repo.Save(ctx, third))
		assert.Greater(t, third.ID, second.ID)

		require.NoError(t, repo.DeleteAll(ctx))
		count, err := repo.Count(ctx)
		require.NoError(t, err)
		assert.Zero(t, count)

		fourth := &models.Post{Title: "four"}
		require.NoError(t, repo.Save(ctx, fourth))
		assert.Greater(t, fourth.ID, third.ID)
	})

	t.Run("concurrent saves get distinct ids", func(t *testing.T) {
		repo := newRepo(t)

		const n = 20
		var wg sync.WaitGroup
		ids := make([]int64, n)
		errs := make([]error, n)
		for i := 0; i < n; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				post := &models.Post{Title: "concurrent"}
				errs[i] = repo.Save(ctx, post)
				ids[i] = post.ID
			}(i)
		}
		wg.Wait()

		seen := make(map[int64]bool)
		for i := 0; i < n; i++ {
			require.NoError(t, errs[i])
			assert.False(t, seen[ids[i]], "duplicate id %d", ids[i])
			seen[ids[i]] = true
		}

		count, err := repo.Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(n), count)
	})
}
