package postgres

import (
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aydjer/agrimarket/internal/apperrors"
	"github.com/aydjer/agrimarket/internal/models"
	"github.com/aydjer/agrimarket/internal/repository"
	"github.com/aydjer/agrimarket/internal/testutil"
)

func Test_PostRepo(t *testing.T) {
	t.Parallel()

	pg := testutil.StartPostgresContainer(t)
	t.Cleanup(pg.Terminate)

	type fixture struct {
		author   models.User
		category models.Category
		tags     []models.Tag
	}

	setup := func(t *testing.T, tx pgx.Tx) fixture {
		t.Helper()

		author, err := (&UserRepo{DB: tx}).Create(t.Context(), createUserParams(uuid.NewString()+"@example.com"))
		require.NoError(t, err)
		category, err := (&CategoryRepo{DB: tx}).Create(t.Context(), "Irrigation "+uuid.NewString())
		require.NoError(t, err)

		tagRepo := &TagRepo{DB: tx}
		first, err := tagRepo.Create(t.Context(), "drip "+uuid.NewString())
		require.NoError(t, err)
		second, err := tagRepo.Create(t.Context(), "soil "+uuid.NewString())
		require.NoError(t, err)

		return fixture{author: author, category: category, tags: []models.Tag{first, second}}
	}

	t.Run("create with tags", func(t *testing.T) {
		testutil.WithTx(pg.Pool, t, func(tx pgx.Tx) {
			r := PostRepo{DB: tx}
			f := setup(t, tx)

			post, err := r.Create(t.Context(), models.Post{
				ID:         uuid.New(),
				AuthorID:   f.author.ID,
				CategoryID: &f.category.ID,
				Title:      "Watering in dry season",
				Content:    "Some advice",
			}, []uuid.UUID{f.tags[0].ID, f.tags[1].ID})

			require.NoError(t, err)
			assert.Len(t, post.Tags, 2)
			require.NotNil(t, post.CategoryID)
			assert.Equal(t, f.category.ID, *post.CategoryID)
		})
	})

	t.Run("get not found", func(t *testing.T) {
		testutil.WithTx(pg.Pool, t, func(tx pgx.Tx) {
			r := PostRepo{DB: tx}

			_, err := r.Get(t.Context(), uuid.New())

			assert.ErrorIs(t, err, apperrors.ErrPostNotFound)
		})
	})

	t.Run("list filtered by category and tag", func(t *testing.T) {
		testutil.WithTx(pg.Pool, t, func(tx pgx.Tx) {
			r := PostRepo{DB: tx}
			f := setup(t, tx)

			tagged, err := r.Create(t.Context(), models.Post{
				ID:       uuid.New(),
				AuthorID: f.author.ID,
				Title:    "Tagged post",
				Content:  "body",
			}, []uuid.UUID{f.tags[0].ID})
			require.NoError(t, err)

			categorized, err := r.Create(t.Context(), models.Post{
				ID:         uuid.New(),
				AuthorID:   f.author.ID,
				CategoryID: &f.category.ID,
				Title:      "Categorized post",
				Content:    "body",
			}, nil)
			require.NoError(t, err)

			byTag, err := r.List(t.Context(), repository.PostsFilter{TagID: &f.tags[0].ID})
			require.NoError(t, err)
			require.Len(t, byTag, 1)
			assert.Equal(t, tagged.ID, byTag[0].ID)

			byCategory, err := r.List(t.Context(), repository.PostsFilter{CategoryID: &f.category.ID})
			require.NoError(t, err)
			require.Len(t, byCategory, 1)
			assert.Equal(t, categorized.ID, byCategory[0].ID)

			all, err := r.List(t.Context(), repository.PostsFilter{})
			require.NoError(t, err)
			assert.Len(t, all, 2)
		})
	})

	t.Run("update replaces tags only when given", func(t *testing.T) {
		testutil.WithTx(pg.Pool, t, func(tx pgx.Tx) {
			r := PostRepo{DB: tx}
			f := setup(t, tx)

			post, err := r.Create(t.Context(), models.Post{
				ID:       uuid.New(),
				AuthorID: f.author.ID,
				Title:    "Original",
				Content:  "body",
			}, []uuid.UUID{f.tags[0].ID})
			require.NoError(t, err)

			// Nil TagIDs leaves tags alone
			title := "Renamed"
			got, err := r.Update(t.Context(), post.ID, f.author.ID, repository.UpdatePostParams{Title: &title})
			require.NoError(t, err)
			assert.Equal(t, "Renamed", got.Title)
			assert.Len(t, got.Tags, 1)

			// Empty slice clears them
			got, err = r.Update(t.Context(), post.ID, f.author.ID, repository.UpdatePostParams{TagIDs: []uuid.UUID{}})
			require.NoError(t, err)
			assert.Len(t, got.Tags, 0)
		})
	})

	t.Run("update by non author fails", func(t *testing.T) {
		testutil.WithTx(pg.Pool, t, func(tx pgx.Tx) {
			r := PostRepo{DB: tx}
			f := setup(t, tx)

			post, err := r.Create(t.Context(), models.Post{
				ID:       uuid.New(),
				AuthorID: f.author.ID,
				Title:    "Original",
				Content:  "body",
			}, nil)
			require.NoError(t, err)

			title := "hijacked"
			_, err = r.Update(t.Context(), post.ID, uuid.New(), repository.UpdatePostParams{Title: &title})

			assert.ErrorIs(t, err, apperrors.ErrPostNotFound)
		})
	})

	t.Run("delete ok", func(t *testing.T) {
		testutil.WithTx(pg.Pool, t, func(tx pgx.Tx) {
			r := PostRepo{DB: tx}
			f := setup(t, tx)

			post, err := r.Create(t.Context(), models.Post{
				ID:       uuid.New(),
				AuthorID: f.author.ID,
				Title:    "To delete",
				Content:  "body",
			}, []uuid.UUID{f.tags[0].ID})
			require.NoError(t, err)

			err = r.Delete(t.Context(), post.ID, f.author.ID)
			require.NoError(t, err)

			_, err = r.Get(t.Context(), post.ID)
			assert.ErrorIs(t, err, apperrors.ErrPostNotFound)
		})
	})
}

func Test_TaxonomyRepos(t *testing.T) {
	t.Parallel()

	pg := testutil.StartPostgresContainer(t)
	t.Cleanup(pg.Terminate)

	t.Run("category duplicate name fails", func(t *testing.T) {
		testutil.WithTx(pg.Pool, t, func(tx pgx.Tx) {
			r := CategoryRepo{DB: tx}

			_, err := r.Create(t.Context(), "Machinery")
			require.NoError(t, err)

			_, err = r.Create(t.Context(), "Machinery")
			assert.ErrorIs(t, err, apperrors.ErrCategoryTaken)
		})
	})

	t.Run("tag duplicate name fails", func(t *testing.T) {
		testutil.WithTx(pg.Pool, t, func(tx pgx.Tx) {
			r := TagRepo{DB: tx}

			_, err := r.Create(t.Context(), "organic")
			require.NoError(t, err)

			_, err = r.Create(t.Context(), "organic")
			assert.ErrorIs(t, err, apperrors.ErrTagTaken)
		})
	})

	t.Run("list returns created entries", func(t *testing.T) {
		testutil.WithTx(pg.Pool, t, func(tx pgx.Tx) {
			categories := CategoryRepo{DB: tx}
			tags := TagRepo{DB: tx}

			_, err := categories.Create(t.Context(), "Livestock")
			require.NoError(t, err)
			_, err = tags.Create(t.Context(), "poultry")
			require.NoError(t, err)

			gotCategories, err := categories.List(t.Context())
			require.NoError(t, err)
			assert.Len(t, gotCategories, 1)

			gotTags, err := tags.List(t.Context())
			require.NoError(t, err)
			assert.Len(t, gotTags, 1)
		})
	})
}
