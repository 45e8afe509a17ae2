package blog

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/require"

	"github.com/aydjer/agrimarket/internal/testutil"
	"github.com/aydjer/agrimarket/tests/e2e"
)

func postData(title string, categoryID string, tagIDs ...string) string {
	category := "null"
	if categoryID != "" {
		category = fmt.Sprintf("%q", categoryID)
	}
	tags := ""
	for _, id := range tagIDs {
		if tags != "" {
			tags += ", "
		}
		tags += fmt.Sprintf("%q", id)
	}

	return fmt.Sprintf(`{
		"title": %q,
		"content": "Rotating wheat with legumes keeps the soil healthy.",
		"categoryId": %s,
		"tagIds": [%s]
	}`, title, category, tags)
}

func Test_Posts(t *testing.T) {
	t.Parallel()

	pg := testutil.StartPostgresContainer(t)
	t.Cleanup(pg.Terminate)

	e2e.ServeInTx(pg.Pool, t, func(tx pgx.Tx, srvURL string, s e2e.Services) {
		t.Run("create and read post with taxonomy", func(t *testing.T) {
			testutil.WithTx(tx, t, func(_ pgx.Tx) {
				author := newUser(t, s, "author@example.com")
				category := createNamed(t, srvURL, CategoriesURL, "Agronomy", author)
				tag := createNamed(t, srvURL, TagsURL, "soil", author)

				resp, body := request(t, http.MethodPost, srvURL+MyPostsURL, postData("Crop rotation basics", category.ID, tag.ID), author)
				require.Equalf(t, http.StatusCreated, resp.StatusCode, "not expected code. Body: %s", body)

				var created postItem
				decodeInto(t, body, &created)
				require.Equal(t, "Crop rotation basics", created.Title)
				require.NotNil(t, created.CategoryID)
				require.Equal(t, category.ID, *created.CategoryID)
				require.Len(t, created.Tags, 1)
				require.Equal(t, "soil", created.Tags[0].Name)

				// Posts are public
				resp, body = request(t, http.MethodGet, srvURL+PostsURL+"/"+created.ID, "")
				require.Equal(t, http.StatusOK, resp.StatusCode)
			})
		})

		t.Run("list filters by category and tag", func(t *testing.T) {
			testutil.WithTx(tx, t, func(_ pgx.Tx) {
				author := newUser(t, s, "author@example.com")
				category := createNamed(t, srvURL, CategoriesURL, "Agronomy", author)
				tag := createNamed(t, srvURL, TagsURL, "soil", author)

				resp, _ := request(t, http.MethodPost, srvURL+MyPostsURL, postData("Tagged and categorized", category.ID, tag.ID), author)
				require.Equal(t, http.StatusCreated, resp.StatusCode)
				resp, _ = request(t, http.MethodPost, srvURL+MyPostsURL, postData("Bare post", ""), author)
				require.Equal(t, http.StatusCreated, resp.StatusCode)

				assertCount := func(url string, want int) {
					t.Helper()
					resp, body := request(t, http.MethodGet, url, "")
					require.Equal(t, http.StatusOK, resp.StatusCode)
					var posts []postItem
					decodeInto(t, body, &posts)
					require.Len(t, posts, want)
				}

				assertCount(srvURL+PostsURL, 2)
				assertCount(srvURL+PostsURL+"?category="+category.ID, 1)
				assertCount(srvURL+PostsURL+"?tag="+tag.ID, 1)
			})
		})

		t.Run("update post and its tags", func(t *testing.T) {
			testutil.WithTx(tx, t, func(_ pgx.Tx) {
				author := newUser(t, s, "author@example.com")
				tag := createNamed(t, srvURL, TagsURL, "soil", author)

				_, body := request(t, http.MethodPost, srvURL+MyPostsURL, postData("Draft", "", tag.ID), author)
				var created postItem
				decodeInto(t, body, &created)

				// Patch without tagIds keeps the current tags
				resp, body := request(t, http.MethodPatch, srvURL+MyPostsURL+"/"+created.ID, `{"title": "Published"}`, author)
				require.Equalf(t, http.StatusOK, resp.StatusCode, "not expected code. Body: %s", body)
				var updated postItem
				decodeInto(t, body, &updated)
				require.Equal(t, "Published", updated.Title)
				require.Len(t, updated.Tags, 1)

				// An explicit empty list clears them
				resp, body = request(t, http.MethodPatch, srvURL+MyPostsURL+"/"+created.ID, `{"tagIds": []}`, author)
				require.Equal(t, http.StatusOK, resp.StatusCode)
				decodeInto(t, body, &updated)
				require.Empty(t, updated.Tags)
			})
		})

		t.Run("update or delete by non author fails", func(t *testing.T) {
			testutil.WithTx(tx, t, func(_ pgx.Tx) {
				author := newUser(t, s, "author@example.com")
				other := newUser(t, s, "other@example.com")

				_, body := request(t, http.MethodPost, srvURL+MyPostsURL, postData("Mine", ""), author)
				var created postItem
				decodeInto(t, body, &created)

				resp, body := request(t, http.MethodPatch, srvURL+MyPostsURL+"/"+created.ID, `{"title": "Stolen"}`, other)
				require.Equalf(t, http.StatusNotFound, resp.StatusCode, "not expected code. Body: %s", body)

				resp, body = request(t, http.MethodDelete, srvURL+MyPostsURL+"/"+created.ID, "", other)
				require.Equalf(t, http.StatusNotFound, resp.StatusCode, "not expected code. Body: %s", body)

				resp, _ = request(t, http.MethodDelete, srvURL+MyPostsURL+"/"+created.ID, "", author)
				require.Equal(t, http.StatusNoContent, resp.StatusCode)
			})
		})
	})
}
