package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/aydjer/agrimarket/internal/apperrors"
	"github.com/aydjer/agrimarket/internal/models"
	"github.com/aydjer/agrimarket/internal/repository"
)

type PostRepo struct {
	DB DBTX
}

const postColumns = "id, author_id, category_id, title, content, created_at, updated_at"

const createPost = `-- name: CreatePost
INSERT INTO posts (id, author_id, category_id, title, content)
VALUES ($1, $2, $3, $4, $5)
RETURNING ` + postColumns

const attachPostTags = `-- name: AttachPostTags
INSERT INTO post_tags (post_id, tag_id)
SELECT $1, unnest($2::uuid[])
`

func (r *PostRepo) Create(ctx context.Context, post models.Post, tagIDs []uuid.UUID) (models.Post, error) {
	rows, _ := r.DB.Query(ctx, createPost,
		post.ID, post.AuthorID, post.CategoryID, post.Title, post.Content)
	created, err := pgx.CollectOneRow(rows, rowToPost)
	if err != nil {
		return created, fmt.Errorf("db error: %w", err)
	}

	if len(tagIDs) > 0 {
		if _, err := r.DB.Exec(ctx, attachPostTags, created.ID, tagIDs); err != nil {
			return created, fmt.Errorf("db error: %w", err)
		}
	}

	created.Tags, err = r.postTags(ctx, created.ID)
	return created, err
}

const getPost = `-- name: GetPost
SELECT ` + postColumns + `
FROM posts
WHERE id = $1
`

func (r *PostRepo) Get(ctx context.Context, postID uuid.UUID) (models.Post, error) {
	rows, _ := r.DB.Query(ctx, getPost, postID)
	post, err := collectPost(rows)
	if err != nil {
		return post, err
	}

	post.Tags, err = r.postTags(ctx, post.ID)
	return post, err
}

const listPosts = `-- name: ListPosts
SELECT DISTINCT p.id, p.author_id, p.category_id, p.title, p.content, p.created_at, p.updated_at
FROM posts p
LEFT JOIN post_tags pt ON pt.post_id = p.id
WHERE ($1::uuid IS NULL OR p.category_id = $1)
  AND ($2::uuid IS NULL OR pt.tag_id = $2)
ORDER BY p.created_at DESC
`

func (r *PostRepo) List(ctx context.Context, filter repository.PostsFilter) ([]models.Post, error) {
	rows, _ := r.DB.Query(ctx, listPosts, filter.CategoryID, filter.TagID)
	posts, err := pgx.CollectRows(rows, rowToPost)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return posts, nil
}

const listPostsByAuthor = `-- name: ListPostsByAuthor
SELECT ` + postColumns + `
FROM posts
WHERE author_id = $1
ORDER BY created_at DESC
`

func (r *PostRepo) ListByAuthor(ctx context.Context, authorID uuid.UUID) ([]models.Post, error) {
	rows, _ := r.DB.Query(ctx, listPostsByAuthor, authorID)
	posts, err := pgx.CollectRows(rows, rowToPost)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return posts, nil
}

const updatePost = `-- name: UpdatePost
UPDATE posts
SET title       = COALESCE($3, title),
    content     = COALESCE($4, content),
    category_id = COALESCE($5, category_id),
    updated_at  = now()
WHERE id = $1 AND author_id = $2
RETURNING ` + postColumns

const clearPostTags = `-- name: ClearPostTags
DELETE FROM post_tags
WHERE post_id = $1
`

func (r *PostRepo) Update(ctx context.Context, postID, authorID uuid.UUID, arg repository.UpdatePostParams) (models.Post, error) {
	rows, _ := r.DB.Query(ctx, updatePost, postID, authorID, arg.Title, arg.Content, arg.CategoryID)
	post, err := collectPost(rows)
	if err != nil {
		return post, err
	}

	if arg.TagIDs != nil {
		if _, err := r.DB.Exec(ctx, clearPostTags, post.ID); err != nil {
			return post, fmt.Errorf("db error: %w", err)
		}
		if len(arg.TagIDs) > 0 {
			if _, err := r.DB.Exec(ctx, attachPostTags, post.ID, arg.TagIDs); err != nil {
				return post, fmt.Errorf("db error: %w", err)
			}
		}
	}

	post.Tags, err = r.postTags(ctx, post.ID)
	return post, err
}

const deletePost = `-- name: DeletePost
DELETE FROM posts
WHERE id = $1 AND author_id = $2
`

func (r *PostRepo) Delete(ctx context.Context, postID, authorID uuid.UUID) error {
	tag, err := r.DB.Exec(ctx, deletePost, postID, authorID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrPostNotFound
	}
	return nil
}

const getPostTags = `-- name: GetPostTags
SELECT t.id, t.name
FROM tags t
JOIN post_tags pt ON pt.tag_id = t.id
WHERE pt.post_id = $1
ORDER BY t.name
`

func (r *PostRepo) postTags(ctx context.Context, postID uuid.UUID) ([]models.Tag, error) {
	rows, _ := r.DB.Query(ctx, getPostTags, postID)
	tags, err := pgx.CollectRows(rows, rowToTag)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return tags, nil
}

func collectPost(rows pgx.Rows) (models.Post, error) {
	post, err := pgx.CollectOneRow(rows, rowToPost)

	switch {
	case err == nil:
		return post, nil
	case errors.Is(err, pgx.ErrNoRows):
		return post, apperrors.ErrPostNotFound
	default:
		return post, fmt.Errorf("db error: %w", err)
	}
}

func rowToPost(row pgx.CollectableRow) (models.Post, error) {
	var p models.Post
	err := row.Scan(&p.ID, &p.AuthorID, &p.CategoryID, &p.Title, &p.Content, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}
