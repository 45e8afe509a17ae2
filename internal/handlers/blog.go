package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/aydjer/agrimarket/internal/apperrors"
	"github.com/aydjer/agrimarket/internal/handlers/render"
	"github.com/aydjer/agrimarket/internal/logger"
	"github.com/aydjer/agrimarket/internal/models"
	"github.com/aydjer/agrimarket/internal/repository"
	"github.com/aydjer/agrimarket/internal/service/blog"
)

type tagResponse struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

type postResponse struct {
	ID         uuid.UUID     `json:"id"`
	AuthorID   uuid.UUID     `json:"authorId"`
	CategoryID *uuid.UUID    `json:"categoryId"`
	Title      string        `json:"title"`
	Content    string        `json:"content"`
	Tags       []tagResponse `json:"tags"`
	CreatedAt  time.Time     `json:"createdAt"`
	UpdatedAt  time.Time     `json:"updatedAt"`
}

func toPostResponse(p models.Post) postResponse {
	tags := make([]tagResponse, 0, len(p.Tags))
	for _, t := range p.Tags {
		tags = append(tags, tagResponse{ID: t.ID, Name: t.Name})
	}
	return postResponse{
		ID:         p.ID,
		AuthorID:   p.AuthorID,
		CategoryID: p.CategoryID,
		Title:      p.Title,
		Content:    p.Content,
		Tags:       tags,
		CreatedAt:  p.CreatedAt,
		UpdatedAt:  p.UpdatedAt,
	}
}

func postsToResponse(posts []models.Post) []postResponse {
	res := make([]postResponse, 0, len(posts))
	for _, p := range posts {
		res = append(res, toPostResponse(p))
	}
	return res
}

func handleListPosts(blogService blogService, l logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var filter repository.PostsFilter

		if raw := r.URL.Query().Get("category"); raw != "" {
			id, err := uuid.Parse(raw)
			if err != nil {
				render.ServiceError(w, "Invalid category filter", http.StatusBadRequest)
				return
			}
			filter.CategoryID = &id
		}
		if raw := r.URL.Query().Get("tag"); raw != "" {
			id, err := uuid.Parse(raw)
			if err != nil {
				render.ServiceError(w, "Invalid tag filter", http.StatusBadRequest)
				return
			}
			filter.TagID = &id
		}

		posts, err := blogService.ListPosts(r.Context(), filter)
		if err != nil {
			l.Error("Failed to list posts", "error", err)
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		render.JSON(w, postsToResponse(posts))
	})
}

func handleGetPost(blogService blogService, l logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		postID, ok := pathID(w, r, "id")
		if !ok {
			return
		}

		post, err := blogService.GetPost(r.Context(), postID)

		switch {
		case err == nil:
			render.JSON(w, toPostResponse(post))
		case errors.Is(err, apperrors.ErrPostNotFound):
			render.Error(w, err)
		default:
			l.Error("Failed to get post", "error", err)
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
		}
	})
}

func handleListOwnPosts(blogService blogService, l logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		info, ok := requireAuth(w, r)
		if !ok {
			return
		}

		posts, err := blogService.ListOwnPosts(r.Context(), info.UserID)
		if err != nil {
			l.Error("Failed to list own posts", "error", err)
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		render.JSON(w, postsToResponse(posts))
	})
}

func handleCreatePost(blogService blogService, l logger.Logger) http.Handler {
	type request struct {
		Title      string      `json:"title" validate:"required,min=3,max=200"`
		Content    string      `json:"content" validate:"required"`
		CategoryID *uuid.UUID  `json:"categoryId"`
		TagIDs     []uuid.UUID `json:"tagIds"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		info, ok := requireAuth(w, r)
		if !ok {
			return
		}

		data, err := render.BindAndValidate[request](w, r)
		if err != nil {
			return
		}

		post, err := blogService.CreatePost(r.Context(), info.UserID, blog.PostParams{
			Title:      data.Title,
			Content:    data.Content,
			CategoryID: data.CategoryID,
			TagIDs:     data.TagIDs,
		})
		if err != nil {
			l.Error("Failed to create post", "error", err)
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		render.JSONWithStatus(w, toPostResponse(post), http.StatusCreated)
	})
}

func handleUpdatePost(blogService blogService, l logger.Logger) http.Handler {
	type request struct {
		Title      *string     `json:"title" validate:"omitempty,min=3,max=200"`
		Content    *string     `json:"content" validate:"omitempty,min=1"`
		CategoryID *uuid.UUID  `json:"categoryId"`
		TagIDs     []uuid.UUID `json:"tagIds"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		info, ok := requireAuth(w, r)
		if !ok {
			return
		}
		postID, ok := pathID(w, r, "id")
		if !ok {
			return
		}

		data, err := render.BindAndValidate[request](w, r)
		if err != nil {
			return
		}

		post, err := blogService.UpdatePost(r.Context(), postID, info.UserID, repository.UpdatePostParams{
			Title:      data.Title,
			Content:    data.Content,
			CategoryID: data.CategoryID,
			TagIDs:     data.TagIDs,
		})

		switch {
		case err == nil:
			render.JSON(w, toPostResponse(post))
		case errors.Is(err, apperrors.ErrPostNotFound):
			render.Error(w, err)
		default:
			l.Error("Failed to update post", "error", err)
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
		}
	})
}

func handleDeletePost(blogService blogService, l logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		info, ok := requireAuth(w, r)
		if !ok {
			return
		}
		postID, ok := pathID(w, r, "id")
		if !ok {
			return
		}

		err := blogService.DeletePost(r.Context(), postID, info.UserID)

		switch {
		case err == nil:
			w.WriteHeader(http.StatusNoContent)
		case errors.Is(err, apperrors.ErrPostNotFound):
			render.Error(w, err)
		default:
			l.Error("Failed to delete post", "error", err)
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
		}
	})
}

// Categories and tags

func handleCreateCategory(blogService blogService, l logger.Logger) http.Handler {
	type request struct {
		Name string `json:"name" validate:"required,min=2,max=100"`
	}
	type response struct {
		ID   uuid.UUID `json:"id"`
		Name string    `json:"name"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, err := render.BindAndValidate[request](w, r)
		if err != nil {
			return
		}

		category, err := blogService.CreateCategory(r.Context(), data.Name)

		switch {
		case err == nil:
			render.JSONWithStatus(w, response{ID: category.ID, Name: category.Name}, http.StatusCreated)
		case errors.Is(err, apperrors.ErrCategoryTaken):
			render.Error(w, err)
		default:
			l.Error("Failed to create category", "error", err)
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
		}
	})
}

func handleListCategories(blogService blogService, l logger.Logger) http.Handler {
	type response struct {
		ID   uuid.UUID `json:"id"`
		Name string    `json:"name"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		categories, err := blogService.ListCategories(r.Context())
		if err != nil {
			l.Error("Failed to list categories", "error", err)
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		res := make([]response, 0, len(categories))
		for _, c := range categories {
			res = append(res, response{ID: c.ID, Name: c.Name})
		}
		render.JSON(w, res)
	})
}

func handleCreateTag(blogService blogService, l logger.Logger) http.Handler {
	type request struct {
		Name string `json:"name" validate:"required,min=2,max=100"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, err := render.BindAndValidate[request](w, r)
		if err != nil {
			return
		}

		tag, err := blogService.CreateTag(r.Context(), data.Name)

		switch {
		case err == nil:
			render.JSONWithStatus(w, tagResponse{ID: tag.ID, Name: tag.Name}, http.StatusCreated)
		case errors.Is(err, apperrors.ErrTagTaken):
			render.Error(w, err)
		default:
			l.Error("Failed to create tag", "error", err)
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
		}
	})
}

func handleListTags(blogService blogService, l logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tags, err := blogService.ListTags(r.Context())
		if err != nil {
			l.Error("Failed to list tags", "error", err)
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		res := make([]tagResponse, 0, len(tags))
		for _, t := range tags {
			res = append(res, tagResponse{ID: t.ID, Name: t.Name})
		}
		render.JSON(w, res)
	})
}
