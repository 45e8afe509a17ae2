package blog

import (
	"context"

	"github.com/google/uuid"

	"github.com/aydjer/agrimarket/internal/models"
	"github.com/aydjer/agrimarket/internal/repository"
)

// Service covers blog posts, categories and tags.
type Service struct {
	storage repository.Storage
}

func NewService(storage repository.Storage) *Service {
	return &Service{storage: storage}
}

type PostParams struct {
	Title      string
	Content    string
	CategoryID *uuid.UUID
	TagIDs     []uuid.UUID
}

func (s *Service) CreatePost(ctx context.Context, authorID uuid.UUID, arg PostParams) (models.Post, error) {
	post := models.Post{
		ID:         uuid.New(),
		AuthorID:   authorID,
		CategoryID: arg.CategoryID,
		Title:      arg.Title,
		Content:    arg.Content,
	}

	return s.storage.Post().Create(ctx, post, arg.TagIDs)
}

func (s *Service) GetPost(ctx context.Context, postID uuid.UUID) (models.Post, error) {
	return s.storage.Post().Get(ctx, postID)
}

func (s *Service) ListPosts(ctx context.Context, filter repository.PostsFilter) ([]models.Post, error) {
	return s.storage.Post().List(ctx, filter)
}

func (s *Service) ListOwnPosts(ctx context.Context, authorID uuid.UUID) ([]models.Post, error) {
	return s.storage.Post().ListByAuthor(ctx, authorID)
}

func (s *Service) UpdatePost(ctx context.Context, postID, authorID uuid.UUID, arg repository.UpdatePostParams) (models.Post, error) {
	return s.storage.Post().Update(ctx, postID, authorID, arg)
}

func (s *Service) DeletePost(ctx context.Context, postID, authorID uuid.UUID) error {
	return s.storage.Post().Delete(ctx, postID, authorID)
}

// Category and tag names are unique; duplicates surface as conflicts and
// deliberately reveal that the name exists.
func (s *Service) CreateCategory(ctx context.Context, name string) (models.Category, error) {
	return s.storage.Category().Create(ctx, name)
}

func (s *Service) ListCategories(ctx context.Context) ([]models.Category, error) {
	return s.storage.Category().List(ctx)
}

func (s *Service) CreateTag(ctx context.Context, name string) (models.Tag, error) {
	return s.storage.Tag().Create(ctx, name)
}

func (s *Service) ListTags(ctx context.Context) ([]models.Tag, error) {
	return s.storage.Tag().List(ctx)
}
