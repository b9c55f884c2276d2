package service

import (
	"context"
	"regexp"

	"reviewhub/internal/http-api/apierr"
	"reviewhub/internal/http-api/models"
	"reviewhub/internal/http-api/repository"
)

var slugRe = regexp.MustCompile(`^[-a-zA-Z0-9_]+$`)

var ErrInvalidSlug = apierr.New(apierr.Validation, "slug may only contain letters, digits, hyphens and underscores")

type CategoryService interface {
	Create(ctx context.Context, category *models.Category) (*models.Category, error)
	List(ctx context.Context, search string, page, pageSize int) ([]models.Category, int64, error)
	Delete(ctx context.Context, slug string) error
}

type categoryService struct {
	repo repository.CategoryRepository
}

func NewCategoryService(repo repository.CategoryRepository) CategoryService {
	return &categoryService{repo: repo}
}

func (s *categoryService) Create(ctx context.Context, category *models.Category) (*models.Category, error) {
	if !slugRe.MatchString(category.Slug) {
		return nil, ErrInvalidSlug
	}
	if err := s.repo.Create(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

func (s *categoryService) List(ctx context.Context, search string, page, pageSize int) ([]models.Category, int64, error) {
	return s.repo.List(ctx, search, page, pageSize)
}

func (s *categoryService) Delete(ctx context.Context, slug string) error {
	return s.repo.DeleteBySlug(ctx, slug)
}
