package service

import (
	"context"

	"reviewhub/internal/http-api/models"
	"reviewhub/internal/http-api/repository"
)

type GenreService interface {
	Create(ctx context.Context, genre *models.Genre) (*models.Genre, error)
	List(ctx context.Context, search string, page, pageSize int) ([]models.Genre, int64, error)
	Delete(ctx context.Context, slug string) error
}

type genreService struct {
	repo repository.GenreRepository
}

func NewGenreService(repo repository.GenreRepository) GenreService {
	return &genreService{repo: repo}
}

func (s *genreService) Create(ctx context.Context, genre *models.Genre) (*models.Genre, error) {
	if !slugRe.MatchString(genre.Slug) {
		return nil, ErrInvalidSlug
	}
	if err := s.repo.Create(ctx, genre); err != nil {
		return nil, err
	}
	return genre, nil
}

func (s *genreService) List(ctx context.Context, search string, page, pageSize int) ([]models.Genre, int64, error) {
	return s.repo.List(ctx, search, page, pageSize)
}

func (s *genreService) Delete(ctx context.Context, slug string) error {
	return s.repo.DeleteBySlug(ctx, slug)
}
