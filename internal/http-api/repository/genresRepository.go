package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"reviewhub/internal/http-api/models"
)

type GenreRepository interface {
	Create(ctx context.Context, genre *models.Genre) error
	DeleteBySlug(ctx context.Context, slug string) error
	FindBySlug(ctx context.Context, slug string) (*models.Genre, error)
	FindBySlugs(ctx context.Context, slugs []string) ([]models.Genre, error)
	List(ctx context.Context, search string, page, pageSize int) ([]models.Genre, int64, error)
}

type genreRepository struct {
	db *gorm.DB
}

func NewGenreRepository(db *gorm.DB) GenreRepository {
	return &genreRepository{db: db}
}

func (r *genreRepository) Create(ctx context.Context, genre *models.Genre) error {
	return translate(r.db.WithContext(ctx).Create(genre).Error, "genre")
}

// DeleteBySlug removes the genre; its title link rows cascade away.
func (r *genreRepository) DeleteBySlug(ctx context.Context, slug string) error {
	result := r.db.WithContext(ctx).Where("slug = ?", slug).Delete(&models.Genre{})
	if result.Error != nil {
		return fmt.Errorf("delete genre: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return translate(gorm.ErrRecordNotFound, "genre")
	}
	return nil
}

func (r *genreRepository) FindBySlug(ctx context.Context, slug string) (*models.Genre, error) {
	var genre models.Genre
	if err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&genre).Error; err != nil {
		return nil, translate(err, "genre")
	}
	return &genre, nil
}

// FindBySlugs returns the genres for the given slugs. Callers compare
// lengths to detect unknown slugs.
func (r *genreRepository) FindBySlugs(ctx context.Context, slugs []string) ([]models.Genre, error) {
	var genres []models.Genre
	if len(slugs) == 0 {
		return genres, nil
	}
	if err := r.db.WithContext(ctx).Where("slug IN ?", slugs).Find(&genres).Error; err != nil {
		return nil, fmt.Errorf("find genres by slugs: %w", err)
	}
	return genres, nil
}

func (r *genreRepository) List(ctx context.Context, search string, page, pageSize int) ([]models.Genre, int64, error) {
	var genres []models.Genre
	var total int64

	q := r.db.WithContext(ctx).Model(&models.Genre{})
	if search != "" {
		q = q.Where("name = ?", search)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	if err := q.Order("id").Limit(pageSize).Offset(offset).Find(&genres).Error; err != nil {
		return nil, 0, err
	}

	return genres, total, nil
}
