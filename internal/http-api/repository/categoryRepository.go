package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"reviewhub/internal/http-api/models"
)

type CategoryRepository interface {
	Create(ctx context.Context, category *models.Category) error
	DeleteBySlug(ctx context.Context, slug string) error
	FindBySlug(ctx context.Context, slug string) (*models.Category, error)
	List(ctx context.Context, search string, page, pageSize int) ([]models.Category, int64, error)
}

type categoryRepository struct {
	db *gorm.DB
}

func NewCategoryRepository(db *gorm.DB) CategoryRepository {
	return &categoryRepository{db: db}
}

func (r *categoryRepository) Create(ctx context.Context, category *models.Category) error {
	return translate(r.db.WithContext(ctx).Create(category).Error, "category")
}

// DeleteBySlug removes the category; titles referencing it keep existing
// with a null category (SET NULL on the foreign key).
func (r *categoryRepository) DeleteBySlug(ctx context.Context, slug string) error {
	result := r.db.WithContext(ctx).Where("slug = ?", slug).Delete(&models.Category{})
	if result.Error != nil {
		return fmt.Errorf("delete category: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return translate(gorm.ErrRecordNotFound, "category")
	}
	return nil
}

func (r *categoryRepository) FindBySlug(ctx context.Context, slug string) (*models.Category, error) {
	var category models.Category
	if err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&category).Error; err != nil {
		return nil, translate(err, "category")
	}
	return &category, nil
}

func (r *categoryRepository) List(ctx context.Context, search string, page, pageSize int) ([]models.Category, int64, error) {
	var categories []models.Category
	var total int64

	q := r.db.WithContext(ctx).Model(&models.Category{})
	if search != "" {
		q = q.Where("name = ?", search)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	if err := q.Order("id").Limit(pageSize).Offset(offset).Find(&categories).Error; err != nil {
		return nil, 0, err
	}

	return categories, total, nil
}
