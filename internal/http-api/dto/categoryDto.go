package dto

import "reviewhub/internal/http-api/models"

// CreateCategoryDTO used for POST /api/v1/categories
type CreateCategoryDTO struct {
	Name string `json:"name" binding:"required,max=256"`
	Slug string `json:"slug" binding:"required,max=50"`
}

type CategoryResponse struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}

func (d CreateCategoryDTO) ToModel() models.Category {
	return models.Category{Name: d.Name, Slug: d.Slug}
}

func FromCategoryModel(c models.Category) CategoryResponse {
	return CategoryResponse{Name: c.Name, Slug: c.Slug}
}
