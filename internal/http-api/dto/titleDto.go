package dto

import "reviewhub/internal/http-api/models"

// CreateTitleDTO used for POST /api/v1/titles. Category and genres are
// referenced by slug; unknown slugs are rejected.
type CreateTitleDTO struct {
	Name        string   `json:"name" binding:"required,max=256"`
	Year        *int     `json:"year,omitempty"`
	Description string   `json:"description" binding:"omitempty,max=256"`
	Category    *string  `json:"category,omitempty"`
	Genre       []string `json:"genre,omitempty"`
}

// UpdateTitleDTO used for PATCH /api/v1/titles/:title_id (partial updates
// allowed; a nil Genre leaves the genre set untouched)
type UpdateTitleDTO struct {
	Name        *string  `json:"name,omitempty" binding:"omitempty,max=256"`
	Year        *int     `json:"year,omitempty"`
	Description *string  `json:"description,omitempty" binding:"omitempty,max=256"`
	Category    *string  `json:"category,omitempty"`
	Genre       []string `json:"genre,omitempty"`
}

// TitleResponse carries the nested category, genre list and the computed
// rating; a title without reviews has no rating at all.
type TitleResponse struct {
	ID          int64             `json:"id"`
	Name        string            `json:"name"`
	Year        *int              `json:"year,omitempty"`
	Rating      *float64          `json:"rating,omitempty"`
	Description string            `json:"description"`
	Genre       []GenreResponse   `json:"genre"`
	Category    *CategoryResponse `json:"category,omitempty"`
}

func FromTitleModel(t models.Title, rating *float64) TitleResponse {
	resp := TitleResponse{
		ID:          t.ID,
		Name:        t.Name,
		Year:        t.Year,
		Rating:      rating,
		Description: t.Description,
		Genre:       make([]GenreResponse, 0, len(t.Genres)),
	}
	for _, g := range t.Genres {
		resp.Genre = append(resp.Genre, FromGenreModel(g))
	}
	if t.Category != nil {
		c := FromCategoryModel(*t.Category)
		resp.Category = &c
	}
	return resp
}
