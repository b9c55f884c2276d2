package models

import "time"

type Title struct {
	ID          int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	Name        string    `json:"name" gorm:"size:256;not null"`
	Year        *int      `json:"year,omitempty"`
	Description string    `json:"description" gorm:"size:256"`
	CategoryID  *int64    `json:"-" gorm:"index"`
	CreatedAt   time.Time `json:"-" gorm:"autoCreateTime"`

	// associations; category survives title deletion, titles survive
	// category deletion with category set to null
	Category *Category `json:"category,omitempty" gorm:"foreignKey:CategoryID;constraint:OnDelete:SET NULL;"`
	Genres   []Genre   `json:"genre,omitempty" gorm:"many2many:title_genres;constraint:OnDelete:CASCADE;"`
}

func (Title) TableName() string {
	return "titles"
}
