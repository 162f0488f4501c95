package models

import "time"

type ReviewPost struct {
	ID       int    `gorm:"primaryKey" json:"id"`
	UserID   int    `gorm:"not null" json:"user_id"`
	UserName string `gorm:"not null" json:"user_name"` // denormalized at creation
	Title    string `gorm:"not null" json:"title"`
	Author   string `gorm:"not null" json:"author"`
	Genre    string `gorm:"not null" json:"genre"`
	Rating   int    `gorm:"not null" json:"rating"` // 1-5
	Review   string `gorm:"type:text;not null" json:"review"`
	CoverURL string `json:"cover_url,omitempty"`

	User      User      `gorm:"foreignKey:UserID" json:"-"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type CreateReviewRequest struct {
	Title  string `form:"title" binding:"required"`
	Author string `form:"author" binding:"required"`
	Genre  string `form:"genre" binding:"required"`
	Rating int    `form:"rating" binding:"required,min=1,max=5"`
	Review string `form:"review" binding:"required"`
}
