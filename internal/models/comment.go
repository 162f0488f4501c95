package models

import "time"

type Comment struct {
	ID       int    `gorm:"primaryKey" json:"id"`
	UserID   int    `gorm:"not null" json:"user_id"`
	UserName string `gorm:"not null" json:"user_name"` // denormalized at creation
	ReviewID int    `gorm:"not null" json:"review_id"`
	Comment  string `gorm:"not null" json:"comment"`

	User       User       `gorm:"foreignKey:UserID" json:"-"`
	ReviewPost ReviewPost `gorm:"foreignKey:ReviewID" json:"-"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

type CreateCommentRequest struct {
	Comment string `json:"comment" binding:"required"`
}
