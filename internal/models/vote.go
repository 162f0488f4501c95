package models

import "time"

const (
	VoteUp   = "upvote"
	VoteDown = "downvote"
)

// Vote tracks a single user's vote on a single review. The composite
// unique index is what keeps concurrent casts from creating duplicates.
type Vote struct {
	ID       int    `gorm:"primaryKey" json:"id"`
	UserID   int    `gorm:"not null;uniqueIndex:uniq_user_review_vote" json:"user_id"`
	ReviewID int    `gorm:"not null;uniqueIndex:uniq_user_review_vote" json:"review_id"`
	VoteType string `gorm:"not null" json:"vote_type"` // "upvote" or "downvote"

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type CastVoteRequest struct {
	VoteType string `json:"voteType" binding:"required,oneof=upvote downvote"`
}
