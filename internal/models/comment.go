package models

import (
	"github.com/google/uuid"
)

// Comment is attached to exactly one post. Comments are fetched per post on
// demand and never cached across views.
type Comment struct {
	CommentID   int       `json:"commentId"`
	Body        string    `json:"body"`
	UserName    string    `json:"userName"`
	UserID      uuid.UUID `json:"userId"`
	CreatedDate Date      `json:"createdDate"`
}
