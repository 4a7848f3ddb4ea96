package models

import (
	"github.com/google/uuid"
)

// Post is one feed item. JSON tags match the wire names used by the API,
// which are not consistently cased.
type Post struct {
	PostID          int         `json:"postid"`
	Title           string      `json:"title"`
	Body            string      `json:"body"`
	AuthorUserName  string      `json:"authorUserName"`
	AuthorUserID    uuid.UUID   `json:"authorUserId"`
	Likes           int         `json:"likes"`
	UserLiked       bool        `json:"userLiked"`
	NumComments     int         `json:"numComments"`
	CreatedDate     Date        `json:"createdDate"`
	PostImageURL    *string     `json:"postImageUrl,omitempty"`
	ProfileImageURL *string     `json:"profileImageUrl,omitempty"`
	Tags            []string    `json:"tags,omitempty"`
	LikeIDs         []uuid.UUID `json:"likeIds,omitempty"`
}
