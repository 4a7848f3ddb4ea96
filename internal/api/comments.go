package api

import (
	"context"
	"net/url"
	"strconv"

	"techsocial/internal/models"
)

// ListComments fetches one page of comments for a post.
func (c *Client) ListComments(ctx context.Context, postID, page int) ([]models.Comment, error) {
	query := url.Values{}
	query.Set("postid", strconv.Itoa(postID))
	query.Set("pageNumber", strconv.Itoa(page))

	var comments []models.Comment
	if err := c.get(ctx, "/comments", query, &comments); err != nil {
		return nil, err
	}
	return comments, nil
}

// CreateComment posts a comment. The server may answer 200 with no body, in
// which case the returned comment is nil.
func (c *Client) CreateComment(ctx context.Context, postID int, body string) (*models.Comment, error) {
	payload := map[string]interface{}{
		"commentBody": body,
		"postid":      postID,
	}

	comment := &models.Comment{}
	if err := c.post(ctx, "/createComment", payload, comment); err != nil {
		return nil, err
	}
	if comment.CommentID == 0 && comment.Body == "" {
		return nil, nil
	}
	return comment, nil
}
