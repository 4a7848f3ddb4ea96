package api

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"techsocial/internal/models"
)

// ListPosts fetches one page of the feed. The server does not guarantee the
// page arrives sorted; ordering is the synchronizer's job.
func (c *Client) ListPosts(ctx context.Context, page int) ([]models.Post, error) {
	query := url.Values{}
	query.Set("pageNumber", strconv.Itoa(page))

	var posts []models.Post
	if err := c.get(ctx, "/posts", query, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

// CreatePost publishes a new post and returns the created record.
func (c *Client) CreatePost(ctx context.Context, title, body string) (*models.Post, error) {
	payload := map[string]interface{}{
		"post": map[string]interface{}{
			"title": title,
			"body":  body,
		},
	}

	var post models.Post
	if err := c.post(ctx, "/createPost", payload, &post); err != nil {
		return nil, err
	}
	return &post, nil
}

// EditPost replaces a post's title and body and returns the updated record.
func (c *Client) EditPost(ctx context.Context, postID int, newTitle, newBody string) (*models.Post, error) {
	payload := map[string]interface{}{
		"postid":   postID,
		"newTitle": newTitle,
		"newBody":  newBody,
	}

	var post models.Post
	if err := c.post(ctx, "/editPost", payload, &post); err != nil {
		return nil, err
	}
	return &post, nil
}

// DeletePost removes a post owned by the viewer.
func (c *Client) DeletePost(ctx context.Context, postID int) error {
	query := url.Values{}
	query.Set("postid", strconv.Itoa(postID))
	return c.do(ctx, http.MethodDelete, "/post", query, nil, nil, true)
}

// ToggleLike sets the viewer's like state for a post. The returned record is
// canonical: the server owns the like count and the userLiked flag.
func (c *Client) ToggleLike(ctx context.Context, postID int, userLiked bool) (*models.Post, error) {
	payload := map[string]interface{}{
		"postid":    postID,
		"userLiked": userLiked,
	}

	var post models.Post
	if err := c.post(ctx, "/updateLikes", payload, &post); err != nil {
		return nil, err
	}
	return &post, nil
}
