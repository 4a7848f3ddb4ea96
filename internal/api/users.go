package api

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"techsocial/internal/models"
)

// SignIn authenticates with email and password. This is the only endpoint
// that does not require a stored credential; the returned user carries the
// secret used for everything else.
func (c *Client) SignIn(ctx context.Context, email, password string) (*models.User, error) {
	payload := map[string]interface{}{
		"email":    email,
		"password": password,
	}

	var user models.User
	if err := c.do(ctx, http.MethodPost, "/signIn", nil, payload, &user, false); err != nil {
		return nil, err
	}
	return &user, nil
}

// UserProfile fetches the viewer's profile.
func (c *Client) UserProfile(ctx context.Context) (*models.User, error) {
	var user models.User
	if err := c.get(ctx, "/userProfile", nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// UserPosts fetches one page of the viewer's own posts.
func (c *Client) UserPosts(ctx context.Context, page int) ([]models.Post, error) {
	query := url.Values{}
	query.Set("pageNumber", strconv.Itoa(page))

	var posts []models.Post
	if err := c.get(ctx, "/userPosts", query, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

// UpdateProfile replaces the viewer's editable profile fields.
func (c *Client) UpdateProfile(ctx context.Context, userName, bio, techInterests string) error {
	payload := map[string]interface{}{
		"userName":      userName,
		"bio":           bio,
		"techInterests": techInterests,
	}
	return c.post(ctx, "/updateProfile", payload, nil)
}
