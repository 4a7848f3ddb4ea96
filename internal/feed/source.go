package feed

import (
	"context"

	"techsocial/internal/models"
)

// PostSource is the remote, paginated, mutable post collection the
// synchronizer mirrors. api.Client satisfies it; tests inject fakes.
type PostSource interface {
	ListPosts(ctx context.Context, page int) ([]models.Post, error)
	ToggleLike(ctx context.Context, postID int, userLiked bool) (*models.Post, error)
}
