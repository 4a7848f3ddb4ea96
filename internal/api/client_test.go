package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"techsocial/internal/utils"
)

type staticSecret string

func (s staticSecret) Secret() (string, bool) {
	return string(s), s != ""
}

func newTestClient(serverURL string, secret string) *Client {
	return NewClient(serverURL, 5*time.Second, staticSecret(secret), utils.NewMetricsCollector())
}

func TestListPostsDecodesAndAuthenticates(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/posts", r.URL.Path)
		assert.Equal(t, "2", r.URL.Query().Get("pageNumber"))
		assert.Equal(t, "sekret", r.URL.Query().Get("userSecret"))
		assert.Equal(t, "Bearer sekret", r.Header.Get("Authorization"))

		w.Write([]byte(`[
			{"postid": 7, "title": "t", "body": "b", "authorUserName": "ann",
			 "authorUserId": "0b78b0f1-67ff-4f7c-a6b7-2a38934a780f",
			 "likes": 3, "userLiked": true, "numComments": 1,
			 "createdDate": "2024-03-01", "tags": ["go"]}
		]`))
	}))
	defer server.Close()

	client := newTestClient(server.URL, "sekret")
	posts, err := client.ListPosts(context.Background(), 2)
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, 7, posts[0].PostID)
	assert.Equal(t, "ann", posts[0].AuthorUserName)
	assert.True(t, posts[0].UserLiked)
	assert.Equal(t, "2024-03-01", posts[0].CreatedDate.String())
}

func TestStatusCodeMapping(t *testing.T) {
	cases := []struct {
		status   int
		wantCode string
	}{
		{http.StatusBadRequest, utils.ErrUnauthorized},
		{http.StatusUnauthorized, utils.ErrUnauthorized},
		{http.StatusForbidden, utils.ErrUnauthorized},
		{http.StatusInternalServerError, utils.ErrServerError},
		{http.StatusBadGateway, utils.ErrServerError},
	}

	for _, tc := range cases {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(tc.status)
		}))

		client := newTestClient(server.URL, "sekret")
		_, err := client.ListPosts(context.Background(), 0)
		require.Error(t, err, "status %d", tc.status)
		assert.True(t, utils.IsErrorCode(err, tc.wantCode), "status %d should map to %s, got %v", tc.status, tc.wantCode, err)

		if tc.wantCode == utils.ErrServerError {
			var appErr *utils.AppError
			require.True(t, errors.As(err, &appErr))
			assert.Equal(t, tc.status, appErr.StatusCode)
		}
		server.Close()
	}
}

func TestUnparseableDateIsDecodingError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"postid": 1, "createdDate": "03/01/2024"}]`))
	}))
	defer server.Close()

	client := newTestClient(server.URL, "sekret")
	_, err := client.ListPosts(context.Background(), 0)
	assert.True(t, utils.IsErrorCode(err, utils.ErrDecoding))
}

func TestMissingSecretFailsWithoutRequest(t *testing.T) {
	var hits int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
	}))
	defer server.Close()

	client := newTestClient(server.URL, "")
	_, err := client.ListPosts(context.Background(), 0)
	assert.True(t, utils.IsErrorCode(err, utils.ErrUnauthorized))
	assert.Equal(t, int32(0), atomic.LoadInt32(&hits))
}

func TestToggleLikePayload(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/updateLikes", r.URL.Path)

		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, float64(7), body["postid"])
		assert.Equal(t, true, body["userLiked"])
		assert.Equal(t, "sekret", body["userSecret"])

		w.Write([]byte(`{"postid": 7, "likes": 11, "userLiked": true, "createdDate": "2024-03-01"}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL, "sekret")
	post, err := client.ToggleLike(context.Background(), 7, true)
	require.NoError(t, err)
	assert.Equal(t, 11, post.Likes)
	assert.True(t, post.UserLiked)
}

func TestCreateCommentAcceptsEmptyResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := newTestClient(server.URL, "sekret")
	comment, err := client.CreateComment(context.Background(), 7, "nice post")
	require.NoError(t, err)
	assert.Nil(t, comment)
}

func TestSignInRequiresNoStoredCredential(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/signIn", r.URL.Path)
		assert.Empty(t, r.Header.Get("Authorization"))

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "a@b.c", body["email"])

		w.Write([]byte(`{"firstName": "Ann", "lastName": "B", "email": "a@b.c",
			"userUUID": "0b78b0f1-67ff-4f7c-a6b7-2a38934a780f",
			"secret": "7c9e6679-7425-40de-944b-e07fc1f90ae7",
			"userName": "ann"}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL, "")
	user, err := client.SignIn(context.Background(), "a@b.c", "pw")
	require.NoError(t, err)
	assert.Equal(t, "ann", user.UserName)
	assert.Equal(t, "7c9e6679-7425-40de-944b-e07fc1f90ae7", user.Secret.String())
}

func TestDeletePostSendsQueryParams(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/post", r.URL.Path)
		assert.Equal(t, "9", r.URL.Query().Get("postid"))
		assert.Equal(t, "sekret", r.URL.Query().Get("userSecret"))
	}))
	defer server.Close()

	client := newTestClient(server.URL, "sekret")
	assert.NoError(t, client.DeletePost(context.Background(), 9))
}
