package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"techsocial/internal/api"
	"techsocial/internal/utils"
)

const signInResponse = `{"firstName": "Ann", "lastName": "B", "email": "a@b.c",
	"userUUID": "0b78b0f1-67ff-4f7c-a6b7-2a38934a780f",
	"secret": "7c9e6679-7425-40de-944b-e07fc1f90ae7",
	"userName": "ann"}`

const profileResponse = `{"firstName": "Ann", "lastName": "B", "email": "a@b.c",
	"userUUID": "0b78b0f1-67ff-4f7c-a6b7-2a38934a780f",
	"userName": "ann", "followers": 3, "following": 2}`

func newAuthFixture(t *testing.T) (*FileStore, string) {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/signIn":
			w.Write([]byte(signInResponse))
		case "/userProfile":
			if r.URL.Query().Get("userSecret") == "" {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			w.Write([]byte(profileResponse))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(server.Close)

	store := NewFileStore(filepath.Join(t.TempDir(), "credentials.json"), "pw")
	return store, server.URL
}

func newSessionClient(store CredentialStore, serverURL string) (*Session, *api.Client) {
	session := NewSession(store)
	client := api.NewClient(serverURL, 5*time.Second, session, utils.NewMetricsCollector())
	return session, client
}

func TestSignInStoresCredentialsAndUser(t *testing.T) {
	store, serverURL := newAuthFixture(t)
	session, client := newSessionClient(store, serverURL)

	user, err := session.SignIn(context.Background(), client, "a@b.c", "pw")
	require.NoError(t, err)
	assert.Equal(t, "ann", user.UserName)

	secret, ok := session.Secret()
	assert.True(t, ok)
	assert.Equal(t, "7c9e6679-7425-40de-944b-e07fc1f90ae7", secret)
	assert.NotNil(t, session.CurrentUser())
}

func TestSignOutClearsUserAndCredentialsTogether(t *testing.T) {
	store, serverURL := newAuthFixture(t)
	session, client := newSessionClient(store, serverURL)

	_, err := session.SignIn(context.Background(), client, "a@b.c", "pw")
	require.NoError(t, err)

	session.SignOut()

	assert.Nil(t, session.CurrentUser())
	_, ok := session.Secret()
	assert.False(t, ok)

	// A fresh session over the same store finds nothing to resume.
	_, err = session.Resume(context.Background(), client)
	assert.True(t, utils.IsAuthError(err))
}

func TestResumeRestoresSessionFromStoredCredentials(t *testing.T) {
	store, serverURL := newAuthFixture(t)
	session, client := newSessionClient(store, serverURL)

	_, err := session.SignIn(context.Background(), client, "a@b.c", "pw")
	require.NoError(t, err)

	// Simulate a restart: new session and client over the same store.
	restarted, restartedClient := newSessionClient(store, serverURL)
	user, err := restarted.Resume(context.Background(), restartedClient)
	require.NoError(t, err)
	assert.Equal(t, "ann", user.UserName)
	assert.NotNil(t, restarted.CurrentUser())
}
