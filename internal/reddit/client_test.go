package reddit

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"crewdesk/internal/config"
	"crewdesk/internal/models"
)

func newTestClient(t *testing.T, tokenURL, apiURL string) *Client {
	t.Helper()
	return NewClient(&config.Config{
		RedditClientID:     "test-client",
		RedditClientSecret: "test-secret",
		RedditUserAgent:    "crewdesk-test/1.0",
		RedditTokenURL:     tokenURL,
		RedditAPIBaseURL:   apiURL,
		RedditTimeoutSecs:  5,
	})
}

func newTokenServer(t *testing.T, calls *int64) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(calls, 1)

		user, pass, ok := r.BasicAuth()
		require.True(t, ok, "token request must carry basic auth")
		assert.Equal(t, "test-client", user)
		assert.Equal(t, "test-secret", pass)
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "client_credentials", r.PostFormValue("grant_type"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"access_token":"tok-123","token_type":"bearer","expires_in":3600}`))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestAcquireTokenMissingCredentials(t *testing.T) {
	client := NewClient(&config.Config{
		RedditTokenURL:   "http://127.0.0.1:1",
		RedditAPIBaseURL: "http://127.0.0.1:1",
	})

	_, err := client.UserExists(context.Background(), "someone")
	require.Error(t, err)
	assert.Equal(t, models.CodeConfig, models.ErrorCode(err))
}

func TestTokenReuseAcrossRequests(t *testing.T) {
	var tokenCalls int64
	tokenSrv := newTokenServer(t, &tokenCalls)

	apiSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok-123", r.Header.Get("Authorization"))
		w.Write([]byte(`{"kind":"t2","data":{"name":"someone"}}`))
	}))
	defer apiSrv.Close()

	client := newTestClient(t, tokenSrv.URL, apiSrv.URL)

	for i := 0; i < 3; i++ {
		exists, err := client.UserExists(context.Background(), "someone")
		require.NoError(t, err)
		assert.True(t, exists)
	}

	assert.Equal(t, int64(1), atomic.LoadInt64(&tokenCalls), "token must be exchanged once and then reused")
}

func TestUserExistsStatusMapping(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		body       string
		wantExists bool
		wantErr    bool
		wantCode   string
	}{
		{
			name:       "account exists",
			status:     http.StatusOK,
			body:       `{"kind":"t2","data":{"name":"someone"}}`,
			wantExists: true,
		},
		{
			name:   "account missing is not an error",
			status: http.StatusNotFound,
			body:   `{"message":"Not Found","error":404}`,
		},
		{
			name:     "rate limited",
			status:   http.StatusTooManyRequests,
			wantErr:  true,
			wantCode: models.CodeRateLimited,
		},
		{
			name:     "server error",
			status:   http.StatusInternalServerError,
			wantErr:  true,
			wantCode: models.CodeUpstream,
		},
		{
			name:     "auth rejected",
			status:   http.StatusUnauthorized,
			wantErr:  true,
			wantCode: models.CodeUpstream,
		},
		{
			name:     "malformed payload",
			status:   http.StatusOK,
			body:     `{"kind":`,
			wantErr:  true,
			wantCode: models.CodeNetwork,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var tokenCalls int64
			tokenSrv := newTokenServer(t, &tokenCalls)

			apiSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/user/someone/about", r.URL.Path)
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer apiSrv.Close()

			client := newTestClient(t, tokenSrv.URL, apiSrv.URL)

			exists, err := client.UserExists(context.Background(), "someone")
			if tt.wantErr {
				require.Error(t, err)
				assert.Equal(t, tt.wantCode, models.ErrorCode(err))
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, tt.wantExists, exists)
		})
	}
}

func TestUserExistsNetworkError(t *testing.T) {
	var tokenCalls int64
	tokenSrv := newTokenServer(t, &tokenCalls)

	apiSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	apiSrv.Close() // connection refused from here on

	client := newTestClient(t, tokenSrv.URL, apiSrv.URL)

	exists, err := client.UserExists(context.Background(), "someone")
	require.Error(t, err)
	assert.False(t, exists)
	assert.Equal(t, models.CodeNetwork, models.ErrorCode(err))
}

func TestUnauthorizedInvalidatesToken(t *testing.T) {
	var tokenCalls int64
	tokenSrv := newTokenServer(t, &tokenCalls)

	var apiCalls int64
	apiSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt64(&apiCalls, 1) == 1 {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Write([]byte(`{"kind":"t2","data":{"name":"someone"}}`))
	}))
	defer apiSrv.Close()

	client := newTestClient(t, tokenSrv.URL, apiSrv.URL)

	_, err := client.UserExists(context.Background(), "someone")
	require.Error(t, err)

	exists, err := client.UserExists(context.Background(), "someone")
	require.NoError(t, err)
	assert.True(t, exists)

	assert.Equal(t, int64(2), atomic.LoadInt64(&tokenCalls), "401 must force a fresh token exchange")
}

func TestTokenExchangeFailure(t *testing.T) {
	tokenSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":"invalid_grant"}`))
	}))
	defer tokenSrv.Close()

	client := newTestClient(t, tokenSrv.URL, "http://127.0.0.1:1")

	_, err := client.UserExists(context.Background(), "someone")
	require.Error(t, err)
	assert.Equal(t, models.CodeUpstream, models.ErrorCode(err))
}

func TestTopPosts(t *testing.T) {
	var tokenCalls int64
	tokenSrv := newTokenServer(t, &tokenCalls)

	apiSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/r/golang/top", r.URL.Path)
		assert.Equal(t, "5", r.URL.Query().Get("limit"))
		w.Write([]byte(`{"data":{"children":[
			{"data":{"title":"first","author":"alice","score":42,"permalink":"/r/golang/1"}},
			{"data":{"title":"second","author":"bob","score":7,"permalink":"/r/golang/2"}}
		]}}`))
	}))
	defer apiSrv.Close()

	client := newTestClient(t, tokenSrv.URL, apiSrv.URL)

	posts, err := client.TopPosts(context.Background(), "golang", 5)
	require.NoError(t, err)
	require.Len(t, posts, 2)
	assert.Equal(t, "first", posts[0].Title)
	assert.Equal(t, 42, posts[0].Score)
	assert.Equal(t, "bob", posts[1].Author)
}

func TestTopPostsUnknownCommunity(t *testing.T) {
	var tokenCalls int64
	tokenSrv := newTokenServer(t, &tokenCalls)

	apiSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer apiSrv.Close()

	client := newTestClient(t, tokenSrv.URL, apiSrv.URL)

	_, err := client.TopPosts(context.Background(), "doesnotexist", 5)
	require.Error(t, err)
	assert.Equal(t, models.CodeNotFound, models.ErrorCode(err))
}
