package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"crewdesk/internal/models"
	"crewdesk/internal/reddit"
)

func TestGetCommunityTopPosts(t *testing.T) {
	s, app, _ := setupHandlerTest(t, &fakeVerifier{})
	s.communities = &fakeCommunityReader{
		topPostsFn: func(_ context.Context, community string, limit int) ([]reddit.Post, error) {
			assert.Equal(t, "golang", community)
			assert.Equal(t, 5, limit)
			return []reddit.Post{
				{Title: "first", Author: "alice", Score: 42},
			}, nil
		},
	}

	resp := getJSON(t, app, "/api/communities/golang/top?limit=5")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var posts []reddit.Post
	require.NoError(t, json.Unmarshal(raw, &posts))
	require.Len(t, posts, 1)
	assert.Equal(t, "first", posts[0].Title)
}

func TestGetCommunityTopPostsUpstreamFailure(t *testing.T) {
	s, app, _ := setupHandlerTest(t, &fakeVerifier{})
	s.communities = &fakeCommunityReader{
		topPostsFn: func(context.Context, string, int) ([]reddit.Post, error) {
			return nil, models.NewUpstreamError("reddit API returned status 500", nil)
		},
	}

	resp := getJSON(t, app, "/api/communities/golang/top")
	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
	resp.Body.Close()
}

func TestHealthEndpoints(t *testing.T) {
	_, app, _ := setupHandlerTest(t, &fakeVerifier{})

	resp := getJSON(t, app, "/health/live")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = getJSON(t, app, "/health/ready")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeBody(t, resp)
	checks, ok := body["checks"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "healthy", checks["database"])
	assert.Equal(t, "unavailable", checks["redis"])
}
