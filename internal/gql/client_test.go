package gql

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"easyblog/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type capturedRequest struct {
	authorization string
	body          map[string]json.RawMessage
}

func newGraphQLServer(t *testing.T, payload string, captured *capturedRequest) *httptest.Server {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured.authorization = r.Header.Get("Authorization")
		raw, err := io.ReadAll(r.Body)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if err := json.Unmarshal(raw, &captured.body); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, payload)
	}))
	t.Cleanup(server.Close)

	return server
}

func TestPostsByTagBeforeSendsVariablesAndToken(t *testing.T) {
	var captured capturedRequest
	server := newGraphQLServer(t, `{"data":{"Posts":{"docs":[
		{"slug":"a","title":"A","publishedAt":"2023-05-01T00:00:00Z","tags":[{"name":"go","color":"blue"}]}
	]}}}`, &captured)

	client := NewClient(config.Config{GraphQLEndpoint: server.URL, GraphQLAuthToken: "secret"})
	response, err := PostsByTagBefore(context.Background(), client, "go", "2023-06-01T00:00:00Z", 10)
	require.NoError(t, err)

	assert.Equal(t, "Bearer secret", captured.authorization)
	assert.JSONEq(t, `"PostsByTagBefore"`, string(captured.body["operationName"]))
	assert.JSONEq(t, `{"tag":"go","before":"2023-06-01T00:00:00Z","limit":10}`, string(captured.body["variables"]))

	require.NotNil(t, response.Posts)
	require.Len(t, response.Posts.Docs, 1)
	assert.Equal(t, "a", *response.Posts.Docs[0].Slug)
	assert.Equal(t, "blue", *response.Posts.Docs[0].Tags[0].Color)
}

func TestClientUsesConfiguredAuthScheme(t *testing.T) {
	var captured capturedRequest
	server := newGraphQLServer(t, `{"data":{"Tags":{"docs":[]}}}`, &captured)

	client := NewClient(config.Config{
		GraphQLEndpoint:   server.URL,
		GraphQLAuthToken:  "secret",
		GraphQLAuthScheme: "JWT",
	})
	_, err := AllTags(context.Background(), client)
	require.NoError(t, err)

	assert.Equal(t, "JWT secret", captured.authorization)
}

func TestAllTagsWithoutToken(t *testing.T) {
	var captured capturedRequest
	server := newGraphQLServer(t, `{"data":{"Tags":{"docs":[{"name":"go","color":"blue"},{"name":"rust"}]}}}`, &captured)

	client := NewClient(config.Config{GraphQLEndpoint: server.URL})
	response, err := AllTags(context.Background(), client)
	require.NoError(t, err)

	assert.Empty(t, captured.authorization)
	require.NotNil(t, response.Tags)
	require.Len(t, response.Tags.Docs, 2)
	assert.Nil(t, response.Tags.Docs[1].Color)
}

func TestGraphQLErrorsAreReturned(t *testing.T) {
	var captured capturedRequest
	server := newGraphQLServer(t, `{"data":null,"errors":[{"message":"boom"}]}`, &captured)

	client := NewClient(config.Config{GraphQLEndpoint: server.URL})
	_, err := RecentPosts(context.Background(), client, 5)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "boom")
}
