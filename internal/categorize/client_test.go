package categorize

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategorizePostsDescription(t *testing.T) {
	var gotBody categorizeRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))

		json.NewEncoder(w).Encode(Suggestion{
			Categories:    []string{"Electronics"},
			SubCategories: []string{"Phones", "Accessories"},
		})
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	suggestion, err := c.Categorize(context.Background(), "two pallets of mobile phones")
	require.NoError(t, err)

	assert.Equal(t, "two pallets of mobile phones", gotBody.Description)
	assert.Equal(t, []string{"Electronics"}, suggestion.Categories)
	assert.Equal(t, []string{"Phones", "Accessories"}, suggestion.SubCategories)
}

func TestCategorizeNon200Status(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	_, err := c.Categorize(context.Background(), "anything")
	assert.ErrorContains(t, err, "unexpected status 502")
}

func TestCategorizeMalformedResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("not json"))
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	_, err := c.Categorize(context.Background(), "anything")
	assert.ErrorContains(t, err, "decode response")
}

func TestCategorizeWithoutEndpoint(t *testing.T) {
	c := NewClient("")
	_, err := c.Categorize(context.Background(), "anything")
	assert.Error(t, err)
}
