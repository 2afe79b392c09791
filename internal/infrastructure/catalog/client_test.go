package catalog

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/go-library-rental/internal/domain/errs"
)

func newCatalogServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/api/books", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[
			{"id": 101, "title": " Dune ", "author_name": "Frank Herbert", "price": 15.99},
			{"id": 0, "title": "broken"},
			{"id": 205, "title": "Hyperion", "author_name": "Dan Simmons", "price": "12.50"}
		]`))
	})
	mux.HandleFunc("/api/books/101", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"id": 101, "title": "Dune", "author_name": "Frank Herbert", "price": 15.99}`))
	})
	mux.HandleFunc("/api/books/500", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "catalog down", http.StatusBadGateway)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestClient_FetchAll(t *testing.T) {
	srv := newCatalogServer(t)
	c := NewClient(srv.URL+"/api/books/", time.Second, nil)

	books, err := c.FetchAll(context.Background())
	require.NoError(t, err)
	require.Len(t, books, 2)

	assert.Equal(t, int64(101), books[0].ExternalID)
	assert.Equal(t, "Dune", books[0].Title)
	assert.Equal(t, "15.99", books[0].Price.StringFixed(2))
	assert.Equal(t, "12.50", books[1].Price.StringFixed(2))
	assert.Zero(t, books[0].StockQuantity)
}

func TestClient_FetchOne(t *testing.T) {
	srv := newCatalogServer(t)
	c := NewClient(srv.URL+"/api/books", time.Second, nil)

	b, err := c.FetchOne(context.Background(), 101)
	require.NoError(t, err)
	assert.Equal(t, "Frank Herbert", b.AuthorName)

	_, err = c.FetchOne(context.Background(), 404)
	require.ErrorIs(t, err, errs.ErrNotFound)

	_, err = c.FetchOne(context.Background(), 500)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
}
