package web

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"TNSBot/internal/domain"
)

func TestDocumentFetcherFetch(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("User-Agent") != "test-agent" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		if r.URL.Path == "/missing" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(`<html><body><div class="note">hello</div></body></html>`))
	}))
	defer server.Close()

	fetcher := NewDocumentFetcher(NewClient(Options{Timeout: 5 * time.Second, UserAgent: "test-agent"}))

	doc, err := fetcher.Fetch(context.Background(), server.URL+"/astronotes")
	require.NoError(t, err)
	require.Equal(t, "hello", doc.Find(".note").Text())

	_, err = fetcher.Fetch(context.Background(), server.URL+"/missing")
	require.ErrorIs(t, err, domain.ErrFetch)
}

func TestDocumentFetcherUnreachable(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.NotFoundHandler())
	addr := server.URL
	server.Close()

	_, err := NewDocumentFetcher(nil).Fetch(context.Background(), addr)
	require.ErrorIs(t, err, domain.ErrFetch)
}

func TestClientPacesRequests(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	client := NewClient(Options{RequestsPerSecond: 10})
	start := time.Now()
	for i := 0; i < 13; i++ {
		_, err := client.R().Get(server.URL)
		require.NoError(t, err)
	}
	// burst of 10, then three requests spaced 100ms apart
	require.GreaterOrEqual(t, time.Since(start), 250*time.Millisecond)
}
