package shortlink

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func testClient(endpoints ...func(string) string) *Client {
	c := NewClient()
	c.providers = c.providers[:0]
	for i, e := range endpoints {
		c.providers = append(c.providers, provider{name: "p" + string(rune('0'+i)), endpoint: e})
	}
	return c
}

func TestShorten_FirstProviderWins(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "https://quiz.example.com/s/abc123", r.URL.Query().Get("url"))
		w.Write([]byte("https://tiny.test/xyz\n"))
	}))
	defer server.Close()

	c := testClient(func(target string) string {
		return server.URL + "/create?url=" + target
	})

	short, err := c.Shorten(context.Background(), "https://quiz.example.com/s/abc123")
	assert.NoError(t, err)
	assert.Equal(t, "https://tiny.test/xyz", short)
}

func TestShorten_FallsBackToNextProvider(t *testing.T) {
	broken := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer broken.Close()

	working := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("https://isgd.test/ok"))
	}))
	defer working.Close()

	c := testClient(
		func(string) string { return broken.URL },
		func(string) string { return working.URL },
	)

	short, err := c.Shorten(context.Background(), "https://quiz.example.com/s/abc123")
	assert.NoError(t, err)
	assert.Equal(t, "https://isgd.test/ok", short)
}

func TestShorten_AllProvidersFailReturnsOriginal(t *testing.T) {
	broken := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("Error: rate limit exceeded"))
	}))
	defer broken.Close()

	c := testClient(func(string) string { return broken.URL })

	short, err := c.Shorten(context.Background(), "https://quiz.example.com/s/abc123")
	assert.Error(t, err)
	assert.Equal(t, "https://quiz.example.com/s/abc123", short)
}

func TestShorten_RefusesNonHTTP(t *testing.T) {
	c := NewClient()

	short, err := c.Shorten(context.Background(), "ftp://example.com/file")
	assert.Error(t, err)
	assert.Equal(t, "ftp://example.com/file", short)
}
