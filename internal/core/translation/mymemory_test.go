package translation

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMyMemoryServer(t *testing.T, handler http.HandlerFunc) *MyMemoryClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewMyMemoryClient(WithBaseURL(srv.URL))
}

func TestMyMemory_Success(t *testing.T) {
	var gotQuery, gotPair, gotPath string
	c := newMyMemoryServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.Query().Get("q")
		gotPair = r.URL.Query().Get("langpair")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"responseStatus":200,"responseData":{"translatedText":"Hola mundo"}}`))
	})

	out, err := c.Translate(context.Background(), "Hello world", "en", "es")
	require.NoError(t, err)
	assert.Equal(t, "Hola mundo", out)
	assert.Equal(t, "/get", gotPath)
	assert.Equal(t, "Hello world", gotQuery)
	assert.Equal(t, "en|es", gotPair)
}

func TestMyMemory_EncodesSpecialCharacters(t *testing.T) {
	var gotQuery string
	c := newMyMemoryServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("q")
		_, _ = w.Write([]byte(`{"responseStatus":200,"responseData":{"translatedText":"ok"}}`))
	})

	_, err := c.Translate(context.Background(), "a&b=c?d #e\nf", "en-GB", "fr-FR")
	require.NoError(t, err)
	assert.Equal(t, "a&b=c?d #e\nf", gotQuery)
}

func TestMyMemory_SendsEmailWhenConfigured(t *testing.T) {
	var gotEmail string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotEmail = r.URL.Query().Get("de")
		_, _ = w.Write([]byte(`{"responseStatus":200,"responseData":{"translatedText":"ok"}}`))
	}))
	defer srv.Close()

	c := NewMyMemoryClient(WithBaseURL(srv.URL), WithEmail("ops@example.com"))
	_, err := c.Translate(context.Background(), "hi", "en", "es")
	require.NoError(t, err)
	assert.Equal(t, "ops@example.com", gotEmail)
}

func TestMyMemory_StringStatus(t *testing.T) {
	c := newMyMemoryServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"responseStatus":"200","responseData":{"translatedText":"Bonjour"}}`))
	})

	out, err := c.Translate(context.Background(), "Hello", "en", "fr")
	require.NoError(t, err)
	assert.Equal(t, "Bonjour", out)
}

func TestMyMemory_ServiceRejected(t *testing.T) {
	c := newMyMemoryServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"responseStatus":403,"responseDetails":"QUOTA EXCEEDED","responseData":{"translatedText":""}}`))
	})

	_, err := c.Translate(context.Background(), "Hello", "en", "es")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrServiceRejected)
	assert.NotErrorIs(t, err, ErrTransport)

	var tErr *Error
	require.ErrorAs(t, err, &tErr)
	assert.Equal(t, 403, tErr.Status)
	assert.Equal(t, "QUOTA EXCEEDED", tErr.Detail)
}

func TestMyMemory_ServiceRejectedWithoutDetails(t *testing.T) {
	c := newMyMemoryServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"responseStatus":"429"}`))
	})

	_, err := c.Translate(context.Background(), "Hello", "en", "es")
	var tErr *Error
	require.ErrorAs(t, err, &tErr)
	assert.ErrorIs(t, err, ErrServiceRejected)
	assert.Equal(t, 429, tErr.Status)
	assert.Equal(t, "Translation failed", tErr.Detail)
}

func TestMyMemory_MalformedResponses(t *testing.T) {
	tests := []struct {
		name string
		code int
		body string
	}{
		{"html error page", http.StatusBadGateway, "<html>bad gateway</html>"},
		{"truncated json", http.StatusOK, `{"responseStatus":200,"responseData":`},
		{"missing status", http.StatusOK, `{"responseData":{"translatedText":"x"}}`},
		{"empty translation", http.StatusOK, `{"responseStatus":200,"responseData":{"translatedText":""}}`},
		{"garbage status", http.StatusOK, `{"responseStatus":"abc"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newMyMemoryServer(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.code)
				_, _ = w.Write([]byte(tt.body))
			})

			_, err := c.Translate(context.Background(), "Hello", "en", "es")
			assert.ErrorIs(t, err, ErrTransport)
			assert.NotErrorIs(t, err, ErrServiceRejected)
		})
	}
}

func TestMyMemory_TransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	c := NewMyMemoryClient(WithBaseURL(url))
	_, err := c.Translate(context.Background(), "Hello", "en", "es")
	assert.ErrorIs(t, err, ErrTransport)
}

func TestMyMemory_ContextDeadline(t *testing.T) {
	release := make(chan struct{})
	c := newMyMemoryServer(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	})
	defer close(release)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := c.Translate(ctx, "Hello", "en", "es")
	assert.ErrorIs(t, err, ErrTransport)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestMyMemory_EmptyTextSkipsRequest(t *testing.T) {
	called := false
	c := newMyMemoryServer(t, func(w http.ResponseWriter, r *http.Request) {
		called = true
	})

	_, err := c.Translate(context.Background(), "   \n", "en", "es")
	assert.ErrorIs(t, err, ErrEmptyText)
	assert.False(t, called)
}
