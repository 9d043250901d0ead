package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"runtime"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticSession struct {
	token string
}

func (s *staticSession) Token() string { return s.token }

func newTestClient(t *testing.T, baseURL string, sess SessionReader, onUnauthorized func()) *Client {
	t.Helper()
	c, err := NewClient(Options{
		BaseURL:        baseURL,
		Session:        sess,
		OnUnauthorized: onUnauthorized,
	})
	require.NoError(t, err)
	return c
}

func TestClient_BearerHeaderWithToken(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL, &staticSession{token: "tok1"}, nil)
	require.NoError(t, c.JSON(context.Background(), http.MethodGet, "/posts", nil, nil))

	assert.Equal(t, "Bearer tok1", gotAuth)
}

func TestClient_NoHeaderWithoutToken(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL, &staticSession{}, nil)
	require.NoError(t, c.JSON(context.Background(), http.MethodGet, "/posts", nil, nil))

	assert.Empty(t, gotAuth)
}

func TestClient_UnauthorizedHookFiresOnce(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	var mu sync.Mutex
	fired := 0
	c := newTestClient(t, srv.URL, &staticSession{token: "stale"}, func() {
		mu.Lock()
		fired++
		mu.Unlock()
	})

	// Many concurrent requests all hitting 401 must trigger one hook call
	var wg sync.WaitGroup
	for range 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := c.JSON(context.Background(), http.MethodGet, "/posts", nil, nil)
			assert.Equal(t, KindAuth, ErrorKind(err))
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, fired)
}

func TestClient_UnauthorizedHookRearmsAfterReset(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	fired := 0
	c := newTestClient(t, srv.URL, &staticSession{token: "stale"}, func() { fired++ })

	_ = c.JSON(context.Background(), http.MethodGet, "/posts", nil, nil)
	_ = c.JSON(context.Background(), http.MethodGet, "/posts", nil, nil)
	assert.Equal(t, 1, fired)

	c.ResetAuth()
	_ = c.JSON(context.Background(), http.MethodGet, "/posts", nil, nil)
	assert.Equal(t, 2, fired)
}

func TestClient_WithoutAuthHookSuppressesHandler(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"message":"invalid credentials"}`))
	}))
	defer srv.Close()

	fired := 0
	c := newTestClient(t, srv.URL, &staticSession{}, func() { fired++ })

	err := c.JSON(context.Background(), http.MethodPost, "/auth/login", map[string]string{"email": "x"}, nil, WithoutAuthHook())
	assert.Equal(t, KindAuth, ErrorKind(err))
	assert.Equal(t, 0, fired, "login 401 must not trigger the global handler")
}

func TestClient_ErrorMessageShapes(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		kind    Kind
		message string
	}{
		{"string message", 400, `{"message":"title is required"}`, KindValidation, "title is required"},
		{"array message", 400, `{"message":["name too short","slug invalid"]}`, KindValidation, "name too short"},
		{"conflict", 409, `{"message":"category already exists"}`, KindConflict, "category already exists"},
		{"error field", 422, `{"error":"bad payload"}`, KindValidation, "bad payload"},
		{"unstructured", 500, `oops`, KindServer, GenericFailureMessage},
		{"empty array", 400, `{"message":[]}`, KindValidation, GenericFailureMessage},
		{"not found", 404, `{"message":"post not found"}`, KindNotFound, "post not found"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			c := newTestClient(t, srv.URL, &staticSession{}, nil)
			err := c.JSON(context.Background(), http.MethodGet, "/x", nil, nil)

			require.Error(t, err)
			assert.Equal(t, tt.kind, ErrorKind(err))
			assert.Equal(t, tt.message, Message(err))
		})
	}
}

func TestClient_MultipartFieldName(t *testing.T) {
	var gotField, gotFile, gotExtra string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		if files := r.MultipartForm.File["leadPicture"]; len(files) > 0 {
			gotField = "leadPicture"
			gotFile = files[0].Filename
		}
		gotExtra = r.FormValue("title")
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL, &staticSession{token: "tok1"}, nil)
	err := c.Multipart(context.Background(), "/posts/upload", "leadPicture", "cover.jpg",
		strings.NewReader("jpegdata"), map[string]string{"title": "hello"}, nil)

	require.NoError(t, err)
	assert.Equal(t, "leadPicture", gotField)
	assert.Equal(t, "cover.jpg", gotFile)
	assert.Equal(t, "hello", gotExtra)
}

func TestClient_MultipartAbort(t *testing.T) {
	blocked := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-blocked
	}))
	defer srv.Close()
	defer close(blocked)

	c := newTestClient(t, srv.URL, &staticSession{}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- c.Multipart(ctx, "/media/upload", "file", "big.bin",
			strings.NewReader(strings.Repeat("x", 1024)), nil, nil)
	}()

	cancel()
	err := <-done
	require.Error(t, err)
	assert.Equal(t, KindNetwork, ErrorKind(err))
}

func TestClient_MultipartReleasesWriterWhenNeverSent(t *testing.T) {
	// A canceled context makes the rate limiter fail before the request
	// goes out, so nothing ever consumes the pipe
	c, err := NewClient(Options{BaseURL: "http://127.0.0.1:0", RateLimit: 1})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	before := runtime.NumGoroutine()
	err = c.Multipart(ctx, "/media/upload", "file", "x.jpg",
		strings.NewReader("jpegdata"), nil, nil)
	require.Error(t, err)

	assert.Eventually(t, func() bool {
		return runtime.NumGoroutine() <= before
	}, time.Second, 10*time.Millisecond, "writer goroutine should exit when the body is never consumed")
}

func TestClient_QueryParameters(t *testing.T) {
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL, &staticSession{}, nil)
	q := url.Values{"page": {"2"}, "limit": {"10"}}
	require.NoError(t, c.JSON(context.Background(), http.MethodGet, "/posts", nil, nil, WithQuery(q)))

	assert.Contains(t, gotQuery, "page=2")
	assert.Contains(t, gotQuery, "limit=10")
}

func TestClient_RejectsBadBaseURL(t *testing.T) {
	_, err := NewClient(Options{BaseURL: "not-a-url"})
	assert.Error(t, err)
}
