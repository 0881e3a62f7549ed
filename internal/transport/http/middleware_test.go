package http

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YusovID/agency-backoffice/internal/auth"
)

func TestRequestIDMiddleware(t *testing.T) {
	nextHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := getRequestID(r.Context())

		w.WriteHeader(http.StatusOK)
		_, err := w.Write([]byte(id))
		require.NoError(t, err)
	})

	server := &Server{}
	handlerToTest := server.requestID(nextHandler)

	t.Run("Generate new request ID if header is missing", func(t *testing.T) {
		req := httptest.NewRequest("GET", "http://testing", nil)
		rr := httptest.NewRecorder()

		handlerToTest.ServeHTTP(rr, req)

		respHeaderID := rr.Header().Get(requestIDHeader)
		respBodyID := rr.Body.String()

		assert.NotEmpty(t, respHeaderID, "response header should have a request ID")
		assert.NotEmpty(t, respBodyID, "response body should have a request ID from context")
		assert.Equal(t, respHeaderID, respBodyID, "header and context ID should match")
	})

	t.Run("Use existing request ID from header", func(t *testing.T) {
		const existingID = "test-request-id-123"

		req := httptest.NewRequest("GET", "http://testing", nil)
		req.Header.Set(requestIDHeader, existingID)

		rr := httptest.NewRecorder()

		handlerToTest.ServeHTTP(rr, req)

		assert.Equal(t, existingID, rr.Header().Get(requestIDHeader))
		assert.Equal(t, existingID, rr.Body.String())
	})
}

func TestLogRequestMiddleware(t *testing.T) {
	var logBuffer bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logBuffer, nil))
	server := &Server{log: logger}

	nextHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusAccepted)
	})

	handlerToTest := server.requestID(server.logRequest(nextHandler))

	req := httptest.NewRequest("GET", "/test-path", nil)
	rr := httptest.NewRecorder()

	handlerToTest.ServeHTTP(rr, req)

	logOutput := logBuffer.String()
	assert.Contains(t, logOutput, "request started", "should log start of request")
	assert.Contains(t, logOutput, "request completed", "should log end of request")
	assert.Contains(t, logOutput, "method=GET", "should log request method")
	assert.Contains(t, logOutput, "path=/test-path", "should log request path")
	assert.Contains(t, logOutput, "status=202", "should log response status")
	assert.Contains(t, logOutput, "duration=", "should log request duration")
	assert.Contains(t, logOutput, "request_id=", "should log request ID")
}

func TestGetRequestID(t *testing.T) {
	t.Run("Returns ID if present in context", func(t *testing.T) {
		const expectedID = "my-test-id"
		ctx := context.WithValue(context.Background(), requestIDKey, expectedID)
		id := getRequestID(ctx)
		assert.Equal(t, expectedID, id)
	})

	t.Run("Returns empty string if not in context", func(t *testing.T) {
		id := getRequestID(context.Background())
		assert.Empty(t, id)
	})
}

func TestRequireAdmin_PutsClaimsInContext(t *testing.T) {
	authMock := new(AuthenticatorMock)
	authMock.On("Verify", "abc").Return(&auth.Claims{Email: "admin@agency.test"}, nil).Once()

	server := &Server{log: slog.New(slog.NewTextHandler(io.Discard, nil)), auth: authMock}

	var got *auth.Claims
	handlerToTest := server.requireAdmin(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = getClaims(r.Context())
	}))

	req := httptest.NewRequest("GET", "/api/admin/dashboard", nil)
	req.Header.Set("Authorization", "bearer abc")

	handlerToTest.ServeHTTP(httptest.NewRecorder(), req)

	require.NotNil(t, got)
	assert.Equal(t, "admin@agency.test", got.Email)
	authMock.AssertExpectations(t)
}

func TestRecoverPanic_RethrowsAbortHandler(t *testing.T) {
	server := &Server{log: slog.New(slog.NewTextHandler(io.Discard, nil))}

	handlerToTest := server.recoverPanic(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic(http.ErrAbortHandler)
	}))

	assert.PanicsWithValue(t, http.ErrAbortHandler, func() {
		handlerToTest.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/", nil))
	})
}

func TestIPRateLimiter(t *testing.T) {
	now := time.Date(2026, time.October, 19, 12, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }

	t.Run("Refills over time", func(t *testing.T) {
		l := newIPRateLimiter(6, 1, clock)

		assert.True(t, l.allow("10.0.0.1"))
		assert.False(t, l.allow("10.0.0.1"))
		assert.True(t, l.allow("10.0.0.2"), "clients have separate buckets")

		now = now.Add(10 * time.Second)
		assert.True(t, l.allow("10.0.0.1"))
	})

	t.Run("Idle clients are swept", func(t *testing.T) {
		l := newIPRateLimiter(6, 1, clock)
		l.allow("10.0.0.1")

		now = now.Add(visitorIdleTTL + time.Minute)
		l.allow("10.0.0.2")

		assert.NotContains(t, l.visitors, "10.0.0.1")
		assert.Contains(t, l.visitors, "10.0.0.2")
	})

	t.Run("Zero rate disables limiting", func(t *testing.T) {
		l := newIPRateLimiter(0, 0, clock)

		for i := 0; i < 100; i++ {
			require.True(t, l.allow("10.0.0.1"))
		}
	})
}

func TestClientIP(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)
	req.RemoteAddr = "203.0.113.7:52100"
	assert.Equal(t, "203.0.113.7", clientIP(req))

	req.RemoteAddr = "203.0.113.7"
	assert.Equal(t, "203.0.113.7", clientIP(req))
}
