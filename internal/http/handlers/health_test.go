package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

type pingerFunc func(ctx context.Context) error

func (f pingerFunc) PingContext(ctx context.Context) error { return f(ctx) }

func TestHealthCheck(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cases := []struct {
		name   string
		db     Pinger
		status int
	}{
		{"no db", nil, http.StatusOK},
		{"db up", pingerFunc(func(context.Context) error { return nil }), http.StatusOK},
		{"db down", pingerFunc(func(context.Context) error { return errors.New("refused") }), http.StatusServiceUnavailable},
	}
	for _, tc := range cases {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/healthcheck", nil)
		NewHealthHandler(tc.db).HealthCheck(c)
		if w.Code != tc.status {
			t.Fatalf("%s: want %d got %d", tc.name, tc.status, w.Code)
		}
	}
}
