package handlers_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	txtest "github.com/yungbote/cmi5-backend/internal/data/txn/testutil"
	"github.com/yungbote/cmi5-backend/internal/http/handlers"
	"github.com/yungbote/cmi5-backend/internal/mocks"
	"github.com/yungbote/cmi5-backend/internal/platform/logger"
)

type fixture struct {
	runner     *txtest.InjectedTxRunner
	users      *mocks.UserService
	courses    *mocks.CourseService
	statements *mocks.StatementService
	packages   *mocks.PackageService
	bus        *mocks.Bus
	engine     *gin.Engine
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	gin.SetMode(gin.TestMode)
	handlers.RegisterValidators()

	f := &fixture{
		runner:     &txtest.InjectedTxRunner{},
		users:      new(mocks.UserService),
		courses:    new(mocks.CourseService),
		statements: new(mocks.StatementService),
		packages:   new(mocks.PackageService),
		bus:        new(mocks.Bus),
	}
	log := logger.Nop()
	events := handlers.NewPublisher(log, f.bus, nil)
	uh := handlers.NewUserHandler(log, f.runner, f.users, f.courses, f.packages)
	ch := handlers.NewCourseHandler(log, f.runner, f.courses, f.packages, events)
	sh := handlers.NewStatementHandler(log, f.runner, f.statements, f.packages, events)

	r := gin.New()
	api := r.Group("/api")
	api.POST("/users", uh.Create)
	api.GET("/users", uh.List)
	api.GET("/users/email/:email", uh.GetByEmail)
	api.GET("/users/:id", uh.Get)
	api.DELETE("/users/:id", uh.Delete)
	api.POST("/courses", ch.Create)
	api.GET("/courses/all", ch.List)
	api.POST("/courses/enrollment", ch.Enroll)
	api.GET("/courses/:id", ch.Get)
	api.DELETE("/courses/:id", ch.Delete)
	api.POST("/statement", sh.Submit)
	api.GET("/statement/all", sh.List)
	api.GET("/statement/:courseId/:userId", sh.Get)
	f.engine = r
	return f
}

func (f *fixture) assertExpectations(t *testing.T) {
	f.users.AssertExpectations(t)
	f.courses.AssertExpectations(t)
	f.statements.AssertExpectations(t)
	f.packages.AssertExpectations(t)
	f.bus.AssertExpectations(t)
}

func (f *fixture) do(method, target string, body io.Reader, contentType string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	w := httptest.NewRecorder()
	f.engine.ServeHTTP(w, req)
	return w
}

func (f *fixture) doJSON(method, target, body string) *httptest.ResponseRecorder {
	var r io.Reader
	if body != "" {
		r = bytes.NewBufferString(body)
	}
	return f.do(method, target, r, "application/json")
}

type errorBody struct {
	Error struct {
		Message string `json:"message"`
		Code    string `json:"code"`
	} `json:"error"`
	Detail string `json:"detail"`
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) errorBody {
	t.Helper()
	var out errorBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), "body: %s", w.Body.String())
	return out
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), "body: %s", w.Body.String())
	return out
}
