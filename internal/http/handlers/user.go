package handlers

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/cmi5-backend/internal/data/txn"
	types "github.com/yungbote/cmi5-backend/internal/domain"
	"github.com/yungbote/cmi5-backend/internal/domain/errs"
	"github.com/yungbote/cmi5-backend/internal/http/response"
	"github.com/yungbote/cmi5-backend/internal/platform/dbctx"
	"github.com/yungbote/cmi5-backend/internal/platform/logger"
	"github.com/yungbote/cmi5-backend/internal/services"
)

const msgUserNotFound = "User not found"

type UserHandler struct {
	log           *logger.Logger
	runner        txn.TxRunner
	userService   services.UserService
	courseService services.CourseService
	launchURL     launchURLFunc
}

func NewUserHandler(
	log *logger.Logger,
	runner txn.TxRunner,
	userService services.UserService,
	courseService services.CourseService,
	packages services.PackageService,
) *UserHandler {
	h := &UserHandler{
		log:           log.With("handler", "UserHandler"),
		runner:        runner,
		userService:   userService,
		courseService: courseService,
	}
	if packages != nil {
		h.launchURL = packages.LaunchURL
	}
	return h
}

// POST /api/users
// body: { "email": "...", "password": "..." }
func (h *UserHandler) Create(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}
	if !bindJSON(c, "user.create", &req) {
		return
	}

	var u *types.User
	err := h.runner.InTx(c.Request.Context(), func(dbc dbctx.Context) error {
		var err error
		u, err = h.userService.Create(dbc, req.Email, req.Password)
		return err
	})
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, toUserView(u))
}

// GET /api/users
func (h *UserHandler) List(c *gin.Context) {
	var users []*types.User
	err := h.runner.InTx(c.Request.Context(), func(dbc dbctx.Context) error {
		var err error
		users, err = h.userService.GetAll(dbc)
		return err
	})
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, toUserViews(users))
}

// GET /api/users/email/:email
func (h *UserHandler) GetByEmail(c *gin.Context) {
	email := strings.TrimSpace(c.Param("email"))
	if email == "" {
		response.RespondAPIError(c, errs.NotFound("user.get_by_email", msgUserNotFound))
		return
	}
	var u *types.User
	err := h.runner.InTx(c.Request.Context(), func(dbc dbctx.Context) error {
		var err error
		u, err = h.userService.GetByEmail(dbc, email)
		return err
	})
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, toUserView(u))
}

// GET /api/users/:id
func (h *UserHandler) Get(c *gin.Context) {
	id, ok := uuidParam(c, "id", "user.get", msgUserNotFound)
	if !ok {
		return
	}
	var courses []*types.Course
	err := h.runner.InTx(c.Request.Context(), func(dbc dbctx.Context) error {
		u, err := h.userService.GetByID(dbc, id)
		if err != nil {
			return err
		}
		courses, err = h.courseService.GetByUserID(dbc, u.ID)
		return err
	})
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, userCoursesView{UserID: id, Courses: toCourseViews(courses, h.launchURL)})
}

// DELETE /api/users/:id
func (h *UserHandler) Delete(c *gin.Context) {
	id, ok := uuidParam(c, "id", "user.delete", msgUserNotFound)
	if !ok {
		return
	}
	err := h.runner.InTx(c.Request.Context(), func(dbc dbctx.Context) error {
		return h.userService.Delete(dbc, id)
	})
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondNoContent(c)
}
