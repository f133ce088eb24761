package handlers

import (
	"context"
	"mime/multipart"
	"path"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/cmi5-backend/internal/data/txn"
	types "github.com/yungbote/cmi5-backend/internal/domain"
	"github.com/yungbote/cmi5-backend/internal/domain/errs"
	"github.com/yungbote/cmi5-backend/internal/http/response"
	"github.com/yungbote/cmi5-backend/internal/platform/dbctx"
	"github.com/yungbote/cmi5-backend/internal/platform/logger"
	"github.com/yungbote/cmi5-backend/internal/realtime"
	"github.com/yungbote/cmi5-backend/internal/services"
)

const (
	msgCourseNotFound = "Course not found"
	msgBadUpload      = "Uploading Failed: Bad archive or file"
)

type CourseHandler struct {
	log            *logger.Logger
	runner         txn.TxRunner
	courseService  services.CourseService
	packageService services.PackageService
	events         *Publisher
}

func NewCourseHandler(
	log *logger.Logger,
	runner txn.TxRunner,
	courseService services.CourseService,
	packageService services.PackageService,
	events *Publisher,
) *CourseHandler {
	return &CourseHandler{
		log:            log.With("handler", "CourseHandler"),
		runner:         runner,
		courseService:  courseService,
		packageService: packageService,
		events:         events,
	}
}

func (h *CourseHandler) launchURL(fileLink string) string {
	if h.packageService == nil {
		return ""
	}
	return h.packageService.LaunchURL(fileLink)
}

// POST /api/courses
// multipart: title, description, file (cmi5 zip)
func (h *CourseHandler) Create(c *gin.Context) {
	const op = "course.create"
	fh, err := c.FormFile("file")
	if err != nil {
		response.RespondAPIError(c, errs.New(errs.CodeInvalidUpload, op, msgBadUpload, err))
		return
	}
	f, err := fh.Open()
	if err != nil {
		response.RespondAPIError(c, errs.New(errs.CodeInvalidUpload, op, msgBadUpload, err))
		return
	}
	defer f.Close()

	ctx := c.Request.Context()
	pkg, err := h.packageService.Upload(ctx, packageSource(fh, f))
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}

	title := firstNonEmpty(c.PostForm("title"), pkg.Title, strings.TrimSuffix(path.Base(fh.Filename), path.Ext(fh.Filename)))
	description := firstNonEmpty(c.PostForm("description"), pkg.Description)

	var created *types.Course
	err = h.runner.InTx(ctx, func(dbc dbctx.Context) error {
		var err error
		created, err = h.courseService.Create(dbc, title, description, pkg.FileLink)
		return err
	})
	if err != nil {
		// the row never committed; drop the objects it would have pointed at
		if rmErr := h.packageService.Remove(context.WithoutCancel(ctx), pkg.Prefix); rmErr != nil {
			h.log.Error("failed to remove orphaned package", "prefix", pkg.Prefix, "error", rmErr)
		}
		response.RespondAPIError(c, err)
		return
	}

	response.RespondOK(c, courseWithUsersView{
		courseView: toCourseView(created, h.launchURL),
		Users:      []userView{},
	})
}

func packageSource(fh *multipart.FileHeader, f multipart.File) services.PackageSource {
	return services.PackageSource{
		Filename:    fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Body:        f,
		Size:        fh.Size,
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if s := strings.TrimSpace(v); s != "" {
			return s
		}
	}
	return ""
}

// GET /api/courses/all
func (h *CourseHandler) List(c *gin.Context) {
	var courses []*types.Course
	err := h.runner.InTx(c.Request.Context(), func(dbc dbctx.Context) error {
		var err error
		courses, err = h.courseService.GetAll(dbc)
		return err
	})
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, toCourseViews(courses, h.launchURL))
}

// GET /api/courses/:id
func (h *CourseHandler) Get(c *gin.Context) {
	id, ok := uuidParam(c, "id", "course.get", msgCourseNotFound)
	if !ok {
		return
	}
	var (
		course *types.Course
		users  []*types.User
	)
	err := h.runner.InTx(c.Request.Context(), func(dbc dbctx.Context) error {
		var err error
		if course, err = h.courseService.GetByID(dbc, id); err != nil {
			return err
		}
		users, err = h.courseService.GetUsers(dbc, course)
		return err
	})
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, courseWithUsersView{
		courseView: toCourseView(course, h.launchURL),
		Users:      toUserViews(users),
	})
}

// DELETE /api/courses/:id
func (h *CourseHandler) Delete(c *gin.Context) {
	id, ok := uuidParam(c, "id", "course.delete", msgCourseNotFound)
	if !ok {
		return
	}
	err := h.runner.InTx(c.Request.Context(), func(dbc dbctx.Context) error {
		return h.courseService.Delete(dbc, id)
	})
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondNoContent(c)
}

// POST /api/courses/enrollment
// body: { "course_id": "...", "user_id": "..." }
func (h *CourseHandler) Enroll(c *gin.Context) {
	var req struct {
		CourseID uuid.UUID `json:"course_id" binding:"required"`
		UserID   uuid.UUID `json:"user_id" binding:"required"`
	}
	if !bindJSON(c, "enrollment.create", &req) {
		return
	}

	var e *types.Enrollment
	err := h.runner.InTx(c.Request.Context(), func(dbc dbctx.Context) error {
		var err error
		e, err = h.courseService.Enroll(dbc, req.CourseID, req.UserID)
		return err
	})
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}

	h.events.Publish(c.Request.Context(), realtime.EventEnrollmentCreated, map[string]any{
		"enrollment_id": e.ID,
		"course_id":     req.CourseID,
		"user_id":       req.UserID,
	})
	response.RespondOK(c, toEnrollmentView(e, h.launchURL))
}
