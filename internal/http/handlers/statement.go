package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"

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
	msgStatementsNotFound = "Statements not found"
	msgStatementNotObject = "statement must be a JSON object"
)

type StatementHandler struct {
	log              *logger.Logger
	runner           txn.TxRunner
	statementService services.StatementService
	events           *Publisher
	launchURL        launchURLFunc
}

func NewStatementHandler(
	log *logger.Logger,
	runner txn.TxRunner,
	statementService services.StatementService,
	packages services.PackageService,
	events *Publisher,
) *StatementHandler {
	h := &StatementHandler{
		log:              log.With("handler", "StatementHandler"),
		runner:           runner,
		statementService: statementService,
		events:           events,
	}
	if packages != nil {
		h.launchURL = packages.LaunchURL
	}
	return h
}

// POST /api/statement
// body: { "course_id": "...", "user_id": "...", "statement": { ... } }
func (h *StatementHandler) Submit(c *gin.Context) {
	const op = "statement.submit"
	var req struct {
		CourseID  uuid.UUID       `json:"course_id" binding:"required"`
		UserID    uuid.UUID       `json:"user_id" binding:"required"`
		Statement json.RawMessage `json:"statement" binding:"required"`
	}
	if !bindJSON(c, op, &req) {
		return
	}
	if !isJSONObject(req.Statement) {
		response.RespondAPIError(c, errs.Validation(op, msgStatementNotObject))
		return
	}

	var sub *services.Submission
	err := h.runner.InTx(c.Request.Context(), func(dbc dbctx.Context) error {
		var err error
		sub, err = h.statementService.Submit(dbc, req.CourseID, req.UserID, req.Statement)
		return err
	})
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}

	e := sub.Enrollment
	data := map[string]any{
		"enrollment_id": e.ID,
		"course_id":     req.CourseID,
		"user_id":       req.UserID,
		"replaced":      sub.Replaced,
	}
	if e.Statement != nil {
		data["statement_id"] = e.Statement.ID
	}
	h.events.Publish(c.Request.Context(), realtime.EventStatementRecorded, data)
	response.RespondOK(c, toStatementRecordView(e, h.launchURL))
}

// GET /api/statement/all
func (h *StatementHandler) List(c *gin.Context) {
	var full []*types.Enrollment
	err := h.runner.InTx(c.Request.Context(), func(dbc dbctx.Context) error {
		statements, err := h.statementService.GetAll(dbc)
		if err != nil {
			return err
		}
		if len(statements) == 0 {
			return errs.NotFound("statement.list", msgStatementsNotFound)
		}
		full, err = h.statementService.GetFullObjs(dbc, statements)
		return err
	})
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	out := make([]statementRecordView, 0, len(full))
	for _, e := range full {
		out = append(out, toStatementRecordView(e, h.launchURL))
	}
	response.RespondOK(c, out)
}

// GET /api/statement/:courseId/:userId
// Answers the stored document, or {} when the pair has none.
func (h *StatementHandler) Get(c *gin.Context) {
	courseID, ok := uuidParam(c, "courseId", "statement.get", msgCourseNotFound)
	if !ok {
		return
	}
	userID, ok := uuidParam(c, "userId", "statement.get", msgUserNotFound)
	if !ok {
		return
	}

	var st *types.Statement
	err := h.runner.InTx(c.Request.Context(), func(dbc dbctx.Context) error {
		var err error
		st, err = h.statementService.GetStatement(dbc, courseID, userID)
		return err
	})
	switch {
	case errs.IsCode(err, errs.CodeNotFound):
		c.JSON(http.StatusOK, gin.H{})
	case err != nil:
		response.RespondAPIError(c, err)
	default:
		c.Data(http.StatusOK, "application/json; charset=utf-8", toStatementView(st).Statements)
	}
}

func isJSONObject(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return false
	}
	return json.Valid(trimmed)
}
