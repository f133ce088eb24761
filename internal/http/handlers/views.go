package handlers

import (
	"encoding/json"

	"github.com/google/uuid"

	types "github.com/yungbote/cmi5-backend/internal/domain"
)

type userView struct {
	ID    uuid.UUID `json:"id"`
	Email string    `json:"email"`
}

type courseView struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	FileLink    string    `json:"file_link"`
	LaunchURL   string    `json:"launch_url,omitempty"`
}

type courseWithUsersView struct {
	courseView
	Users []userView `json:"users"`
}

type userCoursesView struct {
	UserID  uuid.UUID    `json:"user_id"`
	Courses []courseView `json:"courses"`
}

type enrollmentView struct {
	ID     uuid.UUID  `json:"id"`
	Course courseView `json:"course"`
	User   userView   `json:"user"`
}

type statementView struct {
	ID         uuid.UUID       `json:"id"`
	Statements json.RawMessage `json:"statements"`
}

type statementRecordView struct {
	Course    courseView    `json:"course"`
	User      userView      `json:"user"`
	Statement statementView `json:"statement"`
}

// launchURLFunc resolves a stored file link to a URL a browser can open.
type launchURLFunc func(fileLink string) string

func toUserView(u *types.User) userView {
	if u == nil {
		return userView{}
	}
	return userView{ID: u.ID, Email: u.Email}
}

func toUserViews(users []*types.User) []userView {
	out := make([]userView, 0, len(users))
	for _, u := range users {
		if u != nil {
			out = append(out, toUserView(u))
		}
	}
	return out
}

func toCourseView(c *types.Course, launch launchURLFunc) courseView {
	if c == nil {
		return courseView{}
	}
	v := courseView{
		ID:          c.ID,
		Title:       c.Title,
		Description: c.Description,
		FileLink:    c.FileLink,
	}
	if launch != nil {
		v.LaunchURL = launch(c.FileLink)
	}
	return v
}

func toCourseViews(courses []*types.Course, launch launchURLFunc) []courseView {
	out := make([]courseView, 0, len(courses))
	for _, c := range courses {
		if c != nil {
			out = append(out, toCourseView(c, launch))
		}
	}
	return out
}

func toEnrollmentView(e *types.Enrollment, launch launchURLFunc) enrollmentView {
	return enrollmentView{
		ID:     e.ID,
		Course: toCourseView(e.Course, launch),
		User:   toUserView(e.User),
	}
}

func toStatementView(st *types.Statement) statementView {
	if st == nil {
		return statementView{Statements: json.RawMessage("{}")}
	}
	raw := json.RawMessage(st.Statements)
	if len(raw) == 0 {
		raw = json.RawMessage("{}")
	}
	return statementView{ID: st.ID, Statements: raw}
}

func toStatementRecordView(e *types.Enrollment, launch launchURLFunc) statementRecordView {
	return statementRecordView{
		Course:    toCourseView(e.Course, launch),
		User:      toUserView(e.User),
		Statement: toStatementView(e.Statement),
	}
}
