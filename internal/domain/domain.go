package domain

import (
	"github.com/yungbote/cmi5-backend/internal/domain/course"
	"github.com/yungbote/cmi5-backend/internal/domain/statement"
	"github.com/yungbote/cmi5-backend/internal/domain/user"
)

type (
	User       = user.User
	Course     = course.Course
	Enrollment = course.Enrollment
	Statement  = statement.Statement
)

// Models lists every persisted model in migration order.
func Models() []interface{} {
	return []interface{}{
		&User{},
		&Course{},
		&Statement{},
		&Enrollment{},
	}
}
