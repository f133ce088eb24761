package services

import (
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	userrepo "github.com/yungbote/cmi5-backend/internal/data/repos/user"
	"github.com/yungbote/cmi5-backend/internal/data/txn"
	types "github.com/yungbote/cmi5-backend/internal/domain"
	"github.com/yungbote/cmi5-backend/internal/domain/errs"
	"github.com/yungbote/cmi5-backend/internal/platform/dbctx"
	"github.com/yungbote/cmi5-backend/internal/platform/logger"
)

const (
	msgUserExists   = "User already exists"
	msgUserNotFound = "User not found"
)

type UserService interface {
	Create(dbc dbctx.Context, email, password string) (*types.User, error)
	GetByEmail(dbc dbctx.Context, email string) (*types.User, error)
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.User, error)
	GetAll(dbc dbctx.Context) ([]*types.User, error)
	Delete(dbc dbctx.Context, id uuid.UUID) error
}

type userService struct {
	db       *gorm.DB
	log      *logger.Logger
	userRepo userrepo.UserRepo
	hasher   PasswordHasher
}

func NewUserService(db *gorm.DB, baseLog *logger.Logger, userRepo userrepo.UserRepo, hasher PasswordHasher) UserService {
	if hasher == nil {
		hasher = BcryptHasher{}
	}
	return &userService{
		db:       db,
		log:      baseLog.With("service", "UserService"),
		userRepo: userRepo,
		hasher:   hasher,
	}
}

func (s *userService) Create(dbc dbctx.Context, email, password string) (*types.User, error) {
	const op = "user.create"
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, errs.Validation(op, "email and password are required")
	}

	hash, err := s.hasher.Hash([]byte(password))
	if err != nil {
		return nil, errs.New(errs.CodeInternal, op, "failed to hash password", err)
	}

	var created *types.User
	err = inTx(s.db, dbc, func(dbc dbctx.Context) error {
		exists, err := s.userRepo.EmailExists(dbc, email)
		if err != nil {
			return txn.MapError(op, err)
		}
		if exists {
			return errs.Conflict(op, msgUserExists)
		}
		users, err := s.userRepo.Create(dbc, []*types.User{{Email: email, Password: string(hash)}})
		if err != nil {
			if txn.IsDuplicate(err) {
				// lost the race against a concurrent create
				return errs.New(errs.CodeConflict, op, msgUserExists, err)
			}
			return txn.MapError(op, err)
		}
		created = users[0]
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("user created", "user_id", created.ID)
	return created, nil
}

func (s *userService) GetByEmail(dbc dbctx.Context, email string) (*types.User, error) {
	u, err := s.userRepo.GetByEmail(dbc, email)
	if err != nil {
		return nil, txn.MapError("user.get_by_email", err)
	}
	if u == nil {
		return nil, errs.NotFound("user.get_by_email", msgUserNotFound)
	}
	return u, nil
}

func (s *userService) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.User, error) {
	u, err := s.userRepo.GetByID(dbc, id)
	if err != nil {
		return nil, txn.MapError("user.get", err)
	}
	if u == nil {
		return nil, errs.NotFound("user.get", msgUserNotFound)
	}
	return u, nil
}

func (s *userService) GetAll(dbc dbctx.Context) ([]*types.User, error) {
	users, err := s.userRepo.GetAll(dbc)
	if err != nil {
		return nil, txn.MapError("user.list", err)
	}
	return users, nil
}

// Delete soft-deletes an active user. Enrollments are kept; reads filter them out.
func (s *userService) Delete(dbc dbctx.Context, id uuid.UUID) error {
	ok, err := s.userRepo.SoftDelete(dbc, id)
	if err != nil {
		return txn.MapError("user.delete", err)
	}
	if !ok {
		return errs.NotFound("user.delete", msgUserNotFound)
	}
	s.log.Info("user deleted", "user_id", id)
	return nil
}
