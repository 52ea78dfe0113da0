package services

import (
	"context"

	"schoolhub-backend/application/ports"
	"schoolhub-backend/domain/school"
	"schoolhub-backend/pkg/auth"
	apperrors "schoolhub-backend/pkg/errors"

	"go.uber.org/zap"
)

// LoginResult is the outcome of a successful login.
type LoginResult struct {
	User  school.Record `json:"user"`
	Role  string        `json:"role"`
	Token string        `json:"token"`
}

// AuthService authenticates ids against the student table first and the
// teacher table second, deriving the role from which table matched.
type AuthService struct {
	store  ports.RecordStore
	tables ports.Tables
	tokens *auth.TokenIssuer
	logger *zap.Logger
}

// NewAuthService creates an auth service.
func NewAuthService(store ports.RecordStore, tables ports.Tables, tokens *auth.TokenIssuer, logger *zap.Logger) *AuthService {
	return &AuthService{store: store, tables: tables, tokens: tokens, logger: logger}
}

// Login looks up the id, compares the stored password, and on success
// returns the record (password stripped), the derived role, and a signed
// session token. Password comparison is plaintext; that is the stored
// format.
func (s *AuthService) Login(ctx context.Context, id, password string) (*LoginResult, error) {
	record, role, err := s.findUser(ctx, id)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, apperrors.NewUnauthorizedError("invalid id or password")
	}

	if record.String(school.FieldPassword) != password {
		s.logger.Info("Login rejected: password mismatch",
			zap.String("id", id),
			zap.String("role", role),
		)
		return nil, apperrors.NewUnauthorizedError("invalid id or password")
	}

	token, err := s.tokens.Issue(id, role)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to issue session token").WithCause(err)
	}

	// Last-login persistence is intentionally inert; the touch is only logged.
	s.logger.Info("Login succeeded, skipping last_login update",
		zap.String("id", id),
		zap.String("role", role),
	)

	return &LoginResult{
		User:  record.WithoutPassword(),
		Role:  role,
		Token: token,
	}, nil
}

// findUser checks the student table, then the teacher table. A teacher with
// a truthy is_admin flag gets the admin role.
func (s *AuthService) findUser(ctx context.Context, id string) (school.Record, string, error) {
	student, err := s.store.Get(ctx, s.tables.Students, id)
	if err != nil {
		return nil, "", apperrors.NewDatabaseError("get student", err)
	}
	if student != nil {
		return student, school.RoleStudent, nil
	}

	teacher, err := s.store.Get(ctx, s.tables.Teachers, id)
	if err != nil {
		return nil, "", apperrors.NewDatabaseError("get teacher", err)
	}
	if teacher != nil {
		role := school.RoleTeacher
		if teacher.Bool(school.FieldIsAdmin) {
			role = school.RoleAdmin
		}
		return teacher, role, nil
	}

	return nil, "", nil
}
