package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"schoolhub-backend/application/ports"
	"schoolhub-backend/domain/school"
	"schoolhub-backend/pkg/auth"
	"schoolhub-backend/tests/mocks"

	apperrors "schoolhub-backend/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testTables() ports.Tables {
	return ports.Tables{
		Students: ports.Table{Name: "students-table", Key: "student_id"},
		Teachers: ports.Table{Name: "teachers-table", Key: "teacher_id"},
		Games:    ports.Table{Name: "games-table", Key: "game_id"},
	}
}

func testTokenIssuer(t *testing.T) *auth.TokenIssuer {
	t.Helper()
	tokens, err := auth.NewTokenIssuer("test-secret", "schoolhub", time.Hour)
	require.NoError(t, err)
	return tokens
}

func TestAuthService_Login_Student(t *testing.T) {
	// Arrange
	store := mocks.NewFakeRecordStore()
	tables := testTables()
	store.Seed(tables.Students, school.Record{
		"student_id": "S001",
		"first_name": "Alice",
		"password":   "pw1",
	})
	tokens := testTokenIssuer(t)
	service := NewAuthService(store, tables, tokens, zap.NewNop())

	// Act
	result, err := service.Login(context.Background(), "S001", "pw1")

	// Assert
	require.NoError(t, err)
	assert.Equal(t, school.RoleStudent, result.Role)
	assert.Equal(t, "Alice", result.User.String(school.FieldFirstName))
	assert.NotContains(t, result.User, school.FieldPassword)

	claims, err := tokens.Validate(result.Token)
	require.NoError(t, err)
	assert.Equal(t, "S001", claims.UserID)
	assert.Equal(t, school.RoleStudent, claims.Role)
}

func TestAuthService_Login_TeacherAndAdmin(t *testing.T) {
	store := mocks.NewFakeRecordStore()
	tables := testTables()
	store.Seed(tables.Teachers, school.Record{
		"teacher_id": "T001",
		"password":   "pw",
		"is_admin":   false,
	})
	store.Seed(tables.Teachers, school.Record{
		"teacher_id": "T002",
		"password":   "pw",
		"is_admin":   "TRUE",
	})
	service := NewAuthService(store, tables, testTokenIssuer(t), zap.NewNop())

	teacher, err := service.Login(context.Background(), "T001", "pw")
	require.NoError(t, err)
	assert.Equal(t, school.RoleTeacher, teacher.Role)

	// A truthy is_admin flag upgrades the role, whatever its stored shape.
	admin, err := service.Login(context.Background(), "T002", "pw")
	require.NoError(t, err)
	assert.Equal(t, school.RoleAdmin, admin.Role)
}

func TestAuthService_Login_StudentTableWinsOverTeacher(t *testing.T) {
	store := mocks.NewFakeRecordStore()
	tables := testTables()
	store.Seed(tables.Students, school.Record{"student_id": "X001", "password": "pw"})
	store.Seed(tables.Teachers, school.Record{"teacher_id": "X001", "password": "pw"})
	service := NewAuthService(store, tables, testTokenIssuer(t), zap.NewNop())

	result, err := service.Login(context.Background(), "X001", "pw")

	require.NoError(t, err)
	assert.Equal(t, school.RoleStudent, result.Role)
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	store := mocks.NewFakeRecordStore()
	tables := testTables()
	store.Seed(tables.Students, school.Record{"student_id": "S001", "password": "pw1"})
	service := NewAuthService(store, tables, testTokenIssuer(t), zap.NewNop())

	_, err := service.Login(context.Background(), "S001", "wrong")

	require.Error(t, err)
	assert.True(t, apperrors.IsUnauthorized(err))
	// The message never reveals whether the id or the password was wrong.
	assert.Contains(t, err.Error(), "invalid id or password")
}

func TestAuthService_Login_UnknownID(t *testing.T) {
	store := mocks.NewFakeRecordStore()
	service := NewAuthService(store, testTables(), testTokenIssuer(t), zap.NewNop())

	_, err := service.Login(context.Background(), "nobody", "pw")

	require.Error(t, err)
	assert.True(t, apperrors.IsUnauthorized(err))
}

func TestAuthService_Login_StoreFailure(t *testing.T) {
	store := mocks.NewFakeRecordStore()
	store.SetError("Get", errors.New("connection reset"))
	service := NewAuthService(store, testTables(), testTokenIssuer(t), zap.NewNop())

	_, err := service.Login(context.Background(), "S001", "pw")

	require.Error(t, err)
	assert.False(t, apperrors.IsUnauthorized(err))
	assert.Equal(t, 500, apperrors.StatusFor(err))
}
