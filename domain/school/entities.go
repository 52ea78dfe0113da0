package school

import (
	"fmt"
	"strings"
)

// Shared field names across the three entity tables.
const (
	FieldPassword  = "password"
	FieldCreatedAt = "created_at"
	FieldUpdatedAt = "updated_at"
	FieldLastLogin = "last_login"
)

// Student field names.
const (
	FieldStudentID = "student_id"
	FieldFirstName = "first_name"
	FieldLastName  = "last_name"
	FieldMarks     = "marks"
	FieldClass     = "class"
	FieldClassNo   = "class_no"
	FieldTeacherID = "teacher_id"
	// last_update is tracked on students and games but not teachers.
	FieldLastUpdate = "last_update"
)

// Teacher field names.
const (
	FieldTeacherName      = "name"
	FieldResponsibleClass = "responsible_class"
	FieldIsAdmin          = "is_admin"
)

// Game field names.
const (
	FieldGameID           = "game_id"
	FieldGameName         = "game_name"
	FieldSubject          = "subject"
	FieldDifficulty       = "difficulty"
	FieldGameStudentID    = "student_id"
	FieldAccumulatedClick = "accumulated_click"
	FieldScratchID        = "scratch_id"
	FieldScratchAPI       = "scratch_api"
	FieldDescription      = "description"
)

// Game difficulty levels and the marks each awards to a clicking student.
const (
	DifficultyBeginner     = "Beginner"
	DifficultyIntermediate = "Intermediate"
	DifficultyAdvanced     = "Advanced"
)

// Role names derived at login.
const (
	RoleStudent = "student"
	RoleTeacher = "teacher"
	RoleAdmin   = "admin"
)

// MarksForDifficulty returns the marks awarded for clicking a game of the
// given difficulty. Unknown difficulties award nothing.
func MarksForDifficulty(difficulty string) int {
	switch strings.TrimSpace(difficulty) {
	case DifficultyBeginner:
		return 5
	case DifficultyIntermediate:
		return 10
	case DifficultyAdvanced:
		return 15
	default:
		return 0
	}
}

// GameIDFromScratchAPI extracts the trailing path segment of a scratch_api
// URL, which by invariant is the game's id. Trailing slashes and query
// strings are tolerated.
func GameIDFromScratchAPI(scratchAPI string) (string, error) {
	s := strings.TrimSpace(scratchAPI)
	if s == "" {
		return "", fmt.Errorf("scratch_api is empty")
	}
	if i := strings.IndexAny(s, "?#"); i >= 0 {
		s = s[:i]
	}
	s = strings.TrimRight(s, "/")
	idx := strings.LastIndex(s, "/")
	if idx < 0 || idx == len(s)-1 {
		return "", fmt.Errorf("scratch_api %q has no path segment", scratchAPI)
	}
	id := s[idx+1:]
	for _, c := range id {
		if c < '0' || c > '9' {
			return "", fmt.Errorf("scratch_api %q does not end in a numeric id", scratchAPI)
		}
	}
	return id, nil
}
