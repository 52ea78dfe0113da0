package upload

import (
	"fmt"
	"strconv"
	"strings"

	"schoolhub-backend/application/ports"
	"schoolhub-backend/domain/school"
)

// URL names for the three upload/download targets.
const (
	EntityStudents = "students"
	EntityTeachers = "teachers"
	EntityGames    = "games"
)

// EntitySpec parameterizes the generic upload pipeline for one entity:
// which table it writes, which columns the file must and may carry, which
// fields participate in change detection, and which fields are carried
// forward from the existing record regardless of the incoming value.
type EntitySpec struct {
	// Name is the singular display name used in row-scoped error strings.
	Name string

	Table ports.Table

	// Headers is the canonical column set; it doubles as the download
	// header row. Extra columns in an upload are tolerated.
	Headers []string

	// Required lists the columns an upload cannot omit.
	Required []string

	// Tracked fields are compared against the existing record to decide
	// whether a row is a real update or a no-op.
	Tracked []string

	// Sticky fields keep the existing record's value across an upsert.
	Sticky []string

	// Build coerces one parsed row into a fresh record with timestamps set
	// to now. It never sees the existing record; stickiness is applied by
	// the reconciler afterwards.
	Build func(row map[string]string, now string) (school.Record, error)
}

// StudentSpec describes the student upload pipeline.
func StudentSpec(table ports.Table) EntitySpec {
	return EntitySpec{
		Name:  "Student",
		Table: table,
		Headers: []string{
			school.FieldStudentID, school.FieldFirstName, school.FieldLastName,
			school.FieldMarks, school.FieldClass, school.FieldClassNo,
			school.FieldTeacherID, school.FieldPassword, school.FieldLastLogin,
			school.FieldLastUpdate, school.FieldCreatedAt, school.FieldUpdatedAt,
		},
		Required: []string{school.FieldStudentID},
		Tracked: []string{
			school.FieldFirstName, school.FieldLastName, school.FieldMarks,
			school.FieldClass, school.FieldClassNo, school.FieldTeacherID,
			school.FieldPassword, school.FieldLastLogin,
		},
		Sticky: []string{school.FieldCreatedAt},
		Build: func(row map[string]string, now string) (school.Record, error) {
			return school.Record{
				school.FieldStudentID:  row[school.FieldStudentID],
				school.FieldFirstName:  row[school.FieldFirstName],
				school.FieldLastName:   row[school.FieldLastName],
				school.FieldMarks:      looseInt(row[school.FieldMarks]),
				school.FieldClass:      row[school.FieldClass],
				school.FieldClassNo:    row[school.FieldClassNo],
				school.FieldTeacherID:  row[school.FieldTeacherID],
				school.FieldPassword:   row[school.FieldPassword],
				school.FieldLastLogin:  row[school.FieldLastLogin],
				school.FieldLastUpdate: now,
				school.FieldCreatedAt:  now,
				school.FieldUpdatedAt:  now,
			}, nil
		},
	}
}

// TeacherSpec describes the teacher upload pipeline.
func TeacherSpec(table ports.Table) EntitySpec {
	return EntitySpec{
		Name:  "Teacher",
		Table: table,
		Headers: []string{
			school.FieldTeacherID, school.FieldTeacherName, school.FieldPassword,
			school.FieldResponsibleClass, school.FieldIsAdmin,
			school.FieldLastLogin, school.FieldCreatedAt, school.FieldUpdatedAt,
		},
		Required: []string{school.FieldTeacherID},
		Tracked: []string{
			school.FieldTeacherName, school.FieldPassword,
			school.FieldResponsibleClass, school.FieldIsAdmin, school.FieldLastLogin,
		},
		Sticky: []string{school.FieldCreatedAt},
		Build: func(row map[string]string, now string) (school.Record, error) {
			return school.Record{
				school.FieldTeacherID:        row[school.FieldTeacherID],
				school.FieldTeacherName:      row[school.FieldTeacherName],
				school.FieldPassword:         row[school.FieldPassword],
				school.FieldResponsibleClass: school.NormalizeStringList(row[school.FieldResponsibleClass]),
				school.FieldIsAdmin:          school.ParseTruthy(row[school.FieldIsAdmin]),
				school.FieldLastLogin:        row[school.FieldLastLogin],
				school.FieldCreatedAt:        now,
				school.FieldUpdatedAt:        now,
			}, nil
		},
	}
}

// GameSpec describes the game upload pipeline. accumulated_click is sticky:
// an upload never resets a click counter.
func GameSpec(table ports.Table) EntitySpec {
	return EntitySpec{
		Name:  "Game",
		Table: table,
		Headers: []string{
			school.FieldGameID, school.FieldGameName, school.FieldSubject,
			school.FieldDifficulty, school.FieldTeacherID, school.FieldGameStudentID,
			school.FieldAccumulatedClick, school.FieldScratchID, school.FieldScratchAPI,
			school.FieldDescription, school.FieldCreatedAt, school.FieldUpdatedAt,
			school.FieldLastUpdate,
		},
		Required: []string{school.FieldGameID},
		Tracked: []string{
			school.FieldGameName, school.FieldSubject, school.FieldDifficulty,
			school.FieldTeacherID, school.FieldGameStudentID, school.FieldScratchID,
			school.FieldScratchAPI, school.FieldDescription,
		},
		Sticky: []string{school.FieldCreatedAt, school.FieldAccumulatedClick},
		Build: func(row map[string]string, now string) (school.Record, error) {
			gameID := strings.TrimSpace(row[school.FieldGameID])
			scratchAPI := strings.TrimSpace(row[school.FieldScratchAPI])

			// game_id must equal the trailing numeric segment of scratch_api.
			if scratchAPI != "" {
				derived, err := school.GameIDFromScratchAPI(scratchAPI)
				if err != nil {
					return nil, err
				}
				if gameID == "" {
					gameID = derived
				} else if gameID != derived {
					return nil, fmt.Errorf("game_id %q does not match scratch_api id %q", gameID, derived)
				}
			}

			return school.Record{
				school.FieldGameID:           gameID,
				school.FieldGameName:         row[school.FieldGameName],
				school.FieldSubject:          row[school.FieldSubject],
				school.FieldDifficulty:       row[school.FieldDifficulty],
				school.FieldTeacherID:        row[school.FieldTeacherID],
				school.FieldGameStudentID:    row[school.FieldGameStudentID],
				school.FieldAccumulatedClick: looseInt(row[school.FieldAccumulatedClick]),
				school.FieldScratchID:        row[school.FieldScratchID],
				school.FieldScratchAPI:       scratchAPI,
				school.FieldDescription:      row[school.FieldDescription],
				school.FieldCreatedAt:        now,
				school.FieldUpdatedAt:        now,
				school.FieldLastUpdate:       now,
			}, nil
		},
	}
}

// looseInt coerces a cell into an int, defaulting malformed or missing
// values to 0 rather than failing the row.
func looseInt(s string) int {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	if i, err := strconv.Atoi(s); err == nil {
		return i
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return int(f)
	}
	return 0
}
