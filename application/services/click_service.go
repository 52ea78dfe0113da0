package services

import (
	"context"
	"errors"

	"schoolhub-backend/application/ports"
	"schoolhub-backend/domain/school"
	apperrors "schoolhub-backend/pkg/errors"

	"go.uber.org/zap"
)

// ClickResult reports the game's click count after the increment and, when
// the requester was a student, the student's new marks total.
type ClickResult struct {
	AccumulatedClick int  `json:"accumulated_click"`
	Marks            *int `json:"marks,omitempty"`
}

// ClickService increments a game's click counter and awards marks to
// clicking students. Both increments are store-native atomic adds; there is
// no read-modify-write anywhere on these counters.
type ClickService struct {
	store   ports.RecordStore
	tables  ports.Tables
	metrics ports.MetricsRecorder
	logger  *zap.Logger
}

// NewClickService creates a click service. metrics may be nil.
func NewClickService(store ports.RecordStore, tables ports.Tables, metrics ports.MetricsRecorder, logger *zap.Logger) *ClickService {
	return &ClickService{store: store, tables: tables, metrics: metrics, logger: logger}
}

// Click atomically bumps the game's accumulated_click. When role is
// "student" and a student id is present, the game's difficulty decides the
// marks added to that student. Other roles, anonymous requests, and
// unrecognized roles only bump the click count.
func (s *ClickService) Click(ctx context.Context, gameID, studentID, role string) (*ClickResult, error) {
	game, err := s.store.Add(ctx, s.tables.Games, gameID, school.FieldAccumulatedClick, 1)
	if err != nil {
		if errors.Is(err, ports.ErrRecordNotFound) {
			return nil, apperrors.NewNotFoundError("game")
		}
		return nil, apperrors.NewDatabaseError("increment click", err)
	}

	result := &ClickResult{AccumulatedClick: game.Int(school.FieldAccumulatedClick)}

	awarded := 0
	if role == school.RoleStudent && studentID != "" {
		award := school.MarksForDifficulty(game.String(school.FieldDifficulty))
		if award > 0 {
			student, addErr := s.store.Add(ctx, s.tables.Students, studentID, school.FieldMarks, award)
			if addErr != nil {
				if errors.Is(addErr, ports.ErrRecordNotFound) {
					return nil, apperrors.NewNotFoundError("student")
				}
				return nil, apperrors.NewDatabaseError("award marks", addErr)
			}
			marks := student.Int(school.FieldMarks)
			result.Marks = &marks
			awarded = award
		}
	}

	if s.metrics != nil {
		s.metrics.RecordClick(ctx, gameID, awarded)
	}

	s.logger.Debug("Game clicked",
		zap.String("gameID", gameID),
		zap.String("role", role),
		zap.Int("accumulatedClick", result.AccumulatedClick),
		zap.Int("marksAwarded", awarded),
	)

	return result, nil
}
