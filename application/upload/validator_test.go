package upload

import (
	"testing"

	"schoolhub-backend/application/ports"

	apperrors "schoolhub-backend/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func studentTable() ports.Table {
	return ports.Table{Name: "students-table", Key: "student_id"}
}

func TestValidateSheet_MissingRequiredColumn(t *testing.T) {
	spec := StudentSpec(studentTable())
	sheet := &Sheet{
		Headers: []string{"first_name", "last_name"},
		Rows:    [][]string{{"Alice", "Wong"}},
	}

	err := ValidateSheet(sheet, spec, zap.NewNop())

	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))
	assert.Contains(t, err.Error(), "student_id")

	// The error carries the canonical header set for the client to display.
	appErr := apperrors.GetAppError(err)
	require.NotNil(t, appErr)
	assert.Equal(t, spec.Headers, appErr.Details["expected_headers"])
}

func TestValidateSheet_ExtraColumnsTolerated(t *testing.T) {
	spec := StudentSpec(studentTable())
	sheet := &Sheet{
		Headers: []string{"student_id", "nickname"},
		Rows:    [][]string{{"S001", "Al"}},
	}

	assert.NoError(t, ValidateSheet(sheet, spec, zap.NewNop()))
}

func TestValidateSheet_RowCap(t *testing.T) {
	spec := StudentSpec(studentTable())

	atCap := &Sheet{Headers: []string{"student_id"}, Rows: make([][]string, MaxDataRows)}
	assert.NoError(t, ValidateSheet(atCap, spec, zap.NewNop()))

	overCap := &Sheet{Headers: []string{"student_id"}, Rows: make([][]string, MaxDataRows+1)}
	err := ValidateSheet(overCap, spec, zap.NewNop())
	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))
	assert.Contains(t, err.Error(), "4000")
}
