package upload

import (
	"encoding/base64"
	"testing"

	"schoolhub-backend/tests/fixtures"

	apperrors "schoolhub-backend/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeBase64Workbook_Success(t *testing.T) {
	encoded := fixtures.MustWorkbookBase64(
		[]string{"Student_ID", " first_name "},
		[][]string{
			{"S001", "Alice"},
			{"S002", "Bob"},
		},
	)

	sheet, err := DecodeBase64Workbook(encoded)

	require.NoError(t, err)
	// Headers come back lowercased and trimmed.
	assert.Equal(t, []string{"student_id", "first_name"}, sheet.Headers)
	require.Len(t, sheet.Rows, 2)
	assert.Equal(t, "S001", sheet.Rows[0][0])
}

func TestDecodeBase64Workbook_StripsDataURIPrefix(t *testing.T) {
	encoded := fixtures.MustWorkbookBase64(
		[]string{"student_id"},
		[][]string{{"S001"}},
	)

	sheet, err := DecodeBase64Workbook("data:application/vnd.openxmlformats-officedocument.spreadsheetml.sheet;base64," + encoded)

	require.NoError(t, err)
	assert.Len(t, sheet.Rows, 1)
}

func TestDecodeBase64Workbook_DropsBlankRows(t *testing.T) {
	encoded := fixtures.MustWorkbookBase64(
		[]string{"student_id"},
		[][]string{
			{"S001"},
			{"  "},
			{"S002"},
		},
	)

	sheet, err := DecodeBase64Workbook(encoded)

	require.NoError(t, err)
	require.Len(t, sheet.Rows, 2)
	assert.Equal(t, "S002", sheet.Rows[1][0])
}

func TestDecodeBase64Workbook_EmptyPayload(t *testing.T) {
	_, err := DecodeBase64Workbook("   ")

	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))
	assert.Contains(t, err.Error(), "no file uploaded")
}

func TestDecodeBase64Workbook_InvalidBase64(t *testing.T) {
	_, err := DecodeBase64Workbook("not!!valid!!base64")

	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))
}

func TestDecodeBase64Workbook_NotASpreadsheet(t *testing.T) {
	_, err := DecodeBase64Workbook(base64.StdEncoding.EncodeToString([]byte("plain text")))

	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))
}

func TestDecodeBase64Workbook_HeaderOnly(t *testing.T) {
	encoded := fixtures.MustWorkbookBase64([]string{"student_id"}, nil)

	_, err := DecodeBase64Workbook(encoded)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "no data rows")
}

func TestSheet_RowMaps(t *testing.T) {
	sheet := &Sheet{
		Headers: []string{"student_id", "first_name", ""},
		Rows: [][]string{
			{" S001 ", "Alice", "ignored", "beyond header"},
			{"S002"},
		},
	}

	maps := sheet.RowMaps()

	require.Len(t, maps, 2)
	assert.Equal(t, "S001", maps[0]["student_id"])
	assert.Equal(t, "Alice", maps[0]["first_name"])
	assert.NotContains(t, maps[0], "")

	// Short rows leave trailing columns absent.
	assert.Equal(t, "S002", maps[1]["student_id"])
	assert.NotContains(t, maps[1], "first_name")
}
