package upload

import (
	"bytes"
	"encoding/base64"
	"strings"

	apperrors "schoolhub-backend/pkg/errors"

	"github.com/xuri/excelize/v2"
)

// Sheet is a decoded workbook: the first worksheet's header row plus its
// data rows, blank rows dropped.
type Sheet struct {
	Headers []string
	Rows    [][]string
}

// DecodeBase64Workbook turns an uploaded base64-encoded spreadsheet into a
// Sheet. The payload may carry a data-URI prefix; rows with no non-empty
// cell are discarded.
func DecodeBase64Workbook(encoded string) (*Sheet, error) {
	encoded = strings.TrimSpace(encoded)
	if encoded == "" {
		return nil, apperrors.NewValidationError("no file uploaded")
	}

	// Browsers frequently send "data:...;base64,<payload>".
	if idx := strings.Index(encoded, "base64,"); idx >= 0 {
		encoded = encoded[idx+len("base64,"):]
	}

	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, apperrors.NewValidationError("file is not valid base64").WithCause(err)
	}

	file, err := excelize.OpenReader(bytes.NewReader(raw))
	if err != nil {
		return nil, apperrors.NewValidationError("file is not a readable spreadsheet").WithCause(err)
	}
	defer file.Close()

	sheets := file.GetSheetList()
	if len(sheets) == 0 {
		return nil, apperrors.NewValidationError("spreadsheet has no worksheets")
	}

	rows, err := file.GetRows(sheets[0])
	if err != nil {
		return nil, apperrors.NewValidationError("failed to read spreadsheet rows").WithCause(err)
	}

	kept := make([][]string, 0, len(rows))
	for _, row := range rows {
		if !blankRow(row) {
			kept = append(kept, row)
		}
	}

	if len(kept) < 2 {
		return nil, apperrors.NewValidationError("file is empty or has no data rows")
	}

	headers := make([]string, len(kept[0]))
	for i, h := range kept[0] {
		headers[i] = strings.ToLower(strings.TrimSpace(h))
	}

	return &Sheet{Headers: headers, Rows: kept[1:]}, nil
}

// RowMaps converts the data rows into header-keyed maps with trimmed cells.
// Cells beyond the header width are ignored; short rows leave the remaining
// columns absent.
func (s *Sheet) RowMaps() []map[string]string {
	maps := make([]map[string]string, 0, len(s.Rows))
	for _, row := range s.Rows {
		m := make(map[string]string, len(s.Headers))
		for i, h := range s.Headers {
			if h == "" {
				continue
			}
			if i < len(row) {
				m[h] = strings.TrimSpace(row[i])
			}
		}
		maps = append(maps, m)
	}
	return maps
}

func blankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
