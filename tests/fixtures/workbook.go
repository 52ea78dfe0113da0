// Package fixtures provides builders for upload test payloads.
package fixtures

import (
	"bytes"
	"encoding/base64"
	"fmt"

	"github.com/xuri/excelize/v2"
)

// WorkbookBase64 renders a single-sheet xlsx with the given header row and
// data rows and returns it base64-encoded, the shape the upload endpoint
// receives.
func WorkbookBase64(headers []string, rows [][]string) (string, error) {
	file := excelize.NewFile()
	defer file.Close()

	sheet := file.GetSheetName(0)

	cells := make([]interface{}, len(headers))
	for i, h := range headers {
		cells[i] = h
	}
	if err := file.SetSheetRow(sheet, "A1", &cells); err != nil {
		return "", err
	}

	for i, row := range rows {
		cells := make([]interface{}, len(row))
		for j, v := range row {
			cells[j] = v
		}
		start, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return "", err
		}
		if err := file.SetSheetRow(sheet, start, &cells); err != nil {
			return "", err
		}
	}

	var buf bytes.Buffer
	if err := file.Write(&buf); err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

// MustWorkbookBase64 is WorkbookBase64 for test setup code.
func MustWorkbookBase64(headers []string, rows [][]string) string {
	encoded, err := WorkbookBase64(headers, rows)
	if err != nil {
		panic(fmt.Sprintf("fixtures: building workbook: %v", err))
	}
	return encoded
}
