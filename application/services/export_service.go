package services

import (
	"bytes"
	"context"
	"fmt"
	"sort"
	"strings"

	"schoolhub-backend/application/ports"
	"schoolhub-backend/application/upload"
	"schoolhub-backend/domain/school"
	apperrors "schoolhub-backend/pkg/errors"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

// ExportService builds downloadable spreadsheets from full table scans.
type ExportService struct {
	store  ports.RecordStore
	specs  map[string]upload.EntitySpec
	logger *zap.Logger
}

// NewExportService creates an export service over the entity specs, keyed
// by the plural entity name used in the URL.
func NewExportService(store ports.RecordStore, specs map[string]upload.EntitySpec, logger *zap.Logger) *ExportService {
	return &ExportService{store: store, specs: specs, logger: logger}
}

// Export scans the entity's table and renders an xlsx workbook whose header
// row is the entity's canonical column set. Records come back in key order
// so repeated downloads are stable.
func (s *ExportService) Export(ctx context.Context, entity string) (string, []byte, error) {
	spec, ok := s.specs[entity]
	if !ok {
		return "", nil, apperrors.NewNotFoundError("download target")
	}

	records, err := s.store.Scan(ctx, spec.Table)
	if err != nil {
		return "", nil, apperrors.NewDatabaseError("scan "+spec.Table.Name, err)
	}
	sort.Slice(records, func(i, j int) bool {
		return records[i].String(spec.Table.Key) < records[j].String(spec.Table.Key)
	})

	content, err := renderWorkbook(spec, records)
	if err != nil {
		return "", nil, apperrors.NewInternalError("failed to render spreadsheet").WithCause(err)
	}

	s.logger.Info("Export built",
		zap.String("entity", entity),
		zap.Int("records", len(records)),
	)

	return fmt.Sprintf("%s.xlsx", entity), content, nil
}

// renderWorkbook writes the header row plus one row per record.
func renderWorkbook(spec upload.EntitySpec, records []school.Record) ([]byte, error) {
	file := excelize.NewFile()
	defer file.Close()

	sheet := file.GetSheetName(0)

	header := make([]interface{}, len(spec.Headers))
	for i, h := range spec.Headers {
		header[i] = h
	}
	if err := file.SetSheetRow(sheet, "A1", &header); err != nil {
		return nil, err
	}

	for i, record := range records {
		row := make([]interface{}, len(spec.Headers))
		for j, field := range spec.Headers {
			row[j] = cellValue(record, field)
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		if err := file.SetSheetRow(sheet, cell, &row); err != nil {
			return nil, err
		}
	}

	var buf bytes.Buffer
	if err := file.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// cellValue flattens a stored value into a spreadsheet cell. Lists are
// joined with commas so a download re-uploads cleanly.
func cellValue(record school.Record, field string) interface{} {
	v, ok := record[field]
	if !ok || v == nil {
		return ""
	}
	switch v.(type) {
	case []string, []any:
		return strings.Join(record.StringList(field), ",")
	default:
		return record.String(field)
	}
}
