package upload

import (
	"fmt"
	"strings"

	apperrors "schoolhub-backend/pkg/errors"

	"go.uber.org/zap"
)

// MaxDataRows is the hard cap on data rows per upload, enforced before any
// store access.
const MaxDataRows = 4000

// ValidateSheet checks the decoded sheet against the entity's schema. It
// fails closed only on missing required columns or row-count overflow;
// unrecognized extra columns are logged and tolerated.
func ValidateSheet(sheet *Sheet, spec EntitySpec, logger *zap.Logger) error {
	present := make(map[string]bool, len(sheet.Headers))
	for _, h := range sheet.Headers {
		if h != "" {
			present[h] = true
		}
	}

	var missing []string
	for _, required := range spec.Required {
		if !present[required] {
			missing = append(missing, required)
		}
	}
	if len(missing) > 0 {
		return apperrors.NewValidationError(
			fmt.Sprintf("missing required column(s): %s", strings.Join(missing, ", ")),
		).WithDetails(map[string]interface{}{
			"expected_headers": spec.Headers,
		})
	}

	expected := make(map[string]bool, len(spec.Headers))
	for _, h := range spec.Headers {
		expected[h] = true
	}
	for _, h := range sheet.Headers {
		if h != "" && !expected[h] {
			logger.Warn("Ignoring unexpected column in upload",
				zap.String("entity", spec.Name),
				zap.String("column", h),
			)
		}
	}

	if len(sheet.Rows) > MaxDataRows {
		return apperrors.NewValidationError(
			fmt.Sprintf("file has %d data rows, maximum is %d", len(sheet.Rows), MaxDataRows),
		)
	}

	return nil
}
