package services

import (
	"context"
	"testing"

	"schoolhub-backend/application/ports"
	"schoolhub-backend/application/upload"
	"schoolhub-backend/tests/fixtures"
	"schoolhub-backend/tests/mocks"

	apperrors "schoolhub-backend/pkg/errors"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testUploadService(store ports.RecordStore, publisher ports.EventPublisher, metrics ports.MetricsRecorder) *UploadService {
	tables := testTables()
	logger := zap.NewNop()
	pipelines := map[string]*upload.Pipeline{
		upload.EntityStudents: upload.NewPipeline(store, upload.StudentSpec(tables.Students), logger),
		upload.EntityTeachers: upload.NewPipeline(store, upload.TeacherSpec(tables.Teachers), logger),
		upload.EntityGames:    upload.NewPipeline(store, upload.GameSpec(tables.Games), logger),
	}
	return NewUploadService(pipelines, publisher, metrics, logger)
}

func TestUploadService_Entities(t *testing.T) {
	service := testUploadService(mocks.NewFakeRecordStore(), nil, nil)

	assert.Equal(t, []string{"games", "students", "teachers"}, service.Entities())
}

func TestUploadService_Run_PublishesEventAndMetrics(t *testing.T) {
	store := mocks.NewFakeRecordStore()
	publisher := &mocks.FakeEventPublisher{}
	metrics := &mocks.FakeMetricsRecorder{}
	service := testUploadService(store, publisher, metrics)

	file := fixtures.MustWorkbookBase64(
		[]string{"student_id", "first_name"},
		[][]string{{"S001", "Alice"}},
	)

	uploadID, result, err := service.Run(context.Background(), upload.EntityStudents, file)

	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, 1, result.Processed)

	_, parseErr := uuid.Parse(uploadID)
	assert.NoError(t, parseErr)

	require.Len(t, publisher.Events, 1)
	assert.Equal(t, uploadID, publisher.Events[0].UploadID)
	assert.Equal(t, "students", publisher.Events[0].Entity)
	assert.Equal(t, 1, publisher.Events[0].Processed)

	require.Len(t, metrics.Uploads, 1)
	assert.Equal(t, "students", metrics.Uploads[0].Entity)
}

func TestUploadService_Run_UnknownEntity(t *testing.T) {
	service := testUploadService(mocks.NewFakeRecordStore(), nil, nil)

	_, result, err := service.Run(context.Background(), "classes", "AAAA")

	require.Error(t, err)
	assert.Nil(t, result)
	assert.True(t, apperrors.IsNotFound(err))
}

func TestUploadService_Run_TotalFailureStillPublishes(t *testing.T) {
	store := mocks.NewFakeRecordStore()
	publisher := &mocks.FakeEventPublisher{}
	service := testUploadService(store, publisher, nil)

	file := fixtures.MustWorkbookBase64(
		[]string{"student_id", "first_name"},
		[][]string{{"", "Nobody"}},
	)

	uploadID, result, err := service.Run(context.Background(), upload.EntityStudents, file)

	require.Error(t, err)
	require.NotNil(t, result)
	assert.Equal(t, 0, result.Processed)
	assert.NotEmpty(t, uploadID)

	// The audit trail records failed uploads too.
	require.Len(t, publisher.Events, 1)
	assert.Equal(t, 0, publisher.Events[0].Processed)
	assert.Equal(t, 1, publisher.Events[0].ErrorCount)
}
