package di

import (
	"context"

	"schoolhub-backend/application/ports"
	"schoolhub-backend/application/services"
	"schoolhub-backend/application/upload"
	"schoolhub-backend/domain/school"
	"schoolhub-backend/infrastructure/config"
	"schoolhub-backend/infrastructure/messaging/eventbridge"
	"schoolhub-backend/infrastructure/observability"
	ddbstore "schoolhub-backend/infrastructure/persistence/dynamodb"
	"schoolhub-backend/pkg/auth"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	awscloudwatch "github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	awsdynamodb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	awseventbridge "github.com/aws/aws-sdk-go-v2/service/eventbridge"
	"go.uber.org/zap"
)

// ProvideLogger creates a new logger instance
func ProvideLogger(cfg *config.Config) (*zap.Logger, error) {
	if cfg.IsProduction() {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}

// ProvideAWSConfig creates AWS configuration
func ProvideAWSConfig(ctx context.Context, cfg *config.Config) (aws.Config, error) {
	return awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.AWSRegion),
	)
}

// ProvideDynamoDBClient creates a DynamoDB client, pointed at the local
// endpoint when one is configured.
func ProvideDynamoDBClient(awsCfg aws.Config, cfg *config.Config) *awsdynamodb.Client {
	return awsdynamodb.NewFromConfig(awsCfg, func(o *awsdynamodb.Options) {
		if cfg.DynamoDBEndpoint != "" {
			o.BaseEndpoint = aws.String(cfg.DynamoDBEndpoint)
		}
	})
}

// ProvideEventBridgeClient creates an EventBridge client
func ProvideEventBridgeClient(awsCfg aws.Config) *awseventbridge.Client {
	return awseventbridge.NewFromConfig(awsCfg)
}

// ProvideCloudWatchClient creates a CloudWatch client
func ProvideCloudWatchClient(awsCfg aws.Config) *awscloudwatch.Client {
	return awscloudwatch.NewFromConfig(awsCfg)
}

// ProvideRecordStore creates the DynamoDB-backed record store
func ProvideRecordStore(client *awsdynamodb.Client, logger *zap.Logger) ports.RecordStore {
	return ddbstore.NewTableStore(client, logger)
}

// ProvideTables resolves the three entity tables from configuration
func ProvideTables(cfg *config.Config) ports.Tables {
	return ports.Tables{
		Students: ports.Table{Name: cfg.StudentsTable, Key: school.FieldStudentID},
		Teachers: ports.Table{Name: cfg.TeachersTable, Key: school.FieldTeacherID},
		Games:    ports.Table{Name: cfg.GamesTable, Key: school.FieldGameID},
	}
}

// ProvideTokenIssuer creates the session token issuer
func ProvideTokenIssuer(cfg *config.Config) (*auth.TokenIssuer, error) {
	return auth.NewTokenIssuer(cfg.JWTSecret, cfg.JWTIssuer, 0)
}

// ProvideEventPublisher creates the upload event publisher, or nil when
// events are disabled.
func ProvideEventPublisher(client *awseventbridge.Client, cfg *config.Config, logger *zap.Logger) ports.EventPublisher {
	if !cfg.EnableEvents {
		return nil
	}
	return eventbridge.NewPublisher(client, cfg.EventBusName, logger)
}

// ProvideMetricsRecorder creates the CloudWatch metrics recorder, or nil
// when metrics are disabled.
func ProvideMetricsRecorder(client *awscloudwatch.Client, cfg *config.Config, logger *zap.Logger) ports.MetricsRecorder {
	if !cfg.EnableMetrics {
		return nil
	}
	return observability.NewMetrics(client, "SchoolHub/"+cfg.Environment, logger)
}

// ProvideEntitySpecs builds the per-entity pipeline configurations
func ProvideEntitySpecs(tables ports.Tables) map[string]upload.EntitySpec {
	return map[string]upload.EntitySpec{
		upload.EntityStudents: upload.StudentSpec(tables.Students),
		upload.EntityTeachers: upload.TeacherSpec(tables.Teachers),
		upload.EntityGames:    upload.GameSpec(tables.Games),
	}
}

// ProvidePipelines builds one upload pipeline per entity
func ProvidePipelines(store ports.RecordStore, specs map[string]upload.EntitySpec, logger *zap.Logger) map[string]*upload.Pipeline {
	pipelines := make(map[string]*upload.Pipeline, len(specs))
	for name, spec := range specs {
		pipelines[name] = upload.NewPipeline(store, spec, logger)
	}
	return pipelines
}

// ProvideAuthService creates the login service
func ProvideAuthService(store ports.RecordStore, tables ports.Tables, tokens *auth.TokenIssuer, logger *zap.Logger) *services.AuthService {
	return services.NewAuthService(store, tables, tokens, logger)
}

// ProvideClickService creates the click counter service
func ProvideClickService(store ports.RecordStore, tables ports.Tables, metrics ports.MetricsRecorder, logger *zap.Logger) *services.ClickService {
	return services.NewClickService(store, tables, metrics, logger)
}

// ProvideUploadService creates the bulk upload service
func ProvideUploadService(pipelines map[string]*upload.Pipeline, publisher ports.EventPublisher, metrics ports.MetricsRecorder, logger *zap.Logger) *services.UploadService {
	return services.NewUploadService(pipelines, publisher, metrics, logger)
}

// ProvideExportService creates the download service
func ProvideExportService(store ports.RecordStore, specs map[string]upload.EntitySpec, logger *zap.Logger) *services.ExportService {
	return services.NewExportService(store, specs, logger)
}
