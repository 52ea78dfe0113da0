package di

import (
	"schoolhub-backend/application/ports"
	"schoolhub-backend/application/services"
	"schoolhub-backend/application/upload"
	"schoolhub-backend/infrastructure/config"
	"schoolhub-backend/pkg/auth"

	"go.uber.org/zap"
)

// Container holds all application dependencies
type Container struct {
	Config        *config.Config
	Logger        *zap.Logger
	Store         ports.RecordStore
	Tables        ports.Tables
	Tokens        *auth.TokenIssuer
	Publisher     ports.EventPublisher
	Metrics       ports.MetricsRecorder
	Specs         map[string]upload.EntitySpec
	Pipelines     map[string]*upload.Pipeline
	AuthService   *services.AuthService
	ClickService  *services.ClickService
	UploadService *services.UploadService
	ExportService *services.ExportService
}
