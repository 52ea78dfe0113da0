package observability

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"
	"go.uber.org/zap"
)

// Metrics emits operational metrics to CloudWatch. Every call is
// best-effort: failures are logged and swallowed so metrics can never fail
// a request.
type Metrics struct {
	client    *cloudwatch.Client
	namespace string
	logger    *zap.Logger
}

// NewMetrics creates a CloudWatch metrics recorder.
func NewMetrics(client *cloudwatch.Client, namespace string, logger *zap.Logger) *Metrics {
	return &Metrics{client: client, namespace: namespace, logger: logger}
}

// RecordUpload emits the per-upload tallies dimensioned by entity.
func (m *Metrics) RecordUpload(ctx context.Context, entity string, processed, inserted, updated, failed int) {
	dimensions := []types.Dimension{
		{Name: aws.String("Entity"), Value: aws.String(entity)},
	}
	m.put(ctx, []types.MetricDatum{
		datum("UploadRowsProcessed", processed, dimensions),
		datum("UploadRowsInserted", inserted, dimensions),
		datum("UploadRowsUpdated", updated, dimensions),
		datum("UploadRowErrors", failed, dimensions),
	})
}

// RecordClick emits one click and any marks it awarded, dimensioned by game.
func (m *Metrics) RecordClick(ctx context.Context, gameID string, marksAwarded int) {
	dimensions := []types.Dimension{
		{Name: aws.String("GameID"), Value: aws.String(gameID)},
	}
	data := []types.MetricDatum{datum("GameClicks", 1, dimensions)}
	if marksAwarded > 0 {
		data = append(data, datum("MarksAwarded", marksAwarded, dimensions))
	}
	m.put(ctx, data)
}

func (m *Metrics) put(ctx context.Context, data []types.MetricDatum) {
	_, err := m.client.PutMetricData(ctx, &cloudwatch.PutMetricDataInput{
		Namespace:  aws.String(m.namespace),
		MetricData: data,
	})
	if err != nil {
		m.logger.Warn("Failed to put metric data", zap.Error(err))
	}
}

func datum(name string, value int, dimensions []types.Dimension) types.MetricDatum {
	return types.MetricDatum{
		MetricName: aws.String(name),
		Value:      aws.Float64(float64(value)),
		Unit:       types.StandardUnitCount,
		Dimensions: dimensions,
	}
}
