// Package notify provides progress sinks beyond the HTTP response stream: a
// structured-log sink and an optional SNS fan-out for deployments that want
// publish status on a topic.
package notify

import (
	"context"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sns"

	"carousel-studio/internal/common/logger"
)

// SNSAPI is the subset of the SNS client the sink uses.
type SNSAPI interface {
	Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

// SNSSink forwards each progress message to a topic. Publishing is
// fire-and-forget like every other sink: a delivery failure is logged and
// otherwise ignored, it must never disturb the run.
type SNSSink struct {
	client   SNSAPI
	topicARN string
	logger   logger.Logger
}

func NewSNSSink(ctx context.Context, region, topicARN string, log logger.Logger) (*SNSSink, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, err
	}
	return &SNSSink{
		client:   sns.NewFromConfig(cfg),
		topicARN: topicARN,
		logger:   log,
	}, nil
}

// NewSNSSinkWithClient injects the SNS client directly (tests).
func NewSNSSinkWithClient(client SNSAPI, topicARN string, log logger.Logger) *SNSSink {
	return &SNSSink{client: client, topicARN: topicARN, logger: log}
}

func (s *SNSSink) Notify(message string) {
	_, err := s.client.Publish(context.Background(), &sns.PublishInput{
		TopicArn: &s.topicARN,
		Message:  &message,
	})
	if err != nil {
		s.logger.Warn("sns progress publish failed", map[string]interface{}{
			"error": err.Error(),
		})
	}
}

// LogSink writes each progress message to the structured log.
type LogSink struct {
	logger logger.Logger
}

func NewLogSink(log logger.Logger) *LogSink {
	return &LogSink{logger: log}
}

func (l *LogSink) Notify(message string) {
	l.logger.Info("publish progress", map[string]interface{}{
		"status": message,
	})
}
