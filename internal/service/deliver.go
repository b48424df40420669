package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"undangan/rsvphub/internal/metrics"
)

type instrumentedSender struct {
	next   MessageSender
	logger *zap.Logger
}

// WithInstrumentation records delivery metrics and logs failures around next.
func WithInstrumentation(next MessageSender, logger *zap.Logger) MessageSender {
	return &instrumentedSender{next: next, logger: logger}
}

func (s *instrumentedSender) Send(ctx context.Context, phone, message string) error {
	start := time.Now()
	err := s.next.Send(ctx, phone, message)

	result := metrics.ResultOK
	if err != nil {
		result = metrics.ResultFailed
		s.logger.Warn("whatsapp delivery failed", zap.String("phone", phone), zap.Error(err))
	}
	metrics.WADeliveries.WithLabelValues(result).Inc()
	metrics.WADuration.WithLabelValues(result).Observe(time.Since(start).Seconds())
	return err
}
