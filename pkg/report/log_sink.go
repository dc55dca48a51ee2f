package report

import (
	"go.uber.org/zap"

	"github.com/joripage/lob-engine/pkg/logging"
)

// LogSink writes one structured entry per fill.
type LogSink struct {
	logger *logging.Logger
}

func NewLogSink(logger *logging.Logger, symbol string) *LogSink {
	return &LogSink{logger: logger.Named("fills").With(zap.String("symbol", symbol))}
}

func (s *LogSink) OnFill(orderID uint64, price float64, qty int64) {
	s.logger.Info("order filled",
		zap.Uint64("order_id", orderID),
		zap.Float64("price", price),
		zap.Int64("qty", qty),
		zap.String("notional", Notional(price, qty).String()),
	)
}
