package meter

import (
	"log/slog"

	"github.com/notevault/airouter"
)

// LogMeter logs routing events using slog.
type LogMeter struct {
	Logger *slog.Logger
}

var _ airouter.Meter = (*LogMeter)(nil)

// NewLogMeter creates a LogMeter with the given logger.
// If logger is nil, slog.Default() is used.
func NewLogMeter(logger *slog.Logger) *LogMeter {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogMeter{Logger: logger}
}

func (m *LogMeter) OnRoute(e airouter.RouteEvent) {
	m.Logger.Info("route",
		"request_id", e.RequestID,
		"provider", e.Provider,
		"operation", e.Operation,
		"rank", e.Rank,
		"mode", string(e.Mode),
	)
}

func (m *LogMeter) OnResult(e airouter.ResultEvent) {
	if e.Cancelled {
		m.Logger.Info("result_cancelled",
			"request_id", e.RequestID,
			"provider", e.Provider,
			"operation", e.Operation,
			"duration_ms", e.Duration.Milliseconds(),
		)
		return
	}
	if e.Success {
		m.Logger.Info("result",
			"request_id", e.RequestID,
			"provider", e.Provider,
			"operation", e.Operation,
			"duration_ms", e.Duration.Milliseconds(),
			"cost_units", e.CostUnits,
		)
	} else {
		m.Logger.Warn("result_error",
			"request_id", e.RequestID,
			"provider", e.Provider,
			"operation", e.Operation,
			"duration_ms", e.Duration.Milliseconds(),
			"error", e.Error,
		)
	}
}
