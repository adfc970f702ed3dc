package meter

import "github.com/notevault/airouter"

// NoopMeter is a meter that does nothing.
type NoopMeter struct{}

var _ airouter.Meter = (*NoopMeter)(nil)

func (m *NoopMeter) OnRoute(airouter.RouteEvent)   {}
func (m *NoopMeter) OnResult(airouter.ResultEvent) {}
