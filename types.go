package airouter

import "time"

// CostPreference expresses how much the caller cares about spend.
type CostPreference string

const (
	CostLow    CostPreference = "low"
	CostNormal CostPreference = "normal"
	CostHigh   CostPreference = "high"
)

// SpeedPreference expresses how much the caller cares about latency.
type SpeedPreference string

const (
	SpeedFast   SpeedPreference = "fast"
	SpeedNormal SpeedPreference = "normal"
	SpeedSlow   SpeedPreference = "slow"
)

// QualityPreference expresses the minimum acceptable output quality.
type QualityPreference string

const (
	QualityBasic     QualityPreference = "basic"
	QualityGood      QualityPreference = "good"
	QualityExcellent QualityPreference = "excellent"
)

// Preferences is the caller's cost/speed/quality vector for one request.
// Empty values mean "no preference".
type Preferences struct {
	Cost    CostPreference    `json:"cost,omitempty"`
	Speed   SpeedPreference   `json:"speed,omitempty"`
	Quality QualityPreference `json:"quality,omitempty"`
}

// Request is a normalized content-processing request. It is immutable once
// submitted to the Router.
type Request struct {
	// Operation names the processing to perform (e.g. "summarize", "tag",
	// "sentiment"). Opaque to the router; passed through to adapters.
	Operation string `json:"operation"`

	// Payload is the content to process.
	Payload []byte `json:"payload"`

	Preferences Preferences `json:"preferences"`

	// MaxResponseTime is a hard latency ceiling. Providers whose recent
	// average latency exceeds it are excluded from routing, and adapters
	// use it as the per-call timeout. Zero means no ceiling.
	MaxResponseTime time.Duration `json:"max_response_time,omitempty"`

	// MaxCostUnits is a hard cost ceiling. Providers whose per-call cost
	// exceeds it are excluded. Nil means no ceiling.
	MaxCostUnits *float64 `json:"max_cost_units,omitempty"`
}

// Response is what a provider adapter returns on success.
type Response struct {
	Payload []byte
}

// Result is the router's answer for one request.
type Result struct {
	RequestID   string
	ProviderKey string
	Payload     []byte
	Latency     time.Duration
	CostUnits   float64

	// Rank is the position the winning provider occupied in the ranked
	// list for this request (0-based). Observability only.
	Rank int

	// Attempts is the number of provider calls issued for this request,
	// including the winning one.
	Attempts int
}

// Stats is the observability view of one provider's rolling performance.
type Stats struct {
	AverageLatency time.Duration
	SampleCount    int
}

// Float64Ptr returns a pointer to the given float64.
func Float64Ptr(v float64) *float64 { return &v }
