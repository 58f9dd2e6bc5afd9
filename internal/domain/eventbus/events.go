package eventbus

// Event topics published by the engine.
const (
	EventSampleAccepted = "sample:accepted"
	EventSampleRejected = "sample:rejected"
	EventSampleDeleted  = "sample:deleted"
	EventTrainingReady  = "training:ready"
)

// SampleEventData describes a sample lifecycle event.
type SampleEventData struct {
	UserID   string  `json:"user_id"`
	RecordID string  `json:"record_id,omitempty"`
	Filename string  `json:"filename,omitempty"`
	Duration float64 `json:"duration,omitempty"`
	Quality  float64 `json:"quality,omitempty"`
	Reason   string  `json:"reason,omitempty"`
}

// TrainingEventData reports a readiness transition.
type TrainingEventData struct {
	UserID        string  `json:"user_id"`
	SampleCount   int     `json:"sample_count"`
	TotalDuration float64 `json:"total_duration"`
}
