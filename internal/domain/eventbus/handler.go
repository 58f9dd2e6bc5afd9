package eventbus

import (
	"github.com/bytedance/sonic"

	"voiceforge/internal/platform/logging"
)

const logTag = "EVENT"

// LoggingHandler writes every lifecycle event to the structured log. It is
// the default subscriber wired at bootstrap.
type LoggingHandler struct {
	logger *logging.Logger
}

func NewLoggingHandler(logger *logging.Logger) *LoggingHandler {
	return &LoggingHandler{logger: logger}
}

// Register subscribes the handler to every engine topic on the bus.
func (h *LoggingHandler) Register(bus interface {
	Subscribe(topic string, fn interface{}) error
}) error {
	for _, topic := range []string{
		EventSampleAccepted,
		EventSampleRejected,
		EventSampleDeleted,
	} {
		topic := topic
		if err := bus.Subscribe(topic, func(data SampleEventData) {
			h.logSample(topic, data)
		}); err != nil {
			return err
		}
	}
	return bus.Subscribe(EventTrainingReady, h.logTraining)
}

func (h *LoggingHandler) logSample(topic string, data SampleEventData) {
	payload, err := sonic.MarshalString(data)
	if err != nil {
		payload = data.UserID
	}
	h.logger.InfoTag(logTag, "%s %s", topic, payload)
}

func (h *LoggingHandler) logTraining(data TrainingEventData) {
	h.logger.InfoTag(logTag, "%s user=%s samples=%d duration=%.0fs",
		EventTrainingReady, data.UserID, data.SampleCount, data.TotalDuration)
}
