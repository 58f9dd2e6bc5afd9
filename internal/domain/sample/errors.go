package sample

import (
	"errors"
	"fmt"
)

// RejectionCode identifies why a sample failed validation. Codes are stable
// strings surfaced to callers and logs.
type RejectionCode string

const (
	CodeTooShort            RejectionCode = "too_short"
	CodeTooLong             RejectionCode = "too_long"
	CodeExcessNoise         RejectionCode = "excess_noise"
	CodeLowQuality          RejectionCode = "low_quality"
	CodeInsufficientVoice   RejectionCode = "insufficient_voice_content"
	CodeInsufficientVariety RejectionCode = "insufficient_variety"
	CodeUnsupportedFormat   RejectionCode = "unsupported_format"
)

// RejectionError reports a failed validation check. It is a policy outcome,
// not a system fault: the audio decoded fine but does not meet the
// acceptance thresholds.
type RejectionError struct {
	Code    RejectionCode
	Message string
}

func (e *RejectionError) Error() string {
	return fmt.Sprintf("sample rejected (%s): %s", e.Code, e.Message)
}

func reject(code RejectionCode, format string, args ...interface{}) *RejectionError {
	return &RejectionError{Code: code, Message: fmt.Sprintf(format, args...)}
}

// IsRejection reports whether err is a validation rejection, returning the
// code when it is.
func IsRejection(err error) (RejectionCode, bool) {
	var re *RejectionError
	if errors.As(err, &re) {
		return re.Code, true
	}
	return "", false
}
