package lmcodec

// DecodeError indicates that encoded proof bytes were malformed.
// Errors from the underlying reader are wrapped separately
// and are not reported as a DecodeError.
type DecodeError struct {
	Reason string
}

func (e DecodeError) Error() string {
	return "invalid proof encoding: " + e.Reason
}
