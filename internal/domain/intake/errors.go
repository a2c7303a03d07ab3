package intake

import "errors"

var (
	ErrSessionNotFound = errors.New("intake session not found")
	ErrSessionClosed   = errors.New("intake session already submitted")
	ErrNotAtLastStep   = errors.New("submit is only available on the last step")
)
