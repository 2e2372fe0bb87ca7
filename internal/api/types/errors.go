package types

import (
	"errors"

	appErr "github.com/vercel-bot/engine/pkg/errors"
)

// FromAppError converts any error into the JSON error body.
func FromAppError(err error) *APIError {
	if err == nil {
		return nil
	}
	var e *appErr.AppError
	if errors.As(err, &e) {
		return &APIError{Code: string(e.Code), Message: e.Message}
	}
	return &APIError{Code: string(appErr.CodeUnknown), Message: err.Error()}
}
