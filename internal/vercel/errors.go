package vercel

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Kind tells a transport failure apart from a rejection by the platform.
type Kind string

const (
	// KindTransport means the request never produced an HTTP response.
	KindTransport Kind = "transport"
	// KindRemote means Vercel answered with a non-success status.
	KindRemote Kind = "remote"
	// KindDecode means a success response could not be decoded.
	KindDecode Kind = "decode"
)

// RequestError describes a failed call against the Vercel API.
type RequestError struct {
	Kind    Kind
	Method  string
	Path    string
	Status  int
	Code    string
	Message string
	Err     error
}

func (e *RequestError) Error() string {
	switch e.Kind {
	case KindRemote:
		msg := e.Message
		if msg == "" {
			msg = http.StatusText(e.Status)
		}
		if e.Code != "" {
			return fmt.Sprintf("vercel: %s %s returned %d (%s): %s", e.Method, e.Path, e.Status, e.Code, msg)
		}
		return fmt.Sprintf("vercel: %s %s returned %d: %s", e.Method, e.Path, e.Status, msg)
	case KindDecode:
		return fmt.Sprintf("vercel: decode %s %s response: %v", e.Method, e.Path, e.Err)
	default:
		return fmt.Sprintf("vercel: %s %s: %v", e.Method, e.Path, e.Err)
	}
}

func (e *RequestError) Unwrap() error { return e.Err }

// IsTransport reports whether err is a network-level failure.
func IsTransport(err error) bool {
	var re *RequestError
	return errors.As(err, &re) && re.Kind == KindTransport
}

// IsRemote reports whether err is a non-success response from Vercel.
func IsRemote(err error) bool {
	var re *RequestError
	return errors.As(err, &re) && re.Kind == KindRemote
}

// StatusCode returns the HTTP status carried by err, or 0.
func StatusCode(err error) int {
	var re *RequestError
	if errors.As(err, &re) {
		return re.Status
	}
	return 0
}

type errorEnvelope struct {
	Error *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func remoteError(method, path string, status int, body []byte) *RequestError {
	re := &RequestError{Kind: KindRemote, Method: method, Path: path, Status: status}
	var env errorEnvelope
	if err := json.Unmarshal(body, &env); err == nil && env.Error != nil {
		re.Code = env.Error.Code
		re.Message = strings.TrimSpace(env.Error.Message)
		return re
	}
	re.Message = strings.TrimSpace(string(body))
	return re
}
