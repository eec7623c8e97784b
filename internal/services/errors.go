package services

import (
	"errors"
	"fmt"
)

// Sentinel errors for every pipeline failure class.
var (
	ErrSaturated           = errors.New("analyzer: system saturated, retry later")
	ErrAccountNotFound     = errors.New("analyzer: account not found")
	ErrInsufficientCredits = errors.New("analyzer: insufficient credits")
	ErrDailyLimitReached   = errors.New("analyzer: daily usage limit reached")
	ErrInvalidDocument     = errors.New("analyzer: document is not a readable PDF")
	ErrArtifactUpload      = errors.New("analyzer: artifact upload failed")
	ErrArtifactProcessing  = errors.New("analyzer: provider failed to process artifact")
	ErrArtifactTimeout     = errors.New("analyzer: timed out waiting for artifact to become ready")
	ErrInferenceFailed     = errors.New("analyzer: inference call failed")
	ErrMalformedOutput     = errors.New("analyzer: provider returned malformed output")
)

// ErrorKind classifies a failure for the transport layer.
type ErrorKind string

const (
	KindSaturated       ErrorKind = "saturated"
	KindUnauthorized    ErrorKind = "unauthorized"
	KindQuotaExceeded   ErrorKind = "quota_exceeded"
	KindInvalidDocument ErrorKind = "invalid_document"
	KindUpstreamFailure ErrorKind = "upstream_failure"
	KindMalformedOutput ErrorKind = "malformed_output"
	KindInternal        ErrorKind = "internal"
)

// PipelineError wraps a pipeline failure with its classification and, for
// malformed provider output, the raw text for diagnosis.
type PipelineError struct {
	Kind      ErrorKind
	Err       error
	RawOutput string
}

func (e *PipelineError) Error() string {
	return fmt.Sprintf("analysis pipeline (%s): %v", e.Kind, e.Err)
}

func (e *PipelineError) Unwrap() error {
	return e.Err
}

// Classify maps an error to its kind. Unrecognized errors are internal.
func Classify(err error) ErrorKind {
	switch {
	case errors.Is(err, ErrSaturated):
		return KindSaturated
	case errors.Is(err, ErrAccountNotFound):
		return KindUnauthorized
	case errors.Is(err, ErrInsufficientCredits), errors.Is(err, ErrDailyLimitReached):
		return KindQuotaExceeded
	case errors.Is(err, ErrInvalidDocument):
		return KindInvalidDocument
	case errors.Is(err, ErrArtifactUpload),
		errors.Is(err, ErrArtifactProcessing),
		errors.Is(err, ErrArtifactTimeout),
		errors.Is(err, ErrInferenceFailed):
		return KindUpstreamFailure
	case errors.Is(err, ErrMalformedOutput):
		return KindMalformedOutput
	default:
		return KindInternal
	}
}
