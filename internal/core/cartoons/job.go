// Package cartoons implements the asynchronous cartoon-generation
// pipeline: submission returns immediately with a tracking id, a bounded
// worker pool runs the analyze-compose-generate steps, and cancellation
// is cooperative at fixed checkpoints.
package cartoons

import "time"

// Job statuses. COMPLETED and FAILED are terminal.
const (
	StatusProcessing = "PROCESSING"
	StatusCanceling  = "CANCELING"
	StatusCompleted  = "COMPLETED"
	StatusFailed     = "FAILED"
)

// CancelMessage is the error_message written when a worker observes a
// cancellation request at a checkpoint.
const CancelMessage = "canceled by user"

// MaxUserTextLength bounds the optional story theme.
const MaxUserTextLength = 500

// maxErrorMessageLength caps the failure reason stored on the job and
// forwarded in the CARTOON_FAILED notification.
const maxErrorMessageLength = 200

// Job is one cartoon-generation request and its lifecycle state.
type Job struct {
	JobID            string    `json:"job_id"`
	UserID           string    `json:"user_id"`
	Status           string    `json:"status"`
	OriginalImageURL string    `json:"original_image_url"`
	UserText         string    `json:"user_text,omitempty"`
	ResultImageURL   *string   `json:"result_image_url,omitempty"`
	ErrorMessage     *string   `json:"error_message,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// Terminal reports whether the status admits no further transitions.
func Terminal(status string) bool {
	return status == StatusCompleted || status == StatusFailed
}

// SubmitRequest is the payload for submitting a job.
type SubmitRequest struct {
	OriginalImageURL string `json:"original_image_url"`
	UserText         string `json:"user_text,omitempty"`
}

func truncateError(err error) string {
	msg := err.Error()
	runes := []rune(msg)
	if len(runes) > maxErrorMessageLength {
		return string(runes[:maxErrorMessageLength])
	}
	return msg
}
