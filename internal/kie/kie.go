// Package kie wraps the KIE video generation API: the jobs endpoints used
// for Sora and the dedicated Veo endpoints. Both clients submit a task and
// poll its record until a terminal state.
package kie

import (
	"net/http"
	"time"
)

type TaskState int

const (
	// TaskRunning covers queued and generating records.
	TaskRunning TaskState = iota
	// TaskSucceeded means the provider reports completion. VideoURL may
	// still be empty if no known response shape carried a link.
	TaskSucceeded
	// TaskFailed is a provider-reported failure.
	TaskFailed
)

// TaskStatus is one parsed poll response.
type TaskStatus struct {
	State    TaskState
	VideoURL string
	FailMsg  string
}

// SubmitResult is the outcome of a Veo submission. The API normally
// returns a task id, but can occasionally answer with a finished video URL
// directly.
type SubmitResult struct {
	TaskID   string
	VideoURL string
}

func defaultHTTPClient() *http.Client {
	return &http.Client{
		Timeout: time.Minute * 2,
	}
}

func authorize(req *http.Request, apiKey string) {
	req.Header.Set("Authorization", "Bearer "+apiKey)
	req.Header.Set("Content-Type", "application/json")
}
