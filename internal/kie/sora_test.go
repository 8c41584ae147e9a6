package kie

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"video-gen-bot/internal/models"
)

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) { return f(r) }

func fakeClient(fn roundTripFunc) *http.Client {
	return &http.Client{Transport: fn}
}

func jsonResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(strings.NewReader(body)),
		Header:     http.Header{},
	}
}

func TestSoraCreateTask(t *testing.T) {
	var captured soraCreateRequest
	client := NewSoraClient("https://api.test/createTask", "https://api.test/recordInfo", "key-123",
		fakeClient(func(r *http.Request) (*http.Response, error) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "https://api.test/createTask", r.URL.String())
			assert.Equal(t, "Bearer key-123", r.Header.Get("Authorization"))

			body, err := io.ReadAll(r.Body)
			require.NoError(t, err)
			require.NoError(t, json.Unmarshal(body, &captured))

			return jsonResponse(200, `{"code":200,"data":{"taskId":"task-1"}}`), nil
		}))

	gen := &models.GenerationRequest{
		Model:       "sora-2-pro-image-to-video",
		Prompt:      "a cat surfing",
		Tier:        models.TierSora2Pro,
		Quality:     models.QualityHigh,
		Duration:    models.Duration15s,
		Orientation: models.OrientationPortrait,
		ImageURLs:   []string{"https://files.example/cat.jpg"},
	}

	taskID, err := client.CreateTask(context.Background(), gen)
	require.NoError(t, err)
	assert.Equal(t, "task-1", taskID)

	assert.Equal(t, "sora-2-pro-image-to-video", captured.Model)
	assert.Equal(t, "a cat surfing", captured.Input.Prompt)
	assert.Equal(t, "15", captured.Input.NFrames)
	assert.Equal(t, "portrait", captured.Input.AspectRatio)
	assert.Equal(t, "high", captured.Input.Size)
	assert.True(t, captured.Input.RemoveWatermark)
	assert.Equal(t, []string{"https://files.example/cat.jpg"}, captured.Input.ImageURLs)
}

func TestSoraCreateTaskBaseTierOmitsSize(t *testing.T) {
	var captured soraCreateRequest
	client := NewSoraClient("https://api.test/createTask", "https://api.test/recordInfo", "k",
		fakeClient(func(r *http.Request) (*http.Response, error) {
			body, _ := io.ReadAll(r.Body)
			json.Unmarshal(body, &captured)
			return jsonResponse(200, `{"code":200,"data":{"task_id":"task-snake"}}`), nil
		}))

	gen := &models.GenerationRequest{
		Model:       "sora-2-text-to-video",
		Prompt:      "p",
		Tier:        models.TierSora2,
		Duration:    models.Duration10s,
		Orientation: models.OrientationLandscape,
	}

	taskID, err := client.CreateTask(context.Background(), gen)
	require.NoError(t, err)
	assert.Equal(t, "task-snake", taskID, "snake_case task id is accepted")
	assert.Empty(t, captured.Input.Size)
	assert.Equal(t, "10", captured.Input.NFrames)
	assert.Equal(t, "landscape", captured.Input.AspectRatio)
}

func TestSoraCreateTaskErrors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{"api error code", 200, `{"code":500,"data":{}}`},
		{"http error", 502, `{"code":200,"data":{"taskId":"x"}}`},
		{"no task id", 200, `{"code":200,"data":{}}`},
		{"garbage body", 200, `not json`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := NewSoraClient("https://api.test/createTask", "https://api.test/recordInfo", "k",
				fakeClient(func(r *http.Request) (*http.Response, error) {
					return jsonResponse(tt.status, tt.body), nil
				}))

			_, err := client.CreateTask(context.Background(), &models.GenerationRequest{})
			assert.Error(t, err)
		})
	}
}

func TestSoraTaskStatus(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		wantState TaskState
		wantURL   string
		wantMsg   string
	}{
		{
			name:      "empty record is queued",
			body:      `{"code":200,"data":{}}`,
			wantState: TaskRunning,
		},
		{
			name:      "waiting state",
			body:      `{"code":200,"data":{"state":"wait"}}`,
			wantState: TaskRunning,
		},
		{
			name:      "generating state",
			body:      `{"code":200,"data":{"state":"generating"}}`,
			wantState: TaskRunning,
		},
		{
			name:      "flag zero is running even without state",
			body:      `{"code":200,"data":{"successFlag":0}}`,
			wantState: TaskRunning,
		},
		{
			name:      "running state beats success flag",
			body:      `{"code":200,"data":{"state":"queueing","successFlag":1}}`,
			wantState: TaskRunning,
		},
		{
			name:      "success with direct url",
			body:      `{"code":200,"data":{"state":"success","response":{"videoUrl":"https://v.example/a.mp4"}}}`,
			wantState: TaskSucceeded,
			wantURL:   "https://v.example/a.mp4",
		},
		{
			name:      "success via flag with result urls",
			body:      `{"code":200,"data":{"state":"done","successFlag":1,"response":{"resultUrls":["https://v.example/b.mp4"]}}}`,
			wantState: TaskSucceeded,
			wantURL:   "https://v.example/b.mp4",
		},
		{
			name:      "success with url only in resultJson object",
			body:      `{"code":200,"data":{"state":"success","resultJson":{"resultUrls":["https://v.example/c.mp4"]}}}`,
			wantState: TaskSucceeded,
			wantURL:   "https://v.example/c.mp4",
		},
		{
			name:      "success with string-wrapped resultJson",
			body:      `{"code":200,"data":{"state":"success","resultJson":"{\"result\":\"https://v.example/d.mp4\"}"}}`,
			wantState: TaskSucceeded,
			wantURL:   "https://v.example/d.mp4",
		},
		{
			name:      "success without any url",
			body:      `{"code":200,"data":{"state":"success"}}`,
			wantState: TaskSucceeded,
		},
		{
			name:      "failure with message",
			body:      `{"code":200,"data":{"state":"fail","failMsg":"content policy"}}`,
			wantState: TaskFailed,
			wantMsg:   "content policy",
		},
		{
			name:      "failure falls back to errorMessage",
			body:      `{"code":200,"data":{"state":"fail","errorMessage":"boom"}}`,
			wantState: TaskFailed,
			wantMsg:   "boom",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := NewSoraClient("https://api.test/createTask", "https://api.test/recordInfo", "k",
				fakeClient(func(r *http.Request) (*http.Response, error) {
					assert.Equal(t, "task-1", r.URL.Query().Get("taskId"))
					return jsonResponse(200, tt.body), nil
				}))

			st, err := client.TaskStatus(context.Background(), "task-1")
			require.NoError(t, err)
			assert.Equal(t, tt.wantState, st.State)
			assert.Equal(t, tt.wantURL, st.VideoURL)
			assert.Equal(t, tt.wantMsg, st.FailMsg)
		})
	}
}

func TestSoraTaskStatusTransientErrors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{"http error", 503, `{}`},
		{"api error code", 200, `{"code":422,"data":{}}`},
		{"garbage body", 200, `<html>`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := NewSoraClient("https://api.test/createTask", "https://api.test/recordInfo", "k",
				fakeClient(func(r *http.Request) (*http.Response, error) {
					return jsonResponse(tt.status, tt.body), nil
				}))

			_, err := client.TaskStatus(context.Background(), "task-1")
			assert.Error(t, err)
		})
	}
}

func TestVideoURLFromResultJSON(t *testing.T) {
	assert.Empty(t, videoURLFromResultJSON(nil))
	assert.Empty(t, videoURLFromResultJSON(json.RawMessage(`"not even json inside"`)))
	assert.Equal(t, "https://v.example/x.mp4",
		videoURLFromResultJSON(json.RawMessage(`{"result":"https://v.example/x.mp4"}`)))
	assert.Equal(t, "https://v.example/y.mp4",
		videoURLFromResultJSON(json.RawMessage(`{"resultUrls":["https://v.example/y.mp4","https://v.example/z.mp4"]}`)))
}
