package kie

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"video-gen-bot/internal/models"
)

type SoraClient struct {
	createURL  string
	statusURL  string
	apiKey     string
	httpClient *http.Client
}

// NewSoraClient builds a client for the KIE jobs API. A nil httpClient
// falls back to a two-minute-timeout default.
func NewSoraClient(createURL, statusURL, apiKey string, httpClient *http.Client) *SoraClient {
	if httpClient == nil {
		httpClient = defaultHTTPClient()
	}
	return &SoraClient{
		createURL:  createURL,
		statusURL:  statusURL,
		apiKey:     apiKey,
		httpClient: httpClient,
	}
}

type soraInput struct {
	Prompt          string   `json:"prompt"`
	NFrames         string   `json:"n_frames"`
	RemoveWatermark bool     `json:"remove_watermark"`
	AspectRatio     string   `json:"aspect_ratio"`
	ImageURLs       []string `json:"image_urls,omitempty"`
	Size            string   `json:"size,omitempty"`
}

type soraCreateRequest struct {
	Model string    `json:"model"`
	Input soraInput `json:"input"`
}

type soraCreateResponse struct {
	Code int `json:"code"`
	Data struct {
		TaskID      string `json:"taskId"`
		TaskIDSnake string `json:"task_id"`
	} `json:"data"`
}

type soraStatusResponse struct {
	Code int `json:"code"`
	Data struct {
		State       string `json:"state"`
		SuccessFlag *int   `json:"successFlag"`
		Response    struct {
			VideoURL   string   `json:"videoUrl"`
			ResultURLs []string `json:"resultUrls"`
		} `json:"response"`
		ResultJSON   json.RawMessage `json:"resultJson"`
		FailMsg      string          `json:"failMsg"`
		ErrorMessage string          `json:"errorMessage"`
	} `json:"data"`
}

// CreateTask submits a Sora generation and returns the provider task id.
func (c *SoraClient) CreateTask(ctx context.Context, gen *models.GenerationRequest) (string, error) {
	payload := soraCreateRequest{
		Model: gen.Model,
		Input: soraInput{
			Prompt:          gen.Prompt,
			NFrames:         mapFrames(gen.Duration),
			RemoveWatermark: true,
			AspectRatio:     mapAspectRatio(gen.Orientation),
			ImageURLs:       gen.ImageURLs,
		},
	}
	if gen.Tier == models.TierSora2Pro {
		payload.Input.Size = "standard"
		if gen.Quality == models.QualityHigh {
			payload.Input.Size = "high"
		}
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshal createTask payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.createURL, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	authorize(req, c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("createTask request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read createTask response: %w", err)
	}

	var parsed soraCreateResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return "", fmt.Errorf("parse createTask response: %w", err)
	}
	if resp.StatusCode != http.StatusOK || parsed.Code != http.StatusOK {
		return "", fmt.Errorf("createTask rejected: status=%d code=%d", resp.StatusCode, parsed.Code)
	}

	taskID := parsed.Data.TaskID
	if taskID == "" {
		taskID = parsed.Data.TaskIDSnake
	}
	if taskID == "" {
		return "", fmt.Errorf("createTask response has no task id")
	}
	return taskID, nil
}

// TaskStatus fetches one poll record. Any transport, status-code or parse
// problem is returned as an error; the caller treats those as transient.
func (c *SoraClient) TaskStatus(ctx context.Context, taskID string) (*TaskStatus, error) {
	statusURL := c.statusURL + "?taskId=" + url.QueryEscape(taskID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, statusURL, nil)
	if err != nil {
		return nil, err
	}
	authorize(req, c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("recordInfo request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read recordInfo response: %w", err)
	}

	var parsed soraStatusResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return nil, fmt.Errorf("parse recordInfo response: %w", err)
	}
	if resp.StatusCode != http.StatusOK || parsed.Code != http.StatusOK {
		return nil, fmt.Errorf("recordInfo rejected: status=%d code=%d", resp.StatusCode, parsed.Code)
	}

	d := parsed.Data
	state := strings.ToLower(d.State)
	flag := d.SuccessFlag

	// Depending on the record shape either the state string or the
	// numeric flag signals "still generating". The in-progress check runs
	// first: an empty state with no flag is a queued record, not a failure.
	if state == "" || state == "wait" || state == "queueing" || state == "generating" ||
		(flag != nil && *flag == 0) {
		return &TaskStatus{State: TaskRunning}, nil
	}

	if state == "success" || (flag != nil && *flag == 1) {
		return &TaskStatus{State: TaskSucceeded, VideoURL: soraVideoURL(&parsed)}, nil
	}

	failMsg := d.FailMsg
	if failMsg == "" {
		failMsg = d.ErrorMessage
	}
	return &TaskStatus{State: TaskFailed, FailMsg: failMsg}, nil
}

// soraVideoURL extracts the result link, trying the known response shapes
// in precedence order: direct videoUrl, then the resultUrls list, then a
// resultJson document that needs a second parse.
func soraVideoURL(resp *soraStatusResponse) string {
	if u := resp.Data.Response.VideoURL; u != "" {
		return u
	}
	if urls := resp.Data.Response.ResultURLs; len(urls) > 0 {
		return urls[0]
	}
	return videoURLFromResultJSON(resp.Data.ResultJSON)
}

// videoURLFromResultJSON recovers a URL from the embedded resultJson field,
// which arrives either as a JSON object or as a serialized JSON string.
func videoURLFromResultJSON(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}

	doc := []byte(raw)
	var embedded string
	if err := json.Unmarshal(doc, &embedded); err == nil {
		doc = []byte(embedded)
	}

	var rj struct {
		Result     string   `json:"result"`
		ResultURLs []string `json:"resultUrls"`
	}
	if err := json.Unmarshal(doc, &rj); err != nil {
		return ""
	}
	if rj.Result != "" {
		return rj.Result
	}
	if len(rj.ResultURLs) > 0 {
		return rj.ResultURLs[0]
	}
	return ""
}

// mapAspectRatio translates the user-facing orientation into the jobs API
// value: 9:16 is portrait, everything else lands on landscape.
func mapAspectRatio(o models.Orientation) string {
	if o == models.OrientationPortrait {
		return "portrait"
	}
	return "landscape"
}

func mapFrames(duration int) string {
	if duration >= models.Duration15s {
		return "15"
	}
	return "10"
}
