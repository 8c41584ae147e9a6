package kie

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"net/url"

	"video-gen-bot/internal/models"
)

type VeoClient struct {
	createURL  string
	statusURL  string
	apiKey     string
	httpClient *http.Client
}

func NewVeoClient(createURL, statusURL, apiKey string, httpClient *http.Client) *VeoClient {
	if httpClient == nil {
		httpClient = defaultHTTPClient()
	}
	return &VeoClient{
		createURL:  createURL,
		statusURL:  statusURL,
		apiKey:     apiKey,
		httpClient: httpClient,
	}
}

type veoGenerateRequest struct {
	Prompt            string   `json:"prompt"`
	Model             string   `json:"model"`
	AspectRatio       string   `json:"aspectRatio"`
	EnableTranslation bool     `json:"enableTranslation"`
	GenerationType    string   `json:"generationType"`
	Seeds             int      `json:"seeds"`
	ImageURLs         []string `json:"imageUrls,omitempty"`
}

// veoTaskPayload covers both the top-level response body and the nested
// "data" object, since the API has been seen answering either way, with
// camelCase and snake_case key variants.
type veoTaskPayload struct {
	TaskID          string          `json:"taskId"`
	TaskIDSnake     string          `json:"task_id"`
	VideoURL        string          `json:"videoUrl"`
	VideoURLSnake   string          `json:"video_url"`
	URL             string          `json:"url"`
	Result          string          `json:"result"`
	ResultURLs      []string        `json:"resultUrls"`
	ResultURLsSnake []string        `json:"result_urls"`
	Data            json.RawMessage `json:"data"`
}

type veoStatusResponse struct {
	Code int    `json:"code"`
	Msg  string `json:"msg"`
	Data struct {
		SuccessFlag  *int   `json:"successFlag"`
		ErrorMessage string `json:"errorMessage"`
		Response     struct {
			ResultURLs    []string `json:"resultUrls"`
			VideoURL      string   `json:"videoUrl"`
			VideoURLSnake string   `json:"video_url"`
		} `json:"response"`
	} `json:"data"`
}

// Generate submits a Veo generation. The result carries either the task id
// to poll or, rarely, a direct video URL when the API answers with the
// finished asset.
func (c *VeoClient) Generate(ctx context.Context, gen *models.GenerationRequest) (*SubmitResult, error) {
	payload := veoGenerateRequest{
		Prompt:            gen.Prompt,
		Model:             gen.Model,
		AspectRatio:       string(gen.Orientation),
		EnableTranslation: true,
		GenerationType:    gen.GenerationType,
		Seeds:             10000 + rand.Intn(90000),
		ImageURLs:         gen.ImageURLs,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal veo payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.createURL, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	authorize(req, c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("veo generate request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read veo generate response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("veo generate rejected: status=%d body=%s", resp.StatusCode, truncate(respBody, 300))
	}

	var root veoTaskPayload
	if err := json.Unmarshal(respBody, &root); err != nil {
		return nil, fmt.Errorf("parse veo generate response: %w", err)
	}

	// The interesting fields live either at the top level or one level
	// down inside "data".
	payloadObj := &root
	if len(root.Data) > 0 {
		var nested veoTaskPayload
		if err := json.Unmarshal(root.Data, &nested); err == nil {
			payloadObj = &nested
		}
	}

	result := &SubmitResult{
		TaskID:   firstNonEmpty(payloadObj.TaskID, payloadObj.TaskIDSnake),
		VideoURL: veoDirectURL(payloadObj),
	}
	if result.TaskID == "" && result.VideoURL == "" {
		return nil, fmt.Errorf("veo generate response has neither task id nor video url: %s", truncate(respBody, 300))
	}
	return result, nil
}

// TaskStatus fetches one Veo poll record: successFlag 0 is still
// generating, 1 is done, anything else is a failure.
func (c *VeoClient) TaskStatus(ctx context.Context, taskID string) (*TaskStatus, error) {
	statusURL := c.statusURL + "?taskId=" + url.QueryEscape(taskID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, statusURL, nil)
	if err != nil {
		return nil, err
	}
	authorize(req, c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("veo record-info request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read veo record-info response: %w", err)
	}

	var parsed veoStatusResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return nil, fmt.Errorf("parse veo record-info response: %w", err)
	}
	if resp.StatusCode != http.StatusOK || parsed.Code != http.StatusOK {
		return nil, fmt.Errorf("veo record-info rejected: status=%d code=%d", resp.StatusCode, parsed.Code)
	}

	flag := parsed.Data.SuccessFlag
	if flag != nil && *flag == 0 {
		return &TaskStatus{State: TaskRunning}, nil
	}

	if flag != nil && *flag == 1 {
		r := parsed.Data.Response
		videoURL := ""
		if len(r.ResultURLs) > 0 {
			videoURL = r.ResultURLs[0]
		}
		if videoURL == "" {
			videoURL = firstNonEmpty(r.VideoURL, r.VideoURLSnake)
		}
		return &TaskStatus{State: TaskSucceeded, VideoURL: videoURL}, nil
	}

	failMsg := parsed.Data.ErrorMessage
	if failMsg == "" {
		failMsg = parsed.Msg
	}
	return &TaskStatus{State: TaskFailed, FailMsg: failMsg}, nil
}

func veoDirectURL(p *veoTaskPayload) string {
	if u := firstNonEmpty(p.VideoURL, p.VideoURLSnake, p.URL, p.Result); u != "" {
		return u
	}
	if len(p.ResultURLs) > 0 {
		return p.ResultURLs[0]
	}
	if len(p.ResultURLsSnake) > 0 {
		return p.ResultURLsSnake[0]
	}
	return ""
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "…"
}
