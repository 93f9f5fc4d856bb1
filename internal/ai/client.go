package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// ErrDisabled 이미지 생성 비활성화 상태
var ErrDisabled = errors.New("image generation is disabled")

const defaultTimeout = 60 * time.Second

// ImageClient 이미지 생성 API 클라이언트 (OpenAI 호환 images 엔드포인트).
// 캔버스는 이 클라이언트를 "이미지 페이로드를 만들어 주는 것"으로만 소비한다.
type ImageClient struct {
	apiKey  string
	baseURL string
	model   string
	client  *http.Client
}

// NewImageClient ImageClient 생성
func NewImageClient(apiKey, baseURL, model string) *ImageClient {
	if baseURL == "" {
		baseURL = "https://api.openai.com/v1"
	}
	return &ImageClient{
		apiKey:  apiKey,
		baseURL: baseURL,
		model:   model,
		client:  &http.Client{Timeout: defaultTimeout},
	}
}

// Enabled API 키가 설정되어 있는지
func (c *ImageClient) Enabled() bool {
	return c.apiKey != ""
}

type imageRequest struct {
	Model          string `json:"model"`
	Prompt         string `json:"prompt"`
	N              int    `json:"n"`
	Size           string `json:"size"`
	ResponseFormat string `json:"response_format"`
}

type imageResponse struct {
	Data []struct {
		B64JSON string `json:"b64_json"`
	} `json:"data"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error,omitempty"`
}

// GeneratedImage 생성 결과. Data는 base64 인코딩된 페이로드.
type GeneratedImage struct {
	Data     string
	MimeType string
}

// Generate 프롬프트와 스타일로 이미지 한 장을 생성한다.
// 실패 시 보드는 건드리지 않고 에러만 호출자에게 돌려준다.
func (c *ImageClient) Generate(ctx context.Context, prompt, style string) (*GeneratedImage, error) {
	if !c.Enabled() {
		return nil, ErrDisabled
	}

	fullPrompt := prompt
	if style != "" {
		fullPrompt = fmt.Sprintf("%s, %s style", prompt, style)
	}

	req := imageRequest{
		Model:          c.model,
		Prompt:         fullPrompt,
		N:              1,
		Size:           "1024x1024",
		ResponseFormat: "b64_json",
	}

	reqBody, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/images/generations", bytes.NewReader(reqBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("image generation request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	var imgResp imageResponse
	if err := json.Unmarshal(body, &imgResp); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		if imgResp.Error != nil {
			return nil, fmt.Errorf("image generation failed: %s", imgResp.Error.Message)
		}
		return nil, fmt.Errorf("image generation failed: status %d", resp.StatusCode)
	}

	if len(imgResp.Data) == 0 {
		return nil, errors.New("image generation returned no data")
	}

	return &GeneratedImage{
		Data:     imgResp.Data[0].B64JSON,
		MimeType: "image/png",
	}, nil
}
