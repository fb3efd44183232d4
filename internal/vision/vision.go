package vision

import (
	"context"
	"encoding/base64"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

// Extractor pulls text out of an image. The production implementation calls
// the Google Vision REST API, tests substitute their own.
type Extractor interface {
	ExtractText(ctx context.Context, image []byte) (string, error)
}

type GoogleVision struct {
	http   *resty.Client
	apiKey string
}

func NewGoogleVision(apiKey string) *GoogleVision {
	c := resty.New().
		SetBaseURL("https://vision.googleapis.com").
		SetTimeout(10 * time.Second)
	return &GoogleVision{http: c, apiKey: apiKey}
}

type annotateResponse struct {
	Responses []struct {
		FullTextAnnotation struct {
			Text string `json:"text"`
		} `json:"fullTextAnnotation"`
		Error *struct {
			Message string `json:"message"`
		} `json:"error"`
	} `json:"responses"`
}

func (g *GoogleVision) ExtractText(ctx context.Context, image []byte) (string, error) {
	body := map[string]interface{}{
		"requests": []map[string]interface{}{{
			"image":    map[string]string{"content": base64.StdEncoding.EncodeToString(image)},
			"features": []map[string]string{{"type": "TEXT_DETECTION"}},
		}},
	}

	var parsed annotateResponse
	res, err := g.http.R().
		SetContext(ctx).
		SetQueryParam("key", g.apiKey).
		SetBody(body).
		SetResult(&parsed).
		Post("/v1/images:annotate")
	if err != nil {
		return "", fmt.Errorf("vision: request failed: %w", err)
	}
	if res.IsError() {
		return "", fmt.Errorf("vision: status %d", res.StatusCode())
	}
	if len(parsed.Responses) == 0 {
		return "", fmt.Errorf("vision: empty response")
	}
	if e := parsed.Responses[0].Error; e != nil {
		return "", fmt.Errorf("vision: %s", e.Message)
	}
	return parsed.Responses[0].FullTextAnnotation.Text, nil
}
