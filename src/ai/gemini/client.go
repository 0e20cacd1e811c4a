package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/Malathy01/LifecodeAI/src/ai/core"
	"github.com/Malathy01/LifecodeAI/src/types"
	"github.com/Malathy01/LifecodeAI/src/webclient"
)

const (
	defaultBaseURL   = "https://generativelanguage.googleapis.com/v1beta"
	defaultModelName = "gemini-2.5-flash"
	defaultMaxTokens = 4096
	defaultTimeout   = 120 * time.Second
)

func init() {
	core.RegisterProvider("gemini", newClient, "gemini25")
}

type client struct {
	apiKey       string
	baseURL      string
	model        string
	systemPrompt string
	temperature  float64
	maxTokens    int
	httpClient   *http.Client
}

func newClient(cfg core.FactoryConfig) (core.Client, error) {
	if cfg.GeminiKey == "" {
		return nil, fmt.Errorf("gemini: API key not configured")
	}

	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = defaultModelName
	}

	baseURL := defaultBaseURL
	if cfg.Extra != nil && cfg.Extra["endpoint"] != "" {
		baseURL = cfg.Extra["endpoint"]
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	return &client{
		apiKey:       cfg.GeminiKey,
		baseURL:      strings.TrimRight(baseURL, "/"),
		model:        model,
		systemPrompt: cfg.SystemPrompt,
		temperature:  orFloat(cfg.Temperature, 0.2),
		maxTokens:    orInt(cfg.MaxOutputTokens, defaultMaxTokens),
		httpClient:   webclient.NewDefault(timeout),
	}, nil
}

func (c *client) Analyze(ctx context.Context, req core.AnalysisRequest) (*types.Verdict, error) {
	body := c.buildRequestBody(req)
	raw, err := c.send(ctx, body)
	if err != nil {
		return nil, err
	}

	text := raw.FirstText()
	if text == "" {
		return nil, core.SchemaError(fmt.Errorf("empty candidate text"))
	}

	verdict, err := core.ParseVerdict([]byte(text), req.Claim)
	if err != nil {
		return nil, err
	}

	// Search-grounded citations supersede whatever the model generated.
	if grounded := raw.GroundedSources(); len(grounded) > 0 {
		verdict.Sources = grounded
	}
	return verdict, nil
}

func (c *client) buildRequestBody(req core.AnalysisRequest) map[string]interface{} {
	parts := []map[string]interface{}{
		{"text": core.BuildPrompt(req.Claim)},
	}
	if mime, data, ok := req.ImagePayload(); ok {
		parts = append(parts, map[string]interface{}{
			"inlineData": map[string]string{
				"mimeType": mime,
				"data":     data,
			},
		})
	}

	body := map[string]interface{}{
		"contents": []map[string]interface{}{
			{"role": "user", "parts": parts},
		},
		"generationConfig": map[string]interface{}{
			"temperature":      c.temperature,
			"maxOutputTokens":  c.maxTokens,
			"responseMimeType": "application/json",
			"responseSchema":   verdictSchema(),
		},
		"tools": []map[string]interface{}{
			{"googleSearch": map[string]interface{}{}},
		},
	}

	if strings.TrimSpace(c.systemPrompt) != "" {
		body["systemInstruction"] = map[string]interface{}{
			"parts": []map[string]string{
				{"text": c.systemPrompt},
			},
		}
	}

	return body
}

// verdictSchema declares the strict output contract so the model is
// constrained to machine-parseable JSON rather than free text.
func verdictSchema() map[string]interface{} {
	return map[string]interface{}{
		"type": "OBJECT",
		"properties": map[string]interface{}{
			"status": map[string]interface{}{
				"type":        "STRING",
				"description": "One of: TRUE, FALSE, PARTIAL, MISLEADING, UNVERIFIED",
			},
			"summary": map[string]interface{}{
				"type":        "STRING",
				"description": "Detailed scientific explanation with [term: definition] tags.",
			},
			"confidenceScore": map[string]interface{}{"type": "NUMBER"},
			"evidenceCount":   map[string]interface{}{"type": "NUMBER"},
			"sources": map[string]interface{}{
				"type": "ARRAY",
				"items": map[string]interface{}{
					"type": "OBJECT",
					"properties": map[string]interface{}{
						"title": map[string]interface{}{"type": "STRING"},
						"url":   map[string]interface{}{"type": "STRING"},
					},
				},
			},
			"definitions": map[string]interface{}{
				"type": "ARRAY",
				"items": map[string]interface{}{
					"type": "OBJECT",
					"properties": map[string]interface{}{
						"term":        map[string]interface{}{"type": "STRING"},
						"explanation": map[string]interface{}{"type": "STRING"},
					},
				},
			},
			"relatedClaims": map[string]interface{}{
				"type":  "ARRAY",
				"items": map[string]interface{}{"type": "STRING"},
			},
		},
		"required": core.RequiredFields,
	}
}

func (c *client) send(ctx context.Context, payload map[string]interface{}) (*generateContentResponse, error) {
	url := fmt.Sprintf("%s/%s:generateContent?key=%s", c.baseURL, normalizeModel(c.model), c.apiKey)
	bodyBytes, _ := json.Marshal(payload)

	status, body, err := webclient.PostJSON(ctx, c.httpClient, url, bodyBytes, nil)
	if err != nil {
		return nil, core.TransportError(fmt.Errorf("gemini: %w", err))
	}
	if status != http.StatusOK {
		return nil, core.StatusError(status, body)
	}

	var result generateContentResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, core.SchemaError(fmt.Errorf("gemini envelope: %w", err))
	}
	return &result, nil
}

func normalizeModel(model string) string {
	model = strings.TrimSpace(model)
	if model == "" {
		return "models/" + defaultModelName
	}
	if strings.HasPrefix(model, "models/") {
		return model
	}
	return "models/" + model
}

type generateContentResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
		GroundingMetadata struct {
			GroundingChunks []struct {
				Web *struct {
					URI   string `json:"uri"`
					Title string `json:"title"`
				} `json:"web"`
			} `json:"groundingChunks"`
		} `json:"groundingMetadata"`
	} `json:"candidates"`
}

func (r generateContentResponse) FirstText() string {
	for _, candidate := range r.Candidates {
		for _, part := range candidate.Content.Parts {
			if strings.TrimSpace(part.Text) != "" {
				return part.Text
			}
		}
	}
	return ""
}

// GroundedSources extracts citations produced by the model's own search
// step. These point at retrievable pages, unlike generated citations.
func (r generateContentResponse) GroundedSources() []types.Source {
	var out []types.Source
	for _, candidate := range r.Candidates {
		for _, chunk := range candidate.GroundingMetadata.GroundingChunks {
			if chunk.Web == nil || chunk.Web.URI == "" {
				continue
			}
			title := chunk.Web.Title
			if title == "" {
				title = "Medical Source"
			}
			out = append(out, types.Source{Title: title, URL: chunk.Web.URI})
		}
	}
	return out
}

func orInt(v, def int) int {
	if v > 0 {
		return v
	}
	return def
}

func orFloat(v, def float64) float64 {
	if v != 0 {
		return v
	}
	return def
}
