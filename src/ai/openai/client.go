package openai

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
	defaultEndpoint  = "https://api.openai.com/v1/responses"
	defaultModelName = "gpt-4o-mini"
	defaultMaxTokens = 4096
	defaultTimeout   = 120 * time.Second
)

func init() {
	core.RegisterProvider("openai", newClient, "gpt")
}

type client struct {
	apiKey       string
	endpoint     string
	model        string
	systemPrompt string
	temperature  float64
	maxTokens    int
	httpClient   *http.Client
}

func newClient(cfg core.FactoryConfig) (core.Client, error) {
	if cfg.OpenAIKey == "" {
		return nil, fmt.Errorf("openai: API key not configured")
	}

	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = defaultModelName
	}

	endpoint := defaultEndpoint
	if cfg.Extra != nil && cfg.Extra["endpoint"] != "" {
		endpoint = cfg.Extra["endpoint"]
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	return &client{
		apiKey:       cfg.OpenAIKey,
		endpoint:     endpoint,
		model:        model,
		systemPrompt: cfg.SystemPrompt,
		temperature:  orFloat(cfg.Temperature, 0.2),
		maxTokens:    orInt(cfg.MaxOutputTokens, defaultMaxTokens),
		httpClient:   webclient.NewDefault(timeout),
	}, nil
}

// responseRequest targets the Responses API.
type responseRequest struct {
	Model               string                   `json:"model"`
	Instructions        string                   `json:"instructions,omitempty"`
	Input               []inputItem              `json:"input"`
	Tools               []map[string]interface{} `json:"tools,omitempty"`
	ToolChoice          interface{}              `json:"tool_choice,omitempty"`
	Temperature         float64                  `json:"temperature,omitempty"`
	MaxCompletionTokens int                      `json:"max_completion_tokens,omitempty"`
}

type inputItem struct {
	Role    string         `json:"role"`
	Content []contentBlock `json:"content"`
}

type contentBlock struct {
	Type     string `json:"type"`
	Text     string `json:"text,omitempty"`
	ImageURL string `json:"image_url,omitempty"`
}

type responseOutput struct {
	Output []struct {
		Type    string `json:"type"`
		Role    string `json:"role"`
		Content []struct {
			Type        string `json:"type"`
			Text        string `json:"text"`
			Annotations []struct {
				Type  string `json:"type"`
				Title string `json:"title"`
				URL   string `json:"url"`
			} `json:"annotations,omitempty"`
		} `json:"content"`
	} `json:"output"`
}

func (c *client) Analyze(ctx context.Context, req core.AnalysisRequest) (*types.Verdict, error) {
	prompt := core.BuildPrompt(req.Claim) + "\n\nRespond with a single JSON object carrying exactly these fields: " +
		strings.Join(core.RequiredFields, ", ") + ". No prose outside the JSON."

	content := []contentBlock{{Type: "input_text", Text: prompt}}
	if mime, data, ok := req.ImagePayload(); ok {
		content = append(content, contentBlock{
			Type:     "input_image",
			ImageURL: fmt.Sprintf("data:%s;base64,%s", mime, data),
		})
	}

	request := responseRequest{
		Model:        c.model,
		Instructions: c.systemPrompt,
		Input:        []inputItem{{Role: "user", Content: content}},
		Tools: []map[string]interface{}{
			{"type": "web_search"},
		},
		ToolChoice:          "auto",
		Temperature:         c.temperature,
		MaxCompletionTokens: c.maxTokens,
	}

	result, err := c.send(ctx, request)
	if err != nil {
		return nil, err
	}

	text := result.GetText()
	if text == "" {
		return nil, core.SchemaError(fmt.Errorf("empty response text"))
	}

	verdict, err := core.ParseVerdict([]byte(extractJSON(text)), req.Claim)
	if err != nil {
		return nil, err
	}

	if grounded := result.GroundedSources(); len(grounded) > 0 {
		verdict.Sources = grounded
	}
	return verdict, nil
}

func (c *client) send(ctx context.Context, request responseRequest) (*responseOutput, error) {
	jsonBody, err := json.Marshal(request)
	if err != nil {
		return nil, core.TransportError(fmt.Errorf("marshal request: %w", err))
	}

	headers := map[string]string{"Authorization": "Bearer " + c.apiKey}
	status, body, err := webclient.PostJSON(ctx, c.httpClient, c.endpoint, jsonBody, headers)
	if err != nil {
		return nil, core.TransportError(fmt.Errorf("openai: %w", err))
	}
	if status != http.StatusOK {
		return nil, core.StatusError(status, body)
	}

	var result responseOutput
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, core.SchemaError(fmt.Errorf("openai envelope: %w", err))
	}
	return &result, nil
}

func (r responseOutput) GetText() string {
	var sb strings.Builder
	for _, item := range r.Output {
		if item.Type != "message" || item.Role != "assistant" {
			continue
		}
		for _, c := range item.Content {
			if c.Type == "output_text" && strings.TrimSpace(c.Text) != "" {
				if sb.Len() > 0 {
					sb.WriteString("\n")
				}
				sb.WriteString(c.Text)
			}
		}
	}
	return strings.TrimSpace(sb.String())
}

// GroundedSources collects URL citations attached by the web_search tool.
func (r responseOutput) GroundedSources() []types.Source {
	var out []types.Source
	for _, item := range r.Output {
		for _, c := range item.Content {
			for _, a := range c.Annotations {
				if a.URL == "" {
					continue
				}
				title := a.Title
				if title == "" {
					title = "Medical Source"
				}
				out = append(out, types.Source{Title: title, URL: a.URL})
			}
		}
	}
	return out
}

// extractJSON trims any stray prose around an embedded JSON object.
func extractJSON(text string) string {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start >= 0 && end > start {
		return text[start : end+1]
	}
	return text
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
