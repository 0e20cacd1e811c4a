package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Malathy01/LifecodeAI/src/ai/core"
)

const verdictJSON = `{"status":"TRUE","summary":"Well supported.","confidenceScore":88,"evidenceCount":30,"sources":[{"title":"Generated","url":"https://generated.example"}],"definitions":[],"relatedClaims":["Hydration"]}`

func newTestClient(t *testing.T, handler http.HandlerFunc) core.Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c, err := newClient(core.FactoryConfig{
		OpenAIKey: "test-key",
		Extra:     map[string]string{"endpoint": srv.URL},
	})
	if err != nil {
		t.Fatalf("newClient: %v", err)
	}
	return c
}

func messageResponse(text string, annotations string) string {
	if annotations == "" {
		annotations = "[]"
	}
	return `{"output":[{"type":"message","role":"assistant","content":[{"type":"output_text","text":` + mustMarshal(text) + `,"annotations":` + annotations + `}]}]}`
}

func mustMarshal(s string) string {
	b, _ := json.Marshal(s)
	return string(b)
}

func TestAnalyzeParsesStructuredOutput(t *testing.T) {
	t.Parallel()

	var captured map[string]interface{}
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if auth := r.Header.Get("Authorization"); auth != "Bearer test-key" {
			t.Errorf("missing bearer auth, got %q", auth)
		}
		if err := json.NewDecoder(r.Body).Decode(&captured); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.Write([]byte(messageResponse(verdictJSON, "")))
	})

	v, err := c.Analyze(context.Background(), core.AnalysisRequest{Claim: "Drinking water helps headaches"})
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if v.Claim != "Drinking water helps headaches" || v.ConfidenceScore != 88 {
		t.Fatalf("verdict wrong: %+v", v)
	}

	raw, _ := json.Marshal(captured)
	if !strings.Contains(string(raw), `"web_search"`) {
		t.Fatal("request must enable the web_search tool")
	}
	if !strings.Contains(string(raw), "Drinking water helps headaches") {
		t.Fatal("prompt must embed the claim text")
	}
}

func TestAnnotationsBecomeGroundedSources(t *testing.T) {
	t.Parallel()

	annotations := `[{"type":"url_citation","title":"WHO","url":"https://who.example/fact"}]`
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(messageResponse(verdictJSON, annotations)))
	})

	v, err := c.Analyze(context.Background(), core.AnalysisRequest{Claim: "claim"})
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if len(v.Sources) != 1 || v.Sources[0].URL != "https://who.example/fact" || v.Sources[0].Title != "WHO" {
		t.Fatalf("annotations must replace generated sources, got %+v", v.Sources)
	}
}

func TestAnalyzeToleratesSurroundingProse(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(messageResponse("Here is the result:\n"+verdictJSON+"\nLet me know!", "")))
	})

	v, err := c.Analyze(context.Background(), core.AnalysisRequest{Claim: "claim"})
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if v.Status != "TRUE" {
		t.Fatalf("status = %s", v.Status)
	}
}
