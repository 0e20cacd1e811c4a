package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Malathy01/LifecodeAI/src/ai/core"
)

const verdictJSON = `{
	"status": "PARTIAL",
	"summary": "Mixed evidence.",
	"confidenceScore": 55,
	"evidenceCount": 12,
	"sources": [{"title": "Generated", "url": "https://generated.example"}],
	"definitions": [],
	"relatedClaims": ["Zinc", "Echinacea"]
}`

func newTestClient(t *testing.T, handler http.HandlerFunc) (core.Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c, err := newClient(core.FactoryConfig{
		GeminiKey: "test-key",
		Extra:     map[string]string{"endpoint": srv.URL},
	})
	if err != nil {
		t.Fatalf("newClient: %v", err)
	}
	return c, srv
}

func candidateResponse(text string, grounding string) string {
	resp := `{"candidates":[{"content":{"parts":[{"text":` + mustMarshal(text) + `}]}`
	if grounding != "" {
		resp += `,"groundingMetadata":{"groundingChunks":` + grounding + `}`
	}
	return resp + `}]}`
}

func mustMarshal(s string) string {
	b, _ := json.Marshal(s)
	return string(b)
}

func TestAnalyzeRequestShape(t *testing.T) {
	t.Parallel()

	var captured map[string]interface{}
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&captured); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.Write([]byte(candidateResponse(verdictJSON, "")))
	})

	_, err := c.Analyze(context.Background(), core.AnalysisRequest{
		Claim:     "Vitamin C cures colds",
		ImageData: "data:image/png;base64,aGVsbG8=",
	})
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}

	raw, _ := json.Marshal(captured)
	body := string(raw)

	if !strings.Contains(body, "Vitamin C cures colds") {
		t.Fatal("prompt must embed the claim text")
	}
	if !strings.Contains(body, `"googleSearch"`) {
		t.Fatal("request must enable the googleSearch tool")
	}
	if !strings.Contains(body, `"responseSchema"`) || !strings.Contains(body, `"relatedClaims"`) {
		t.Fatal("request must declare the output schema")
	}
	if strings.Contains(body, "data:image/png") {
		t.Fatal("data-URI prefix must be stripped before transmission")
	}
	if !strings.Contains(body, `"mimeType":"image/png"`) || !strings.Contains(body, `"data":"aGVsbG8="`) {
		t.Fatal("inline image must declare its media type and bare payload")
	}
}

func TestGroundedCitationsReplaceSources(t *testing.T) {
	t.Parallel()

	grounding := `[{"web":{"uri":"https://pubmed.example/1","title":"A"}},{"web":{"uri":"https://who.example/2","title":""}}]`
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(candidateResponse(verdictJSON, grounding)))
	})

	v, err := c.Analyze(context.Background(), core.AnalysisRequest{Claim: "claim"})
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if len(v.Sources) != 2 {
		t.Fatalf("sources = %+v, want the 2 grounded citations", v.Sources)
	}
	if v.Sources[0].URL != "https://pubmed.example/1" || v.Sources[0].Title != "A" {
		t.Fatalf("first grounded source wrong: %+v", v.Sources[0])
	}
	if v.Sources[1].Title != "Medical Source" {
		t.Fatalf("untitled grounded source must get the fallback title, got %q", v.Sources[1].Title)
	}
}

func TestSourcesPassThroughWithoutGrounding(t *testing.T) {
	t.Parallel()

	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(candidateResponse(verdictJSON, "")))
	})

	v, err := c.Analyze(context.Background(), core.AnalysisRequest{Claim: "claim"})
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if len(v.Sources) != 1 || v.Sources[0].URL != "https://generated.example" {
		t.Fatalf("schema sources must pass through verbatim, got %+v", v.Sources)
	}
	if v.Claim != "claim" {
		t.Fatalf("claim not attached: %q", v.Claim)
	}
}

func TestAnalyzeErrorKinds(t *testing.T) {
	t.Parallel()

	t.Run("non-2xx", func(t *testing.T) {
		c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "overloaded", http.StatusServiceUnavailable)
		})
		_, err := c.Analyze(context.Background(), core.AnalysisRequest{Claim: "c"})
		if got := kindOf(t, err); got != core.ErrBadStatus {
			t.Fatalf("kind = %v, want status", got)
		}
	})

	t.Run("free text instead of schema", func(t *testing.T) {
		c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(candidateResponse("the claim is probably true", "")))
		})
		_, err := c.Analyze(context.Background(), core.AnalysisRequest{Claim: "c"})
		if got := kindOf(t, err); got != core.ErrSchema {
			t.Fatalf("kind = %v, want schema", got)
		}
	})

	t.Run("empty candidates", func(t *testing.T) {
		c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"candidates":[]}`))
		})
		_, err := c.Analyze(context.Background(), core.AnalysisRequest{Claim: "c"})
		if got := kindOf(t, err); got != core.ErrSchema {
			t.Fatalf("kind = %v, want schema", got)
		}
	})

	t.Run("unreachable", func(t *testing.T) {
		c, srv := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {})
		srv.Close()
		_, err := c.Analyze(context.Background(), core.AnalysisRequest{Claim: "c"})
		if got := kindOf(t, err); got != core.ErrTransport {
			t.Fatalf("kind = %v, want transport", got)
		}
	})
}

func kindOf(t *testing.T, err error) core.ErrorKind {
	t.Helper()
	var aerr *core.AnalysisError
	if !errors.As(err, &aerr) {
		t.Fatalf("error = %v, want *core.AnalysisError", err)
	}
	return aerr.Kind
}
