package main

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"flag"
	"log"
	"os"
	"time"

	"github.com/Malathy01/LifecodeAI/src/ai/core"
	_ "github.com/Malathy01/LifecodeAI/src/ai/providers"
	"github.com/Malathy01/LifecodeAI/src/api/config"
)

var (
	providerFlag = flag.String("provider", "gemini", "Analysis provider (gemini|openai)")
	modelFlag    = flag.String("model", "", "Override model name")
	claimFlag    = flag.String("claim", "Vitamin C cures the common cold", "Claim text to analyze")
	imageFlag    = flag.String("image", "", "Path to an image file to attach")
	timeoutFlag  = flag.Duration("timeout", 90*time.Second, "Request timeout")
)

func main() {
	log.SetFlags(0)
	flag.Parse()

	cfg := config.Load()

	client, err := core.NewClient(core.FactoryConfig{
		Provider:     *providerFlag,
		Model:        pickFirst(*modelFlag, cfg.AI.Model),
		SystemPrompt: cfg.AI.SystemPrompt,
		Timeout:      *timeoutFlag,
		GeminiKey:    cfg.AI.GeminiKey,
		OpenAIKey:    cfg.AI.OpenAIKey,
	})
	if err != nil {
		log.Fatalf("client: %v", err)
	}

	req := core.AnalysisRequest{Claim: *claimFlag}
	if *imageFlag != "" {
		raw, err := os.ReadFile(*imageFlag)
		if err != nil {
			log.Fatalf("read image: %v", err)
		}
		req.ImageData = base64.StdEncoding.EncodeToString(raw)
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeoutFlag)
	defer cancel()

	verdict, err := client.Analyze(ctx, req)
	if err != nil {
		log.Fatalf("analyze: %v", err)
	}

	out, _ := json.MarshalIndent(verdict, "", "  ")
	log.Printf("%s", out)
}

func pickFirst(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
