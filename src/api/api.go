// File: src/api/api.go

package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Malathy01/LifecodeAI/src/ai/core"
	_ "github.com/Malathy01/LifecodeAI/src/ai/providers"
	"github.com/Malathy01/LifecodeAI/src/api/config"
	"github.com/Malathy01/LifecodeAI/src/api/webserver"
	"github.com/Malathy01/LifecodeAI/src/store"
)

func main() {
	cfg := config.Load()

	analyzer, err := core.NewClient(core.FactoryConfig{
		Provider:     cfg.AI.Provider,
		Model:        cfg.AI.Model,
		SystemPrompt: cfg.AI.SystemPrompt,
		Timeout:      cfg.AITimeout(),
		GeminiKey:    cfg.AI.GeminiKey,
		OpenAIKey:    cfg.AI.OpenAIKey,
	})
	if err != nil {
		log.Fatalf("ai client: %v", err)
	}

	st := store.New(analyzer)
	router := webserver.New(cfg, st)

	httpSrv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: cfg.WriteTimeout(),
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Starting HTTP server on port %s", cfg.Port)
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("http: %v", err)
		}
	}()

	log.Printf("MedCheck API listening on %s (provider: %s)", cfg.Port, cfg.AI.Provider)

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig

	shutCtx, cancelShut := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShut()
	_ = httpSrv.Shutdown(shutCtx)
}
