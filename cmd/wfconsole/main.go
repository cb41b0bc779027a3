package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/viant/wfconsole"
	"github.com/viant/wfconsole/internal/console"
	"github.com/viant/wfconsole/service/prompt"
)

func main() {
	configURL := flag.String("config", "", "config URL (YAML or JSON, any afs scheme)")
	engineURL := flag.String("engine", "", "engine base URL, overrides config")
	persona := flag.String("persona", "", "initial persona key")
	eventsPath := flag.String("events", "", "append activity entries as JSON lines to this file")
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	config := wfconsole.DefaultConfig()
	if *configURL != "" {
		loaded, err := wfconsole.LoadConfig(ctx, *configURL)
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}
		config = loaded
	} else {
		config.ApplyEnv()
	}
	if *engineURL != "" {
		config.Engine.BaseURL = *engineURL
	}
	if *persona != "" {
		config.Identity.Persona = *persona
	}
	if *eventsPath != "" {
		config.Activity.FanOut = true
	}

	input := prompt.New(os.Stdin, os.Stdout)
	srv, err := wfconsole.New(wfconsole.WithConfig(config), wfconsole.WithPrompt(input))
	if err != nil {
		log.Fatalf("failed to create console: %v", err)
	}
	defer func() {
		if err := srv.Close(context.Background()); err != nil {
			log.Printf("failed to flush traces: %v", err)
		}
	}()

	if *eventsPath != "" {
		file, err := os.OpenFile(*eventsPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			log.Fatalf("failed to open events file: %v", err)
		}
		defer file.Close()
		go func() {
			if err := console.Follow(ctx, srv.Events(), file); err != nil {
				log.Printf("event follower stopped: %v", err)
			}
		}()
	}

	if err := console.New(srv, input).Run(ctx); err != nil && ctx.Err() == nil {
		log.Printf("console stopped: %v", err)
	}
}
