package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	assistantcmd "github.com/vbamtools/campaignstore/internal/cmd/assistant"
	"github.com/vbamtools/campaignstore/internal/platform/config"
)

func main() {
	if err := config.LoadDotEnv(""); err != nil {
		config.Exitf("load .env: %v", err)
	}
	cfg, args, err := assistantcmd.ParseConfig(flag.CommandLine, os.Args[1:])
	if err != nil {
		config.Exitf("parse flags: %v", err)
	}
	log.SetPrefix("[ASSISTANT] ")
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := assistantcmd.Run(ctx, cfg, args, os.Stdout); err != nil {
		log.Fatalf("assistant: %v", err)
	}
}
