package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/mark3labs/mcp-go/server"

	"github.com/nguyentantai21042004/scribe/internal/broadcast"
	"github.com/nguyentantai21042004/scribe/internal/config"
	"github.com/nguyentantai21042004/scribe/internal/gemini"
	"github.com/nguyentantai21042004/scribe/internal/logger"
	"github.com/nguyentantai21042004/scribe/internal/mcpserver"
	"github.com/nguyentantai21042004/scribe/internal/store"
	"github.com/nguyentantai21042004/scribe/internal/summarizer"
)

// scribe-mcp serves the session database to MCP clients over stdio. Stdout
// carries the protocol, so logs go to stderr.
func main() {
	configPath := flag.String("config", "config.yaml", "Path to configuration file")
	flag.Parse()

	ctx := context.Background()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	log := logger.NewWriter(os.Stderr, cfg.Logging.Level, cfg.Logging.Format)

	st, err := store.Open(cfg.Database.Driver, cfg.Database.DSN)
	if err != nil {
		log.Error(ctx, "Failed to open database: %v", err)
		os.Exit(1)
	}
	defer st.Close()

	client, err := gemini.New(ctx, cfg.Gemini.APIKeys, log)
	if err != nil {
		log.Error(ctx, "Failed to create Gemini client: %v", err)
		os.Exit(1)
	}

	// Events raised here have no subscribers in this process; live viewers
	// pick up the result from the stored session.
	hub := broadcast.New(log, nil)
	sum := summarizer.New(st, client, hub, nil, nil, cfg.Gemini.SummaryModel, cfg.Paths.Temp, log)

	log.Info(ctx, "Scribe MCP server ready on stdio")
	if err := server.ServeStdio(mcpserver.New(st, sum, log)); err != nil {
		log.Error(ctx, "MCP server error: %v", err)
		os.Exit(1)
	}
}
