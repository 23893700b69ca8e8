// Package main runs the goliath MCP server over stdio, so AI assistants can read the muscle
// catalog, exercises and the signed in user's workouts. It reuses the session stored by
// `goliath login`.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/c7d5a6/goliath/internal"
	"github.com/c7d5a6/goliath/internal/cli"
	"github.com/c7d5a6/goliath/internal/config"
	"github.com/c7d5a6/goliath/internal/logging"
	goliathmcp "github.com/c7d5a6/goliath/internal/mcp"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	log "github.com/sirupsen/logrus"
)

const serviceName = "goliath-mcp"

func main() {
	env := flag.String("env", "development", "environment [prod | production | dev | development]")
	configPath := flag.String("config", "./config.toml", "path to TOML config file")
	flag.Parse()

	cfg, err := config.Load(*env, *configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	// stdout carries the MCP protocol
	logging.Setup(logging.LoggerSetupParams{
		LogFileName:      cfg.LogsPath,
		LogToStdout:      false,
		LogLevel:         cfg.LogLevel,
		LogFormatJSON:    cfg.LogFormatJSON,
		Environment:      cfg.Environment,
		SentryEnabled:    cfg.SentryEnabled,
		SentryDSN:        cfg.SentryDSN,
		SentryServerName: serviceName,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := internal.NewApp(ctx, internal.NewAppParams{
		Config:      cfg,
		ServiceName: serviceName,
	})
	if err != nil {
		log.Fatalf("new app: %v", err)
	}
	defer func() {
		if err := app.Shutdown(); err != nil {
			log.Errorf("shutdown: %s", err)
		}
	}()

	server := goliathmcp.NewServer(app.Client, cli.Version)
	log.Infof("goliath mcp server starting, env [%s]", cfg.Environment)
	if err := server.Run(ctx, &mcp.StdioTransport{}); err != nil && ctx.Err() == nil {
		log.Errorf("mcp server: %s", err)
	}
}
