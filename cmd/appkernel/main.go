package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sort"
	"syscall"

	"github.com/alecthomas/kingpin/v2"
	"go.uber.org/zap"

	"github.com/eugenenazirov/appkernel/internal/application"
	"github.com/eugenenazirov/appkernel/internal/config"
	"github.com/eugenenazirov/appkernel/internal/globals"
	"github.com/eugenenazirov/appkernel/internal/logging"
)

var signalNotify = signal.Notify

func main() {
	kingpinApp := kingpin.New("appkernel", "Loads an environment config and composes the shared globals of its applications")
	env := kingpinApp.Flag("env", "Environment whose config.<env>.yaml|json is loaded").String()
	workdir := kingpinApp.Flag("workdir", "Directory holding the config files").String()
	logLevel := kingpinApp.Flag("log-level", "Bootstrap log level (TRACE, DEBUG, INFO, WARN, ERROR, SILENT)").String()
	logFormat := kingpinApp.Flag("log-format", "Bootstrap log format (json, simple, full)").String()
	searchParents := kingpinApp.Flag("search-parents", "Look for the config file in parent directories").Bool()
	wait := kingpinApp.Flag("wait", "Keep running until SIGINT or SIGTERM after composing").Bool()

	kingpin.MustParse(kingpinApp.Parse(os.Args[1:]))

	settings, err := config.LoadSettings(&config.CLIOverrides{
		Environment:      env,
		WorkingDirectory: workdir,
		LogLevel:         logLevel,
		LogFormat:        logFormat,
	})
	if err != nil {
		panic(fmt.Sprintf("failed to load settings: %v", err))
	}

	logger, err := logging.New(settings.LogLevel, settings.LogFormat)
	if err != nil {
		panic(fmt.Sprintf("failed to initialize logger: %v", err))
	}
	defer func() {
		_ = logger.Sync()
	}()

	app, err := application.New(settings, logger, application.WithParentSearch(*searchParents))
	if err != nil {
		logger.Fatal("failed to initialize application", zap.Error(err))
	}

	g, err := app.Compose(context.Background())
	if err != nil {
		logger.Fatal("failed to compose globals", zap.Error(err))
	}
	printSummary(os.Stdout, g)

	if *wait {
		waitForSignal(logger)
	}
}

func printSummary(w io.Writer, g globals.Globals) {
	keys := make([]string, 0, len(g))
	for k := range g {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	if cfg, ok := g.Config(); ok {
		fmt.Fprintf(w, "system: %s (%s)\n", cfg.SystemName, cfg.Environment)
	}
	if constants, ok := g.Constants(); ok {
		fmt.Fprintf(w, "instance: %s\n", constants.InstanceID)
	}
	for _, k := range keys {
		fmt.Fprintf(w, "- %s\n", k)
	}
}

func waitForSignal(logger *zap.Logger) {
	quit := make(chan os.Signal, 1)
	signalNotify(quit, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	sig := <-quit
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
