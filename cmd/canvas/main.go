package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/GriffinCanCode/CanvasAI/backend/internal/connection"
	"github.com/GriffinCanCode/CanvasAI/backend/internal/infrastructure/config"
	"github.com/GriffinCanCode/CanvasAI/backend/internal/infrastructure/logging"
	"github.com/GriffinCanCode/CanvasAI/backend/internal/infrastructure/monitoring"
)

func main() {
	profile := flag.String("profile", "", "TOML profile with [client] and [logging] sections")
	endpoint := flag.String("endpoint", "", "Diagram service WebSocket URI (overrides config)")
	mode := flag.String("mode", "", "Initial mode (overrides config)")
	format := flag.String("format", formatText, "Response output: text or yaml")
	verbose := flag.Bool("v", false, "Log connection events to stderr")
	flag.Parse()

	if *format != formatText && *format != formatYAML {
		log.Fatalf("Unknown format %q, want text or yaml", *format)
	}

	cfg, err := loadConfig(*profile)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if *endpoint != "" {
		cfg.Client.Endpoint = *endpoint
	}
	if *mode != "" {
		cfg.Client.Mode = *mode
	}

	logger := logging.Nop()
	if *verbose {
		lc := logging.DevelopmentConfig()
		lc.OutputPaths = []string{"stderr"}
		if l, err := logging.New(lc); err == nil {
			logger = l
		}
	}
	defer logger.Sync()

	m := connection.New(connection.Config{
		Endpoint:       cfg.Client.Endpoint,
		ReconnectDelay: cfg.Client.ReconnectDelay,
		DefaultMode:    cfg.Client.Mode,
		WriteTimeout:   cfg.Client.WriteTimeout,
	},
		connection.WithLogger(logger),
		connection.WithMetrics(monitoring.NewClientMetrics(prometheus.NewRegistry())),
	)
	defer m.Dispose()

	c := newConsole(m, os.Stdout, cfg.Client.Mode, *format)
	fmt.Println(hintStyle.Render("CanvasAI · " + m.Endpoint() + " · mode " + c.mode + " · /help for commands"))

	// render owns stdout for state output; Subscribe delivers the current
	// snapshot first.
	states, unsubscribe := m.Subscribe()
	defer unsubscribe()
	go func() {
		for s := range states {
			c.render(s)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	done := make(chan error, 1)
	go func() { done <- c.readLoop(os.Stdin) }()

	select {
	case <-sigChan:
	case err := <-done:
		if err != nil {
			log.Printf("Input error: %v", err)
		}
	}
}

func loadConfig(profile string) (*config.Config, error) {
	if profile != "" {
		return config.LoadFile(profile)
	}
	return config.Load()
}
