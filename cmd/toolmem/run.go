// cmd/toolmem/run.go
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/Wazzup77/kalico/internal/config"
	"github.com/Wazzup77/kalico/internal/device"
	"github.com/Wazzup77/kalico/internal/memory"
	"github.com/Wazzup77/kalico/internal/probe"
	"github.com/Wazzup77/kalico/internal/reactor"
	"github.com/Wazzup77/kalico/internal/record"
)

func newRunCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run <config.yaml>",
		Short: "Run the tool memory service",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runService(args[0])
		},
	}
}

func runService(cfgPath string) error {
	// --------------------
	// Load + validate config
	// --------------------

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return err
	}
	if err := config.Validate(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}
	config.Normalize(cfg)

	setupLogging(cfg.Tool.LogLevel)
	log := slog.Default()

	// --------------------
	// Device + controller on one reactor
	// --------------------

	dev, closeDev, err := device.Build(cfg.Tool.Device)
	if err != nil {
		return fmt.Errorf("device build failed: %w", err)
	}
	defer closeDev()

	loop := reactor.New()

	ctrl := memory.New(dev, loop, memory.Config{
		Name:             cfg.Tool.Name,
		AutosaveInterval: time.Duration(cfg.Tool.AutosaveMs) * time.Millisecond,
	})

	ctrl.OnReady(func(connected bool, rec *record.Record) {
		if !connected {
			log.Warn("tool memory not ready", "tool", cfg.Tool.Name)
			return
		}
		log.Info("tool memory ready", "tool", cfg.Tool.Name, "keys", rec.Keys())
	})

	// --------------------
	// Attach detection
	// --------------------

	pinger, ok := dev.(probe.Pinger)
	if !ok {
		return fmt.Errorf("device type %q cannot be probed", cfg.Tool.Device.Type)
	}

	prober, err := probe.New(pinger, probe.Config{
		Interval: time.Duration(cfg.Tool.ProbeMs) * time.Millisecond,
		OnAttach: ctrl.HandleAttach,
		OnDetach: ctrl.HandleDetach,
	})
	if err != nil {
		return fmt.Errorf("probe build failed: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go prober.Run(ctx)

	log.Info("tool memory service started",
		"tool", cfg.Tool.Name,
		"device", cfg.Tool.Device.Type,
		"capacity", dev.Capacity())

	loop.Run(ctx)
	log.Info("tool memory service stopped")
	return nil
}
