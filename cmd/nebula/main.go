package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/urfave/cli"

	"github.com/nebulaemu/nebula/nebula"
	"github.com/nebulaemu/nebula/nebula/backend"
	"github.com/nebulaemu/nebula/nebula/backend/headless"
	"github.com/nebulaemu/nebula/nebula/backend/terminal"
	"github.com/nebulaemu/nebula/nebula/timing"
)

func main() {
	app := cli.NewApp()
	app.Name = "Nebula"
	app.Description = "An NES emulator"
	app.Usage = "nebula [options] <ROM file>"
	app.Version = "0.3.0"
	app.Flags = []cli.Flag{
		cli.StringFlag{
			Name:  "rom",
			Usage: "Path to the iNES ROM file",
		},
		cli.BoolFlag{
			Name:  "headless",
			Usage: "Run the emulator without a terminal interface",
		},
		cli.IntFlag{
			Name:  "frames",
			Usage: "Number of frames to run in headless mode (required for headless)",
		},
		cli.IntFlag{
			Name:  "snapshot-interval",
			Usage: "Save PNG snapshots every N frames in headless mode (0 = disabled)",
		},
		cli.StringFlag{
			Name:  "snapshot-dir",
			Usage: "Directory to save frame snapshots (default: temp directory)",
		},
		cli.IntFlag{
			Name:  "snapshot-scale",
			Usage: "Upscale factor for PNG snapshots",
			Value: 1,
		},
		cli.StringFlag{
			Name:  "wav",
			Usage: "Record audio output to a WAV file in headless mode",
		},
		cli.StringFlag{
			Name:  "limiter",
			Usage: "Frame pacing: adaptive, ticker or none",
			Value: string(timing.LimiterAdaptive),
		},
		cli.BoolFlag{
			Name:  "debug",
			Usage: "Show the debug panel on startup",
		},
		cli.BoolFlag{
			Name:  "no-audio",
			Usage: "Disable audio output",
		},
		cli.StringFlag{
			Name:  "log-level",
			Usage: "Log level: debug, info, warn or error",
			Value: "info",
		},
	}
	app.Action = runEmulator

	if err := app.Run(os.Args); err != nil {
		slog.Error("Error running emulator", "error", err)
		os.Exit(1)
	}
}

func runEmulator(c *cli.Context) error {
	logLevel := new(slog.LevelVar)
	if err := logLevel.UnmarshalText([]byte(c.String("log-level"))); err != nil {
		return fmt.Errorf("invalid --log-level: %w", err)
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel})))

	romPath := c.String("rom")
	if romPath == "" {
		if c.NArg() == 0 {
			_ = cli.ShowAppHelp(c)
			return errors.New("no ROM path provided")
		}
		romPath = c.Args().Get(0)
	}

	headlessMode := c.Bool("headless")
	limiter := timing.LimiterKind(c.String("limiter"))
	if headlessMode && !c.IsSet("limiter") {
		limiter = timing.LimiterNone
	}

	emu, err := nebula.NewWithFile(romPath, nebula.Options{Limiter: limiter, LogLevel: logLevel})
	if err != nil {
		return err
	}
	defer func() {
		if err := emu.Close(); err != nil {
			slog.Error("Failed to save battery RAM", "error", err)
		}
	}()

	config := backend.BackendConfig{
		Title:     filepath.Base(romPath),
		Scale:     c.Int("snapshot-scale"),
		ShowDebug: c.Bool("debug"),
		Debug:     emu,
	}

	var b backend.Backend
	if headlessMode {
		frames := c.Int("frames")
		if frames <= 0 {
			return errors.New("headless mode requires --frames option with a positive value")
		}

		snapshots, err := headless.CreateSnapshotConfig(c.Int("snapshot-interval"), c.String("snapshot-dir"), romPath)
		if err != nil {
			return err
		}
		snapshots.Scale = max(c.Int("snapshot-scale"), 1)
		snapshots.WAVPath = c.String("wav")
		if snapshots.WAVPath != "" {
			config.Audio = emu.Audio()
		}

		slog.Info("Running headless mode", "frames", frames, "snapshot_interval", snapshots.Interval, "snapshot_dir", snapshots.Directory)
		b = headless.New(frames, snapshots)
	} else {
		if !c.Bool("no-audio") {
			config.Audio = emu.Audio()
		}
		b = terminal.New()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	config.Callbacks.OnQuit = stop

	if err := b.Init(config); err != nil {
		return err
	}
	defer func() {
		if err := b.Cleanup(); err != nil {
			slog.Error("Backend cleanup failed", "error", err)
		}
	}()

	return emu.Run(ctx, b)
}
