// Package main provides the fdnet CLI.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/born-ml/fdnet/internal/config"
	"github.com/born-ml/fdnet/internal/nn"
	"github.com/born-ml/fdnet/internal/trainer"
)

const version = "v0.1.0"

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	switch os.Args[1] {
	case "version":
		fmt.Printf("fdnet %s\n", version)
	case "train":
		if err := train(os.Args[2:]); err != nil {
			log.Fatalf("training failed: %v", err)
		}
	default:
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Println("fdnet - feedforward networks trained by finite differences")
	fmt.Printf("Version: %s\n\n", version)
	fmt.Println("Commands:")
	fmt.Println("  version    Show version")
	fmt.Println("  train      Train a network described by a YAML config")
}

func train(args []string) error {
	fs := flag.NewFlagSet("train", flag.ExitOnError)
	cfgPath := fs.String("config", "configs/xor.yaml", "Path to YAML config")
	iterations := fs.Int("iterations", 0, "Number of training steps")
	learnRate := fs.Float64("learn-rate", 0, "Gradient descent learn rate")
	seed := fs.Int64("seed", -1, "PRNG seed (-1 = random); overrides the config only when given")
	workers := fs.Int("workers", 0, "Gradient workers (1 = sequential)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	overrides := config.Overrides{
		Iterations: *iterations,
		LearnRate:  *learnRate,
		Workers:    *workers,
	}
	fs.Visit(func(f *flag.Flag) {
		if f.Name == "seed" {
			overrides.Seed = seed
		}
	})
	cfg.ApplyOverrides(overrides)

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	netCfg, err := cfg.NetworkConfig()
	if err != nil {
		return err
	}
	net, err := nn.NewNetworkWithConfig(netCfg)
	if err != nil {
		return fmt.Errorf("build network: %w", err)
	}
	log.Printf("layers=%v params=%d examples=%d", cfg.Layers, net.NumParams(), len(cfg.Examples))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	res, err := trainer.Run(ctx, net, cfg.BuildExamples(), trainer.RunConfig{
		Iterations: cfg.Iterations,
		LearnRate:  cfg.LearnRate,
		LogEvery:   cfg.LogEvery,
	})
	if errors.Is(err, context.Canceled) {
		log.Printf("interrupted after step=%d cost=%.6f", res.Steps, res.Cost)
		return nil
	}
	if err != nil {
		return err
	}

	log.Printf("done steps=%d cost=%.6f accuracy=%.2f", res.Steps, res.Cost, res.Accuracy)
	return nil
}
