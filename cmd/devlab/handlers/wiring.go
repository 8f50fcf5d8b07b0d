// Package handlers implements the CLI command logic. Commands parse flags
// and delegate here; handlers load configuration, assemble the pipeline for
// the configured variant, and run it.
package handlers

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/imamik/devlab/internal/config"
	"github.com/imamik/devlab/internal/orchestration"
	"github.com/imamik/devlab/internal/platform/artifact"
	devhcloud "github.com/imamik/devlab/internal/platform/hcloud"
	"github.com/imamik/devlab/internal/platform/local"
	"github.com/imamik/devlab/internal/platform/probe"
	"github.com/imamik/devlab/internal/platform/remote"
	devssh "github.com/imamik/devlab/internal/platform/ssh"
	"github.com/imamik/devlab/internal/platform/transport"
	"github.com/imamik/devlab/internal/slot"
)

// Factory function variables - can be replaced in tests.
var (
	// loadConfig loads and validates the device configuration.
	loadConfig = config.LoadFile

	// newOrchestrator assembles the pipeline for the configured variant.
	newOrchestrator = buildOrchestrator
)

func buildOrchestrator(ctx context.Context, cfg *config.Config, timeouts *config.Timeouts) (*orchestration.Orchestrator, error) {
	switch cfg.Variant {
	case config.VariantLocal:
		return buildLocal(ctx, cfg, timeouts)
	case config.VariantRemote:
		return buildRemote(ctx, cfg, timeouts)
	default:
		return nil, fmt.Errorf("unknown variant %q", cfg.Variant)
	}
}

// newAllocator opens the cross-process slot pool under the state directory.
func newAllocator(cfg *config.Config) (*slot.Allocator, error) {
	store, err := slot.NewFileStore(filepath.Join(cfg.StateDirOrDefault(), "slots"))
	if err != nil {
		return nil, err
	}
	poolSize := cfg.MaxSlots
	if poolSize == 0 {
		poolSize = slot.DefaultPoolSize()
	}
	return slot.NewAllocator(store, poolSize)
}

// newFetcher returns an artifact fetcher when the image source needs one.
func newFetcher(ctx context.Context, cfg *config.Config) (artifact.Fetcher, error) {
	if cfg.Image.Kind != config.ImageSourceRemote {
		return nil, nil
	}
	cacheDir := filepath.Join(cfg.StateDirOrDefault(), "cache")
	return artifact.NewS3Fetcher(ctx, cfg.Artifact, cacheDir)
}

func buildLocal(ctx context.Context, cfg *config.Config, timeouts *config.Timeouts) (*orchestration.Orchestrator, error) {
	stateDir := cfg.StateDirOrDefault()

	allocator, err := newAllocator(cfg)
	if err != nil {
		return nil, err
	}
	fetcher, err := newFetcher(ctx, cfg)
	if err != nil {
		return nil, err
	}
	stager, err := artifact.NewStager(cfg.Image, fetcher,
		func(*orchestration.InstanceHandle) (transport.Transport, error) { return local.Transport{}, nil },
		timeouts)
	if err != nil {
		return nil, err
	}
	stager.WithDestRoot(filepath.Join(stateDir, "instances"))

	return orchestration.New(orchestration.Deps{
		Backend:     local.NewBackend(stateDir),
		Artifacts:   stager,
		Launcher:    local.NewLauncher(stateDir, "", cfg.Hardware, timeouts),
		Probe:       probe.NewTCP(0),
		Allocator:   allocator,
		Conflicts:   local.NewConflictChecker(stateDir, timeouts),
		Diagnostics: local.NewDiagnosticCollector(stateDir),
		Confirm:     Confirm,
	})
}

func buildRemote(ctx context.Context, cfg *config.Config, timeouts *config.Timeouts) (*orchestration.Orchestrator, error) {
	token := os.Getenv("HCLOUD_TOKEN")
	if token == "" {
		return nil, fmt.Errorf("HCLOUD_TOKEN environment variable is required for the remote variant")
	}
	if cfg.Remote.SSHKeyPath == "" {
		return nil, fmt.Errorf("remote variant requires remote.ssh_key_path")
	}
	keyBytes, err := os.ReadFile(cfg.Remote.SSHKeyPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read ssh key %s: %w", cfg.Remote.SSHKeyPath, err)
	}

	client := devhcloud.NewClient(token, devhcloud.WithTimeouts(timeouts))
	backend, err := devhcloud.NewBackend(client, cfg.Remote, timeouts)
	if err != nil {
		return nil, err
	}

	transports := func(h *orchestration.InstanceHandle) (transport.Transport, error) {
		return devssh.NewClient(&devssh.Config{
			Host:       h.Address,
			User:       cfg.Remote.User,
			PrivateKey: keyBytes,
		})
	}

	fetcher, err := newFetcher(ctx, cfg)
	if err != nil {
		return nil, err
	}
	stager, err := artifact.NewStager(cfg.Image, fetcher, transports, timeouts)
	if err != nil {
		return nil, err
	}
	launcher, err := remote.NewLauncher(transports, "", cfg.Hardware)
	if err != nil {
		return nil, err
	}

	return orchestration.New(orchestration.Deps{
		Backend:   backend,
		Artifacts: stager,
		Launcher:  launcher,
		Probe:     probe.NewTCP(slot.BasePort),
	})
}
