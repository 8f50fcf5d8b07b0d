package artifact

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"sort"

	"github.com/imamik/devlab/internal/config"
	"github.com/imamik/devlab/internal/orchestration"
	"github.com/imamik/devlab/internal/platform/transport"
	"github.com/imamik/devlab/internal/util/retry"
)

// DefaultDestRoot is where artifacts land on the device host.
const DefaultDestRoot = "/var/lib/devlab/instances"

// Fetcher resolves a build identifier to a local directory of artifacts.
type Fetcher interface {
	Fetch(ctx context.Context, buildID string) (dir string, entries []string, err error)
}

// TransportFactory opens a transport to the given instance.
type TransportFactory func(h *orchestration.InstanceHandle) (transport.Transport, error)

// Stager delivers the configured image onto the device host. Transient
// transfer failures are retried; everything else fails the stage.
type Stager struct {
	image      config.ImageSource
	fetcher    Fetcher
	transports TransportFactory
	timeouts   *config.Timeouts
	destRoot   string
}

var _ orchestration.ArtifactSource = (*Stager)(nil)

// NewStager wires an artifact stager. The fetcher may be nil when the image
// source is a local path.
func NewStager(image config.ImageSource, fetcher Fetcher, transports TransportFactory, timeouts *config.Timeouts) (*Stager, error) {
	if transports == nil {
		return nil, fmt.Errorf("transport factory cannot be nil")
	}
	if image.Kind == config.ImageSourceRemote && fetcher == nil {
		return nil, fmt.Errorf("a fetcher is required for remote image sources")
	}
	if timeouts == nil {
		timeouts = config.LoadTimeouts()
	}
	return &Stager{
		image:      image,
		fetcher:    fetcher,
		transports: transports,
		timeouts:   timeouts,
		destRoot:   DefaultDestRoot,
	}, nil
}

// WithDestRoot overrides where artifacts land on the host.
func (s *Stager) WithDestRoot(root string) *Stager {
	s.destRoot = root
	return s
}

// Stage resolves the image source to local files and pushes them to the
// instance's artifact directory.
func (s *Stager) Stage(ctx context.Context, h *orchestration.InstanceHandle) (*orchestration.Artifacts, error) {
	srcDir, entries, err := s.resolve(ctx)
	if err != nil {
		return nil, err
	}

	tr, err := s.transports(h)
	if err != nil {
		return nil, fmt.Errorf("failed to open transport to %s: %w", h.Name, err)
	}

	destDir := path.Join(s.destRoot, h.Name)
	for _, entry := range entries {
		local := filepath.Join(srcDir, entry)
		remote := path.Join(destDir, entry)
		err := retry.WithExponentialBackoff(ctx, func() error {
			return tr.Push(ctx, local, remote)
		},
			retry.WithMaxRetries(s.timeouts.RetryMaxAttempts),
			retry.WithInitialDelay(s.timeouts.RetryInitialDelay),
			retry.WithRetryable(transport.IsTransient))
		if err != nil {
			return nil, fmt.Errorf("failed to stage %s onto %s: %w", entry, h.Name, err)
		}
	}

	return &orchestration.Artifacts{Dir: destDir, Entries: entries}, nil
}

func (s *Stager) resolve(ctx context.Context) (string, []string, error) {
	switch s.image.Kind {
	case config.ImageSourceLocal:
		return resolveLocal(s.image.LocalPath)
	case config.ImageSourceRemote:
		return s.fetcher.Fetch(ctx, s.image.BuildID)
	default:
		return "", nil, fmt.Errorf("unknown image source kind %q", s.image.Kind)
	}
}

// resolveLocal accepts either a single image file or a directory of
// artifacts.
func resolveLocal(localPath string) (string, []string, error) {
	info, err := os.Stat(localPath)
	if err != nil {
		return "", nil, fmt.Errorf("image path %s is not accessible: %w", localPath, err)
	}

	if !info.IsDir() {
		return filepath.Dir(localPath), []string{filepath.Base(localPath)}, nil
	}

	dirEntries, err := os.ReadDir(localPath)
	if err != nil {
		return "", nil, fmt.Errorf("failed to read image directory %s: %w", localPath, err)
	}
	var entries []string
	for _, e := range dirEntries {
		if e.Type().IsRegular() {
			entries = append(entries, e.Name())
		}
	}
	if len(entries) == 0 {
		return "", nil, fmt.Errorf("image directory %s contains no files", localPath)
	}
	sort.Strings(entries)
	return localPath, entries, nil
}
