package orchestration

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/imamik/devlab/internal/config"
)

// mockBackend implements ComputeBackend.
type mockBackend struct {
	mu         sync.Mutex
	createCall int
	failOnCall int // 1-based; 0 means never fail
	reused     bool
	created    []InstanceSpec
	deleted    []string
	deleteErr  error
}

func (m *mockBackend) CreateOrReuse(_ context.Context, spec InstanceSpec) (*InstanceHandle, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.createCall++
	if m.failOnCall != 0 && m.createCall == m.failOnCall {
		return nil, fmt.Errorf("compute backend unavailable")
	}
	m.created = append(m.created, spec)
	addr := "127.0.0.1"
	if spec.SlotID == 0 {
		addr = fmt.Sprintf("203.0.113.%d", m.createCall)
	}
	return &InstanceHandle{Name: spec.Name, Address: addr, SlotID: spec.SlotID, Reused: m.reused}, nil
}

func (m *mockBackend) Delete(_ context.Context, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deleted = append(m.deleted, name)
	return m.deleteErr
}

// mockArtifacts implements ArtifactSource.
type mockArtifacts struct {
	delay time.Duration
	err   error
	calls int
}

func (m *mockArtifacts) Stage(ctx context.Context, h *InstanceHandle) (*Artifacts, error) {
	m.calls++
	if m.delay > 0 {
		select {
		case <-time.After(m.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if m.err != nil {
		return nil, m.err
	}
	return &Artifacts{Dir: "/var/lib/devlab/" + h.Name, Entries: []string{"device.img", "kernel"}}, nil
}

// mockLauncher implements Launcher.
type mockLauncher struct {
	startErr   error
	panicOn    int // 1-based start call that panics; 0 disables
	startCalls int
	stopped    []string
	stopErr    error
}

func (m *mockLauncher) Start(_ context.Context, h *InstanceHandle, _ *Artifacts, _ []string) (*LaunchResult, error) {
	m.startCalls++
	if m.panicOn != 0 && m.startCalls == m.panicOn {
		panic("launcher exploded")
	}
	if m.startErr != nil {
		return nil, m.startErr
	}
	return &LaunchResult{LogPaths: []string{fmt.Sprintf("/logs/%s/launcher.log", h.Name)}}, nil
}

func (m *mockLauncher) Stop(_ context.Context, h *InstanceHandle) error {
	m.stopped = append(m.stopped, h.Name)
	return m.stopErr
}

// mockProbe implements LivenessProbe.
type mockProbe struct {
	readyAfter int // number of calls before reporting ready; 0 = immediately
	err        error
	calls      int
}

func (m *mockProbe) Ready(_ context.Context, _ *InstanceHandle) (bool, error) {
	m.calls++
	if m.err != nil {
		return false, m.err
	}
	return m.calls > m.readyAfter, nil
}

// neverReady is a probe that never succeeds.
type neverReady struct{}

func (neverReady) Ready(context.Context, *InstanceHandle) (bool, error) {
	return false, nil
}

// mockConflicts implements ConflictChecker.
type mockConflicts struct {
	conflict    bool
	stopsOnTerm bool // Terminate clears the conflict
	termErr     error
	terminated  int
}

func (m *mockConflicts) Conflict(context.Context, *InstanceHandle) (bool, error) {
	return m.conflict, nil
}

func (m *mockConflicts) Terminate(context.Context, *InstanceHandle) error {
	m.terminated++
	if m.termErr != nil {
		return m.termErr
	}
	if m.stopsOnTerm {
		m.conflict = false
	}
	return nil
}

// mockDiags implements DiagnosticCollector.
type mockDiags struct {
	logs  []string
	err   error
	calls int
}

func (m *mockDiags) Collect(context.Context, *InstanceHandle) ([]string, error) {
	m.calls++
	return m.logs, m.err
}

func localConfig() *config.Config {
	return &config.Config{
		NamePrefix: "test",
		Variant:    config.VariantLocal,
		Image:      config.LocalImage("/builds/img"),
	}
}

func remoteConfig() *config.Config {
	return &config.Config{
		NamePrefix: "test",
		Variant:    config.VariantRemote,
		Image:      config.RemoteImage("123"),
		Remote:     config.RemoteConfig{ServerType: "cx22"},
		Artifact:   config.ArtifactConfig{Bucket: "builds"},
	}
}

func testContext(t *testing.T, cfg *config.Config) *Context {
	t.Helper()
	return &Context{
		Context: context.Background(),
		Config:  cfg,
		Timeouts: &config.Timeouts{
			CreateBudget:      time.Second,
			StopWait:          60 * time.Millisecond,
			BootPollInterval:  2 * time.Millisecond,
			StopPollInterval:  2 * time.Millisecond,
			InstanceAddress:   time.Second,
			RetryMaxAttempts:  1,
			RetryInitialDelay: time.Millisecond,
		},
		Observer: NewObserver(zerolog.Nop()),
	}
}
