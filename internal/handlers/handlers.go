package handlers

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/go-playground/validator/v10"

	"frameflow/internal/filesystem"
	"frameflow/internal/memory"
	"frameflow/internal/probe"
)

// MetadataProber extracts video metadata from a file.
type MetadataProber interface {
	Probe(ctx context.Context, path string) (*probe.Metadata, error)
}

// ProxyGenerator renders a low-resolution editing proxy.
type ProxyGenerator interface {
	GenerateProxy(ctx context.Context, inputPath, outputPath string) (string, error)
}

// Handlers holds the collaborators shared by all API handlers.
type Handlers struct {
	prober    MetadataProber
	proxies   ProxyGenerator
	retry     filesystem.RetryConfig
	validate  *validator.Validate
	startTime time.Time
	ready     atomic.Bool
	tools     map[string]string

	// Overridable in tests.
	availableMemory func() (uint64, error)
	writeFile       func(path string, content []byte) error
}

func New(prober MetadataProber, proxies ProxyGenerator, retry filesystem.RetryConfig) *Handlers {
	h := &Handlers{
		prober:          prober,
		proxies:         proxies,
		retry:           retry,
		validate:        newValidator(),
		startTime:       time.Now(),
		availableMemory: memory.Available,
	}
	h.writeFile = func(path string, content []byte) error {
		return filesystem.WriteFileWithRetry(path, content, h.retry)
	}
	return h
}

// SetReady marks the service ready (or not) for /readyz.
func (h *Handlers) SetReady(ready bool) {
	h.ready.Store(ready)
}

// SetToolVersions records the media tool versions reported by /version.
// Call before serving.
func (h *Handlers) SetToolVersions(versions map[string]string) {
	h.tools = versions
}
