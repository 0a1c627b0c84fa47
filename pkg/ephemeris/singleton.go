package ephemeris

import "sync"

// InitOptions configures the process-wide ephemeris provider.
type InitOptions struct {
	// KernelPath, if non-empty, is opened as a binary SPK kernel. Empty
	// means mean-elements-only mode.
	KernelPath string
}

var (
	once     sync.Once
	instance Provider
	initErr  error
)

// Init constructs the process-wide Provider singleton. Safe to call from
// multiple goroutines; only the first call's options take effect, and the
// same error (if any) is returned to every caller. Idempotent: calling
// Init again after a successful first call is a no-op that returns nil.
func Init(opts InitOptions) error {
	once.Do(func() {
		instance, initErr = build(opts)
	})
	return initErr
}

// Get returns the process-wide Provider, initializing it with default
// options (mean-elements-only) if Init was never called. This lets
// callers that don't care about kernel configuration use the package
// without an explicit setup step.
func Get() Provider {
	once.Do(func() {
		instance, initErr = build(InitOptions{})
	})
	return instance
}

func build(opts InitOptions) (Provider, error) {
	mean := NewMeanElementProvider()
	if opts.KernelPath == "" {
		return mean, nil
	}
	kernel, err := LoadKernel(opts.KernelPath)
	if err != nil {
		return nil, err
	}
	return &compositeProvider{kernel: kernel, mean: mean}, nil
}

// reset is test-only: it clears the singleton so a test can exercise both
// Init outcomes within the same process. Not exported.
func reset() {
	once = sync.Once{}
	instance = nil
	initErr = nil
}
