package jsonfile

import (
	"fmt"

	"github.com/spf13/afero"
	"go.uber.org/zap"

	pkgerrors "github.com/aeroxkoki/sailing-sub005/pkg/errors"
)

// FailurePolicy decides how a failed write surfaces to the caller. The
// policy is selected once at construction and visible in the store's
// type signature, instead of a writable-bool branch repeated in every
// save method.
type FailurePolicy interface {
	// Name identifies the policy in logs
	Name() string

	// OnWriteFailure turns a write failure into the error the caller
	// sees; a nil return swallows the failure
	OnWriteFailure(op, path string, err error) error
}

// DurablePolicy propagates every write failure as a PersistenceError so
// write-then-cache invariants are never silently violated.
type DurablePolicy struct{}

// Name identifies the policy
func (DurablePolicy) Name() string { return "durable" }

// OnWriteFailure surfaces the failure
func (DurablePolicy) OnWriteFailure(op, path string, err error) error {
	return pkgerrors.NewPersistence(fmt.Sprintf("%s %s failed", op, path), err)
}

// BestEffortPolicy logs a warning and keeps going, leaving the in-memory
// cache as the sole source of truth. Used under restricted-filesystem
// deployments where writes are expected to fail for the process lifetime.
type BestEffortPolicy struct {
	logger *zap.Logger
}

// NewBestEffortPolicy creates a best-effort policy
func NewBestEffortPolicy(logger *zap.Logger) *BestEffortPolicy {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BestEffortPolicy{logger: logger}
}

// Name identifies the policy
func (*BestEffortPolicy) Name() string { return "best_effort" }

// OnWriteFailure logs and swallows the failure
func (p *BestEffortPolicy) OnWriteFailure(op, path string, err error) error {
	p.logger.Warn("write failed, in-memory cache remains source of truth",
		zap.String("op", op),
		zap.String("path", path),
		zap.Error(err),
	)
	return nil
}

// ProbeWritable checks once whether the base path accepts writes. The
// result feeds policy selection at construction time.
func ProbeWritable(fs afero.Fs, basePath string) bool {
	if err := fs.MkdirAll(basePath, 0o755); err != nil {
		return false
	}
	probe := basePath + "/.write_probe"
	if err := afero.WriteFile(fs, probe, []byte("probe"), 0o644); err != nil {
		return false
	}
	_ = fs.Remove(probe)
	return true
}

// SelectPolicy probes the filesystem once and returns the matching
// failure policy.
func SelectPolicy(fs afero.Fs, basePath string, logger *zap.Logger) FailurePolicy {
	if logger == nil {
		logger = zap.NewNop()
	}
	if ProbeWritable(fs, basePath) {
		return DurablePolicy{}
	}
	logger.Warn("base path is not writable, falling back to best-effort persistence",
		zap.String("base_path", basePath),
	)
	return NewBestEffortPolicy(logger)
}
