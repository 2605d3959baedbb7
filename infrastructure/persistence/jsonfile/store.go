// Package jsonfile persists one pretty-printed JSON document per entity
// under a deterministic path: <base>/<kind>/<id>.json for top-level
// entities and <base>/<kind>/<parent>/<id>.json for per-session children.
// Writes are whole-file overwrites via a temp-file rename, never partial.
package jsonfile

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path"
	"strings"

	"github.com/spf13/afero"
	"go.uber.org/zap"

	"github.com/aeroxkoki/sailing-sub005/application/ports"
	pkgerrors "github.com/aeroxkoki/sailing-sub005/pkg/errors"
)

// kinds lists every subdirectory created at bootstrap
var kinds = []ports.Kind{
	ports.KindProject,
	ports.KindSession,
	ports.KindData,
	ports.KindState,
	ports.KindAnnotation,
	ports.KindResult,
	ports.KindMetadata,
}

// Store implements ports.DocumentStore over an afero filesystem.
type Store struct {
	fs       afero.Fs
	basePath string
	policy   FailurePolicy
	logger   *zap.Logger
}

// New creates a store rooted at basePath with the given failure policy.
// Subdirectory creation is idempotent and failure-isolated: a directory
// that cannot be created is logged and skipped, not fatal to bootstrap.
func New(fs afero.Fs, basePath string, policy FailurePolicy, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	if policy == nil {
		policy = DurablePolicy{}
	}

	s := &Store{
		fs:       fs,
		basePath: basePath,
		policy:   policy,
		logger:   logger,
	}

	for _, kind := range kinds {
		dir := path.Join(basePath, string(kind))
		if err := fs.MkdirAll(dir, 0o755); err != nil {
			logger.Warn("failed to create storage directory",
				zap.String("dir", dir),
				zap.Error(err),
			)
		}
	}

	logger.Info("document store ready",
		zap.String("base_path", basePath),
		zap.String("policy", policy.Name()),
	)

	return s
}

// NewWithProbe creates a store whose failure policy is chosen by probing
// the base path for writability once.
func NewWithProbe(fs afero.Fs, basePath string, logger *zap.Logger) *Store {
	return New(fs, basePath, SelectPolicy(fs, basePath, logger), logger)
}

// Policy exposes the active failure policy
func (s *Store) Policy() FailurePolicy {
	return s.policy
}

// Save persists a document, whole-file overwrite
func (s *Store) Save(ctx context.Context, kind ports.Kind, id string, doc any) error {
	return s.write(path.Join(s.basePath, string(kind), id+".json"), doc)
}

// Load reads a document into out
func (s *Store) Load(ctx context.Context, kind ports.Kind, id string, out any) error {
	return s.read(path.Join(s.basePath, string(kind), id+".json"), string(kind), id, out)
}

// Delete removes a document; false when it did not exist
func (s *Store) Delete(ctx context.Context, kind ports.Kind, id string) (bool, error) {
	return s.remove(path.Join(s.basePath, string(kind), id+".json"))
}

// ListIDs returns the ids of every stored document of a kind
func (s *Store) ListIDs(ctx context.Context, kind ports.Kind) ([]string, error) {
	return s.list(path.Join(s.basePath, string(kind)))
}

// SaveChild persists a per-parent document
func (s *Store) SaveChild(ctx context.Context, kind ports.Kind, parentID, id string, doc any) error {
	dir := path.Join(s.basePath, string(kind), parentID)
	if err := s.fs.MkdirAll(dir, 0o755); err != nil {
		return s.policy.OnWriteFailure("mkdir", dir, err)
	}
	return s.write(path.Join(dir, id+".json"), doc)
}

// LoadChild reads a per-parent document
func (s *Store) LoadChild(ctx context.Context, kind ports.Kind, parentID, id string, out any) error {
	return s.read(path.Join(s.basePath, string(kind), parentID, id+".json"), string(kind), id, out)
}

// DeleteChild removes a per-parent document; false when absent
func (s *Store) DeleteChild(ctx context.Context, kind ports.Kind, parentID, id string) (bool, error) {
	return s.remove(path.Join(s.basePath, string(kind), parentID, id+".json"))
}

// ListChildIDs returns the ids of every per-parent document
func (s *Store) ListChildIDs(ctx context.Context, kind ports.Kind, parentID string) ([]string, error) {
	return s.list(path.Join(s.basePath, string(kind), parentID))
}

// DeleteChildren removes the whole per-parent subtree
func (s *Store) DeleteChildren(ctx context.Context, kind ports.Kind, parentID string) (int, error) {
	dir := path.Join(s.basePath, string(kind), parentID)
	ids, err := s.list(dir)
	if err != nil {
		return 0, err
	}
	if len(ids) == 0 {
		return 0, nil
	}
	if err := s.fs.RemoveAll(dir); err != nil {
		return 0, s.policy.OnWriteFailure("delete", dir, err)
	}
	return len(ids), nil
}

// write marshals the document and overwrites the target atomically:
// temp file in the same directory, then rename.
func (s *Store) write(target string, doc any) error {
	payload, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return pkgerrors.NewInternal(fmt.Sprintf("failed to encode %s", target), err)
	}

	tmp := target + ".tmp"
	if err := afero.WriteFile(s.fs, tmp, payload, 0o644); err != nil {
		return s.policy.OnWriteFailure("save", target, err)
	}
	if err := s.fs.Rename(tmp, target); err != nil {
		_ = s.fs.Remove(tmp)
		return s.policy.OnWriteFailure("save", target, err)
	}
	return nil
}

func (s *Store) read(target, resource, id string, out any) error {
	payload, err := afero.ReadFile(s.fs, target)
	if err != nil {
		if os.IsNotExist(err) {
			return pkgerrors.NewNotFound(resource, id)
		}
		return pkgerrors.NewPersistence(fmt.Sprintf("failed to read %s", target), err)
	}
	if err := json.Unmarshal(payload, out); err != nil {
		// Corrupt JSON signals upstream corruption, surfaced as a
		// validation failure so bulk loads can log and skip it
		return pkgerrors.Wrap(pkgerrors.NewValidation(err.Error()), fmt.Sprintf("corrupt document %s", target))
	}
	return nil
}

func (s *Store) remove(target string) (bool, error) {
	if exists, err := afero.Exists(s.fs, target); err != nil || !exists {
		return false, nil
	}
	if err := s.fs.Remove(target); err != nil {
		if policyErr := s.policy.OnWriteFailure("delete", target, err); policyErr != nil {
			return false, policyErr
		}
		// Best-effort: cache entry removal proceeds, file is orphaned
		return true, nil
	}
	return true, nil
}

// list returns document ids in a directory, skipping subdirectories
// (per-session child trees live next to legacy flat documents) and
// non-JSON files.
func (s *Store) list(dir string) ([]string, error) {
	infos, err := afero.ReadDir(s.fs, dir)
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, pkgerrors.NewPersistence(fmt.Sprintf("failed to list %s", dir), err)
	}

	ids := make([]string, 0, len(infos))
	for _, info := range infos {
		if info.IsDir() || !strings.HasSuffix(info.Name(), ".json") {
			continue
		}
		ids = append(ids, strings.TrimSuffix(info.Name(), ".json"))
	}
	return ids, nil
}
