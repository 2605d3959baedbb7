// Package services wires the domain model, the derived indexes and the
// document store into the operations callers use: repository CRUD,
// search, relationship management and the versioned result store.
package services

import (
	"context"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/aeroxkoki/sailing-sub005/application/index"
	"github.com/aeroxkoki/sailing-sub005/application/ports"
	"github.com/aeroxkoki/sailing-sub005/domain/core/entities"
	"github.com/aeroxkoki/sailing-sub005/domain/events"
	domainservices "github.com/aeroxkoki/sailing-sub005/domain/services"
	pkgerrors "github.com/aeroxkoki/sailing-sub005/pkg/errors"
	"github.com/aeroxkoki/sailing-sub005/pkg/observability"
)

// Repository owns the in-memory project/session maps and keeps them
// consistent with the document store and the derived indexes. Reads are
// served from the maps and never touch disk; every mutator edits the
// already-loaded map plus one save call. Reload is the only operation
// that wholesale-replaces the maps.
//
// The repository assumes one logical writer; the internal mutex makes
// individual operations safe for concurrent callers but provides no
// cross-operation ordering.
type Repository struct {
	mu sync.RWMutex

	store     ports.DocumentStore
	bus       ports.EventBus
	logger    *zap.Logger
	collector *observability.Collector

	projects map[string]*entities.Project
	sessions map[string]*entities.Session

	tagIndex      *index.TagIndex
	keywordIndex  *index.KeywordIndex
	metadataCache *index.MetadataCache
}

// NewRepository creates a repository over the given store. The event bus
// and collector are optional.
func NewRepository(store ports.DocumentStore, bus ports.EventBus, logger *zap.Logger, collector *observability.Collector) *Repository {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Repository{
		store:         store,
		bus:           bus,
		logger:        logger,
		collector:     collector,
		projects:      make(map[string]*entities.Project),
		sessions:      make(map[string]*entities.Session),
		tagIndex:      index.NewTagIndex(),
		keywordIndex:  index.NewKeywordIndex(domainservices.NewDefaultTextAnalyzer()),
		metadataCache: index.NewMetadataCache(),
	}
}

// TagIndex exposes the tag index for search
func (r *Repository) TagIndex() *index.TagIndex {
	return r.tagIndex
}

// KeywordIndex exposes the inverted index for search
func (r *Repository) KeywordIndex() *index.KeywordIndex {
	return r.keywordIndex
}

// Reload rebuilds the project/session maps by scanning every stored
// document. A corrupt file is logged and skipped; reload never aborts
// partway. Indexes and the metadata cache are rebuilt from the loaded
// sessions afterwards.
func (r *Repository) Reload(ctx context.Context) error {
	projectIDs, err := r.store.ListIDs(ctx, ports.KindProject)
	if err != nil {
		return err
	}
	sessionIDs, err := r.store.ListIDs(ctx, ports.KindSession)
	if err != nil {
		return err
	}

	projects := make(map[string]*entities.Project, len(projectIDs))
	for _, id := range projectIDs {
		var doc entities.ProjectDocument
		if err := r.store.Load(ctx, ports.KindProject, id, &doc); err != nil {
			r.logger.Warn("skipping unreadable project file",
				zap.String("project_id", id),
				zap.Error(pkgerrors.NewPartialLoad("projects/"+id, err)),
			)
			continue
		}
		project, err := entities.ProjectFromDocument(doc)
		if err != nil {
			r.logger.Warn("skipping corrupt project file",
				zap.String("project_id", id),
				zap.Error(err),
			)
			continue
		}
		projects[project.ID().String()] = project
	}

	sessions := make(map[string]*entities.Session, len(sessionIDs))
	for _, id := range sessionIDs {
		var doc entities.SessionDocument
		if err := r.store.Load(ctx, ports.KindSession, id, &doc); err != nil {
			r.logger.Warn("skipping unreadable session file",
				zap.String("session_id", id),
				zap.Error(pkgerrors.NewPartialLoad("sessions/"+id, err)),
			)
			continue
		}
		session, err := entities.SessionFromDocument(doc)
		if err != nil {
			r.logger.Warn("skipping corrupt session file",
				zap.String("session_id", id),
				zap.Error(err),
			)
			continue
		}
		sessions[session.ID().String()] = session
	}

	sessionTags := make(map[string][]string, len(sessions))
	searchableText := make(map[string]string, len(sessions))
	metadata := make(map[string]map[string]any, len(sessions))
	for id, session := range sessions {
		sessionTags[id] = session.GetTags()
		searchableText[id] = session.SearchableText()
		metadata[id] = session.GetMetadata()
	}

	r.mu.Lock()
	r.projects = projects
	r.sessions = sessions
	r.tagIndex.Rebuild(sessionTags)
	r.keywordIndex.Rebuild(searchableText)
	r.metadataCache.Rebuild(metadata)
	r.mu.Unlock()

	r.updateIndexGauges()

	r.logger.Info("repository reloaded",
		zap.Int("projects", len(projects)),
		zap.Int("sessions", len(sessions)),
	)
	return nil
}

// CreateProject creates and persists a new project
func (r *Repository) CreateProject(ctx context.Context, name, description string, tags []string, metadata map[string]any) (*entities.Project, error) {
	project, err := entities.NewProject(name, description, tags, metadata)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	if err := r.store.Save(ctx, ports.KindProject, project.ID().String(), project.ToDocument()); err != nil {
		r.mu.Unlock()
		return nil, err
	}
	r.projects[project.ID().String()] = project
	r.mu.Unlock()

	if r.collector != nil {
		r.collector.ProjectsCreated.Inc()
	}
	r.publishEvents(ctx, project)
	return project, nil
}

// GetProject returns a cached project; reads never touch disk
func (r *Repository) GetProject(projectID string) (*entities.Project, bool) {
	r.mu.RLock()
	project, ok := r.projects[projectID]
	r.mu.RUnlock()

	r.recordCacheAccess(ok)
	return project, ok
}

// GetProjects returns all cached projects sorted by name
func (r *Repository) GetProjects() []*entities.Project {
	r.mu.RLock()
	out := make([]*entities.Project, 0, len(r.projects))
	for _, project := range r.projects {
		out = append(out, project)
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		return out[i].Name() < out[j].Name()
	})
	return out
}

// UpdateProject applies a mutator to a cached project and persists the
// result. An unresolved id is NotFound; a mutator error leaves the
// project unsaved.
func (r *Repository) UpdateProject(ctx context.Context, projectID string, mutate func(*entities.Project) error) error {
	r.mu.Lock()
	project, ok := r.projects[projectID]
	if !ok {
		r.mu.Unlock()
		return pkgerrors.NewNotFound("projects", projectID)
	}

	snapshot := project.ToDocument()
	if err := mutate(project); err != nil {
		r.mu.Unlock()
		return err
	}

	if err := r.store.Save(ctx, ports.KindProject, projectID, project.ToDocument()); err != nil {
		// Roll the cache entry back so it never runs ahead of disk
		if restored, restoreErr := entities.ProjectFromDocument(snapshot); restoreErr == nil {
			r.projects[projectID] = restored
		}
		r.mu.Unlock()
		return err
	}
	r.mu.Unlock()

	r.publishEvents(ctx, project)
	return nil
}

// DeleteProject removes the project file and the cache entry. Sessions
// referenced by the project are untouched. Returns false for an unknown
// id, never an error for that case.
func (r *Repository) DeleteProject(ctx context.Context, projectID string) (bool, error) {
	r.mu.Lock()
	_, ok := r.projects[projectID]
	if !ok {
		r.mu.Unlock()
		return false, nil
	}

	if _, err := r.store.Delete(ctx, ports.KindProject, projectID); err != nil {
		r.mu.Unlock()
		return false, err
	}
	delete(r.projects, projectID)
	r.mu.Unlock()

	if r.collector != nil {
		r.collector.ProjectsDeleted.Inc()
	}
	return true, nil
}

// CreateSession creates and persists a new session and feeds the derived
// indexes
func (r *Repository) CreateSession(ctx context.Context, name, description string, tags []string, metadata map[string]any) (*entities.Session, error) {
	session, err := entities.NewSession(name, description, tags, metadata)
	if err != nil {
		return nil, err
	}
	id := session.ID().String()

	r.mu.Lock()
	if err := r.store.Save(ctx, ports.KindSession, id, session.ToDocument()); err != nil {
		r.mu.Unlock()
		return nil, err
	}
	r.sessions[id] = session
	r.tagIndex.Update(id, nil, session.GetTags())
	r.keywordIndex.IndexSession(id, session.SearchableText())
	r.metadataCache.Put(id, session.GetMetadata())
	r.saveMetadataSnapshot(ctx, session)
	r.mu.Unlock()

	r.updateIndexGauges()
	if r.collector != nil {
		r.collector.SessionsCreated.Inc()
	}
	r.publishEvents(ctx, session)
	return session, nil
}

// GetSession returns a cached session; reads never touch disk
func (r *Repository) GetSession(sessionID string) (*entities.Session, bool) {
	r.mu.RLock()
	session, ok := r.sessions[sessionID]
	r.mu.RUnlock()

	r.recordCacheAccess(ok)
	return session, ok
}

// GetSessions returns all cached sessions sorted by name
func (r *Repository) GetSessions() []*entities.Session {
	r.mu.RLock()
	out := make([]*entities.Session, 0, len(r.sessions))
	for _, session := range r.sessions {
		out = append(out, session)
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		return out[i].Name() < out[j].Name()
	})
	return out
}

// SessionIDs returns every cached session id
func (r *Repository) SessionIDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]string, 0, len(r.sessions))
	for id := range r.sessions {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// UpdateSession applies a mutator to a cached session, persists the
// result and patches the derived indexes. Old tags are captured before
// the mutator runs so the tag index can be patched incrementally; the
// keyword index is updated additively.
func (r *Repository) UpdateSession(ctx context.Context, sessionID string, mutate func(*entities.Session) error) error {
	r.mu.Lock()
	session, ok := r.sessions[sessionID]
	if !ok {
		r.mu.Unlock()
		return pkgerrors.NewNotFound("sessions", sessionID)
	}

	oldTags := session.GetTags()
	snapshot := session.ToDocument()
	if err := mutate(session); err != nil {
		r.mu.Unlock()
		return err
	}

	if err := r.store.Save(ctx, ports.KindSession, sessionID, session.ToDocument()); err != nil {
		// Roll the cache entry back so it never runs ahead of disk
		if restored, restoreErr := entities.SessionFromDocument(snapshot); restoreErr == nil {
			r.sessions[sessionID] = restored
		}
		r.mu.Unlock()
		return err
	}

	r.tagIndex.Update(sessionID, oldTags, session.GetTags())
	r.keywordIndex.IndexSession(sessionID, session.SearchableText())
	r.metadataCache.Put(sessionID, session.GetMetadata())
	r.saveMetadataSnapshot(ctx, session)
	r.mu.Unlock()

	r.updateIndexGauges()
	r.publishEvents(ctx, session)
	return nil
}

// UpdateSessionTags replaces a session's tag set
func (r *Repository) UpdateSessionTags(ctx context.Context, sessionID string, tags []string) error {
	return r.UpdateSession(ctx, sessionID, func(s *entities.Session) error {
		s.SetTags(tags)
		return nil
	})
}

// DeleteSession removes the session file and the cache entry and drops
// the id from the derived indexes. Children (results, states,
// annotations, data, metadata snapshot) are removed only when
// deleteChildren is set. Returns false for an unknown id.
func (r *Repository) DeleteSession(ctx context.Context, sessionID string, deleteChildren bool) (bool, error) {
	r.mu.Lock()
	session, ok := r.sessions[sessionID]
	if !ok {
		r.mu.Unlock()
		return false, nil
	}

	if _, err := r.store.Delete(ctx, ports.KindSession, sessionID); err != nil {
		r.mu.Unlock()
		return false, err
	}
	delete(r.sessions, sessionID)
	r.tagIndex.Remove(sessionID, session.GetTags())
	r.metadataCache.Remove(sessionID)
	r.mu.Unlock()

	if deleteChildren {
		r.deleteSessionChildren(ctx, sessionID)
	}

	r.updateIndexGauges()
	if r.collector != nil {
		r.collector.SessionsDeleted.Inc()
	}
	if r.bus != nil {
		r.bus.Publish(ctx, events.NewSessionDeleted(sessionID, time.Now()))
	}
	return true, nil
}

// SessionsByTag returns the ids of sessions currently carrying the tag
func (r *Repository) SessionsByTag(tag string) []string {
	return r.tagIndex.SessionsByTag(tag)
}

// AvailableTags returns every tag seen this process run, including tags
// whose last session has been untagged
func (r *Repository) AvailableTags() []string {
	return r.tagIndex.AvailableTags()
}

// GetSessionMetadata returns the cached metadata snapshot for a session
func (r *Repository) GetSessionMetadata(sessionID string) (map[string]any, bool) {
	metadata, ok := r.metadataCache.Get(sessionID)
	r.recordCacheAccess(ok)
	return metadata, ok
}

// SaveSessionData persists the session's serialized data-container
// payload. The payload is stored opaquely, never interpreted.
func (r *Repository) SaveSessionData(ctx context.Context, sessionID string, payload any) error {
	r.mu.RLock()
	_, ok := r.sessions[sessionID]
	r.mu.RUnlock()
	if !ok {
		return pkgerrors.NewNotFound("sessions", sessionID)
	}

	if err := r.store.Save(ctx, ports.KindData, sessionID, payload); err != nil {
		return err
	}
	return r.UpdateSession(ctx, sessionID, func(s *entities.Session) error {
		s.AttachDataFile("data/" + sessionID + ".json")
		return nil
	})
}

// LoadSessionData reads the session's serialized data-container payload
func (r *Repository) LoadSessionData(ctx context.Context, sessionID string, out any) error {
	return r.store.Load(ctx, ports.KindData, sessionID, out)
}

// saveMetadataSnapshot writes the per-session metadata passthrough file.
// Failure is best-effort regardless of policy: the snapshot is derived
// data, rebuilt from the session document on the next reload.
func (r *Repository) saveMetadataSnapshot(ctx context.Context, session *entities.Session) {
	id := session.ID().String()
	if err := r.store.Save(ctx, ports.KindMetadata, id, session.GetMetadata()); err != nil {
		r.logger.Warn("failed to write metadata snapshot",
			zap.String("session_id", id),
			zap.Error(err),
		)
	}
}

func (r *Repository) deleteSessionChildren(ctx context.Context, sessionID string) {
	for _, kind := range []ports.Kind{ports.KindResult, ports.KindState, ports.KindAnnotation} {
		if _, err := r.store.DeleteChildren(ctx, kind, sessionID); err != nil {
			r.logger.Warn("failed to delete session children",
				zap.String("session_id", sessionID),
				zap.String("kind", string(kind)),
				zap.Error(err),
			)
		}
	}
	for _, kind := range []ports.Kind{ports.KindData, ports.KindState, ports.KindMetadata} {
		if _, err := r.store.Delete(ctx, kind, sessionID); err != nil {
			r.logger.Warn("failed to delete session file",
				zap.String("session_id", sessionID),
				zap.String("kind", string(kind)),
				zap.Error(err),
			)
		}
	}
}

type eventSource interface {
	GetUncommittedEvents() []events.DomainEvent
	MarkEventsAsCommitted()
}

func (r *Repository) publishEvents(ctx context.Context, source eventSource) {
	evts := source.GetUncommittedEvents()
	source.MarkEventsAsCommitted()
	if r.bus == nil || len(evts) == 0 {
		return
	}
	r.bus.Publish(ctx, evts...)
}

func (r *Repository) recordCacheAccess(hit bool) {
	if r.collector == nil {
		return
	}
	if hit {
		r.collector.CacheHits.Inc()
	} else {
		r.collector.CacheMisses.Inc()
	}
}

func (r *Repository) updateIndexGauges() {
	if r.collector == nil {
		return
	}
	r.collector.TagIndexSize.Set(float64(r.tagIndex.BucketCount()))
	r.collector.KeywordIndexSize.Set(float64(r.keywordIndex.TokenCount()))
}
