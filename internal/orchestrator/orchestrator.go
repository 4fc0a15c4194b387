package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/narratif/studio/internal/assets"
	"github.com/narratif/studio/internal/gateway"
	"github.com/narratif/studio/internal/models"
	"github.com/narratif/studio/internal/pipeline"
	"github.com/narratif/studio/internal/store"
)

// ErrProjectNotFound is returned for operations on ids the library does
// not hold.
var ErrProjectNotFound = errors.New("project not found")

// Notifier receives project snapshots as they change, including the
// transient states entered mid-generation.
type Notifier interface {
	ProjectChanged(p *models.Project)
	ProjectDeleted(id string)
}

// Orchestrator is the single entry point for project operations. It
// serializes work per project, persists every state change, and pushes
// snapshots to the notifier. Long provider calls for per-shot media run
// with the project lock released; their results are applied against a
// fresh load so work on a deleted project lands nowhere.
type Orchestrator struct {
	projects *store.ProjectStore
	settings *store.SettingsStore
	pipe     *pipeline.Pipeline
	gw       *gateway.Gateway
	assets   assets.Store
	logger   *zap.Logger
	notifier Notifier

	locksMu sync.Mutex
	locks   map[string]*sync.Mutex
}

func New(projects *store.ProjectStore, settings *store.SettingsStore, pipe *pipeline.Pipeline, gw *gateway.Gateway, assetStore assets.Store, logger *zap.Logger) *Orchestrator {
	o := &Orchestrator{
		projects: projects,
		settings: settings,
		pipe:     pipe,
		gw:       gw,
		assets:   assetStore,
		logger:   logger,
		locks:    make(map[string]*sync.Mutex),
	}
	pipe.SetNotifier(func(p *models.Project) {
		if err := projects.Put(context.Background(), p); err != nil {
			logger.Warn("Failed to persist project snapshot", zap.String("projectId", p.ID), zap.Error(err))
		}
		o.broadcast(p)
	})
	return o
}

// SetNotifier installs the change sink. Safe to leave unset in tests.
func (o *Orchestrator) SetNotifier(n Notifier) {
	o.notifier = n
}

func (o *Orchestrator) broadcast(p *models.Project) {
	if o.notifier != nil {
		o.notifier.ProjectChanged(p)
	}
}

func (o *Orchestrator) lock(id string) func() {
	o.locksMu.Lock()
	mu, ok := o.locks[id]
	if !ok {
		mu = &sync.Mutex{}
		o.locks[id] = mu
	}
	o.locksMu.Unlock()
	mu.Lock()
	return mu.Unlock
}

// withProject runs fn on a loaded project under its lock, then persists
// and broadcasts whatever state fn left behind. Fallback stages set on
// failure are persisted too, which is why the write happens regardless
// of fn's error.
func (o *Orchestrator) withProject(ctx context.Context, id string, fn func(p *models.Project, settings models.ProviderSettings) error) (*models.Project, error) {
	unlock := o.lock(id)
	defer unlock()

	p, ok := o.projects.Get(ctx, id)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrProjectNotFound, id)
	}

	settings := o.settings.Get(ctx)
	opErr := fn(p, settings)

	if err := o.projects.Put(ctx, p); err != nil {
		o.logger.Error("Failed to persist project", zap.String("projectId", p.ID), zap.Error(err))
		if opErr == nil {
			opErr = err
		}
	}
	o.broadcast(p)
	return p, opErr
}

// requireCredential rejects generation before any state changes when no
// usable key exists for the active provider.
func (o *Orchestrator) requireCredential(settings models.ProviderSettings) error {
	if !o.gw.HasUsableCredential(settings) {
		return fmt.Errorf("%w: configure a provider key first", gateway.ErrMissingCredential)
	}
	return nil
}

// ListProjects returns the library sorted by recency.
func (o *Orchestrator) ListProjects(ctx context.Context) []*models.Project {
	return o.projects.List(ctx)
}

// GetProject fetches one project.
func (o *Orchestrator) GetProject(ctx context.Context, id string) (*models.Project, error) {
	p, ok := o.projects.Get(ctx, id)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrProjectNotFound, id)
	}
	return p, nil
}

// CreateProject starts a new empty project at idea input.
func (o *Orchestrator) CreateProject(ctx context.Context) (*models.Project, error) {
	p := models.NewProject(uuid.New().String())
	if err := o.projects.Put(ctx, p); err != nil {
		return nil, err
	}
	o.broadcast(p)
	return p, nil
}

// DeleteProject removes a project. In-flight media results for it are
// discarded when they try to apply.
func (o *Orchestrator) DeleteProject(ctx context.Context, id string) error {
	unlock := o.lock(id)
	defer unlock()
	if err := o.projects.Delete(ctx, id); err != nil {
		return err
	}
	if o.notifier != nil {
		o.notifier.ProjectDeleted(id)
	}
	return nil
}

// SaveProject names and persists a project explicitly.
func (o *Orchestrator) SaveProject(ctx context.Context, id string) (*models.Project, error) {
	return o.withProject(ctx, id, func(p *models.Project, _ models.ProviderSettings) error {
		if err := o.pipe.PrepareSave(p); err != nil {
			return err
		}
		p.Touch()
		return nil
	})
}

// RenameProject sets the display name.
func (o *Orchestrator) RenameProject(ctx context.Context, id, name string) (*models.Project, error) {
	return o.withProject(ctx, id, func(p *models.Project, _ models.ProviderSettings) error {
		return o.pipe.Rename(p, name)
	})
}

// GetSettings returns the provider settings.
func (o *Orchestrator) GetSettings(ctx context.Context) models.ProviderSettings {
	return o.settings.Get(ctx)
}

// PutSettings persists the provider settings.
func (o *Orchestrator) PutSettings(ctx context.Context, settings models.ProviderSettings) error {
	if settings.Provider == "" {
		settings.Provider = models.ProviderGemini
	}
	return o.settings.Put(ctx, settings)
}

// ViralTitles generates a batch of story title ideas. No project state
// is involved.
func (o *Orchestrator) ViralTitles(ctx context.Context) ([]string, error) {
	settings := o.settings.Get(ctx)
	if err := o.requireCredential(settings); err != nil {
		return nil, err
	}
	return o.gw.GenerateViralTitles(ctx, settings)
}
