package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"sync"

	"go.uber.org/zap"

	"github.com/narratif/studio/internal/models"
)

const projectLibraryKey = "narratifProjectLibrary"

// ProjectStore persists the whole project library under one key and
// serves it sorted by recency. Corrupt or missing persisted data degrades
// to an empty library rather than an error; write failures propagate so
// the caller can report them, but the in-memory state they were asked to
// persist is never rolled back.
type ProjectStore struct {
	kv     KV
	logger *zap.Logger

	// mu serializes read-modify-write cycles on the library key.
	mu sync.Mutex
}

func NewProjectStore(kv KV, logger *zap.Logger) *ProjectStore {
	return &ProjectStore{kv: kv, logger: logger}
}

// List returns all projects sorted by lastModified descending.
func (s *ProjectStore) List(ctx context.Context) []*models.Project {
	data, err := s.kv.Get(ctx, projectLibraryKey)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			s.logger.Warn("Failed to load project library", zap.Error(err))
		}
		return []*models.Project{}
	}

	var projects []*models.Project
	if err := json.Unmarshal(data, &projects); err != nil {
		s.logger.Warn("Corrupt project library, starting empty", zap.Error(err))
		return []*models.Project{}
	}

	sort.SliceStable(projects, func(i, j int) bool {
		return projects[i].LastModified > projects[j].LastModified
	})
	return projects
}

// Get fetches one project by id; the second return is false when absent.
func (s *ProjectStore) Get(ctx context.Context, id string) (*models.Project, bool) {
	for _, p := range s.List(ctx) {
		if p.ID == id {
			return p, true
		}
	}
	return nil, false
}

// Put upserts a project by id.
func (s *ProjectStore) Put(ctx context.Context, project *models.Project) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	projects := s.List(ctx)

	replaced := false
	for i, p := range projects {
		if p.ID == project.ID {
			projects[i] = project
			replaced = true
			break
		}
	}
	if !replaced {
		projects = append([]*models.Project{project}, projects...)
	}

	return s.write(ctx, projects)
}

// Delete removes a project by id. Deleting an absent id is not an error.
func (s *ProjectStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	projects := s.List(ctx)
	kept := projects[:0]
	for _, p := range projects {
		if p.ID != id {
			kept = append(kept, p)
		}
	}
	return s.write(ctx, kept)
}

func (s *ProjectStore) write(ctx context.Context, projects []*models.Project) error {
	data, err := json.Marshal(projects)
	if err != nil {
		return fmt.Errorf("failed to marshal project library: %w", err)
	}
	if err := s.kv.Set(ctx, projectLibraryKey, data); err != nil {
		return fmt.Errorf("failed to persist project library: %w", err)
	}
	return nil
}
