package memory

import (
	"context"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"entomophage/contexts/issue-tracking/project-service/domain/entities"
	domainerrors "entomophage/contexts/issue-tracking/project-service/domain/errors"
	syncv1 "entomophage/contracts/sync/v1"
)

// Store keeps projects keyed by their owner/name reference.
type Store struct {
	mu       sync.RWMutex
	projects map[string]entities.Project
	writes   atomic.Int64
	now      func() time.Time
}

func NewStore() *Store {
	return &Store{
		projects: make(map[string]entities.Project),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func (s *Store) Now() time.Time {
	return s.now()
}

// Writes counts successful mutations since the store was created.
func (s *Store) Writes() int64 {
	return s.writes.Load()
}

func (s *Store) GetProject(_ context.Context, ref syncv1.ProjectRef) (entities.Project, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	project, ok := s.projects[ref.String()]
	if !ok {
		return entities.Project{}, domainerrors.ErrProjectNotFound
	}
	return project.Clone(), nil
}

func (s *Store) CreateProject(_ context.Context, project entities.Project) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := project.Ref().String()
	if _, ok := s.projects[key]; ok {
		return domainerrors.ErrProjectAlreadyExists
	}
	s.projects[key] = project.Clone()
	s.writes.Add(1)
	return nil
}

func (s *Store) SaveProject(ctx context.Context, project entities.Project) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	key := project.Ref().String()
	if _, ok := s.projects[key]; !ok {
		return domainerrors.ErrProjectNotFound
	}
	s.projects[key] = project.Clone()
	s.writes.Add(1)
	return nil
}

func (s *Store) DeleteProject(_ context.Context, ref syncv1.ProjectRef) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.projects[ref.String()]; !ok {
		return domainerrors.ErrProjectNotFound
	}
	delete(s.projects, ref.String())
	s.writes.Add(1)
	return nil
}

func (s *Store) ListProjectsByTeam(_ context.Context, teamName string) ([]entities.Project, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]entities.Project, 0)
	for _, project := range s.projects {
		if project.TeamName == teamName {
			items = append(items, project.Clone())
		}
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].Ref().String() < items[j].Ref().String()
	})
	return items, nil
}

func (s *Store) RenameTeam(ctx context.Context, oldName string, newName string) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	updated := 0
	now := s.now()
	for key, project := range s.projects {
		if project.TeamName != oldName {
			continue
		}
		project.TeamName = newName
		project.UpdatedAt = now
		s.projects[key] = project
		updated++
	}
	if updated > 0 {
		s.writes.Add(1)
	}
	return updated, nil
}
