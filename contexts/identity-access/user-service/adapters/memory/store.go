package memory

import (
	"context"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"entomophage/contexts/identity-access/user-service/domain/entities"
	domainerrors "entomophage/contexts/identity-access/user-service/domain/errors"
)

// Store is an in-memory adapter for users and teams used by local runs and
// tests. Every read returns a copy.
type Store struct {
	mu     sync.RWMutex
	users  map[string]entities.User
	teams  map[string]entities.Team
	writes atomic.Int64
	now    func() time.Time
}

func NewStore() *Store {
	return &Store{
		users: make(map[string]entities.User),
		teams: make(map[string]entities.Team),
		now:   func() time.Time { return time.Now().UTC() },
	}
}

// Now implements ports.Clock.
func (s *Store) Now() time.Time {
	return s.now()
}

// Writes counts successful mutations since the store was created.
func (s *Store) Writes() int64 {
	return s.writes.Load()
}

func (s *Store) GetUser(_ context.Context, username string) (entities.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.users[username]
	if !ok {
		return entities.User{}, domainerrors.ErrUserNotFound
	}
	return user.Clone(), nil
}

func (s *Store) CreateUser(_ context.Context, user entities.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[user.Username]; ok {
		return domainerrors.ErrUserAlreadyExists
	}
	s.users[user.Username] = user.Clone()
	s.writes.Add(1)
	return nil
}

func (s *Store) SaveUser(ctx context.Context, user entities.User) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[user.Username]; !ok {
		return domainerrors.ErrUserNotFound
	}
	s.users[user.Username] = user.Clone()
	s.writes.Add(1)
	return nil
}

func (s *Store) DeleteUser(_ context.Context, username string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[username]; !ok {
		return domainerrors.ErrUserNotFound
	}
	delete(s.users, username)
	s.writes.Add(1)
	return nil
}

func (s *Store) ListUsersByTeam(_ context.Context, teamName string) ([]entities.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]entities.User, 0)
	for _, user := range s.users {
		if user.TeamName == teamName {
			items = append(items, user.Clone())
		}
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].Username < items[j].Username
	})
	return items, nil
}

func (s *Store) GetTeam(_ context.Context, name string) (entities.Team, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	team, ok := s.teams[name]
	if !ok {
		return entities.Team{}, domainerrors.ErrTeamNotFound
	}
	return team.Clone(), nil
}

func (s *Store) CreateTeam(_ context.Context, team entities.Team) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.teams[team.Name]; ok {
		return domainerrors.ErrTeamAlreadyExists
	}
	s.teams[team.Name] = team.Clone()
	s.writes.Add(1)
	return nil
}

func (s *Store) SaveTeam(_ context.Context, team entities.Team) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.teams[team.Name]; !ok {
		return domainerrors.ErrTeamNotFound
	}
	s.teams[team.Name] = team.Clone()
	s.writes.Add(1)
	return nil
}

func (s *Store) RenameTeam(_ context.Context, oldName string, team entities.Team) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.teams[oldName]; !ok {
		return domainerrors.ErrTeamNotFound
	}
	if _, ok := s.teams[team.Name]; ok && team.Name != oldName {
		return domainerrors.ErrTeamAlreadyExists
	}
	delete(s.teams, oldName)
	s.teams[team.Name] = team.Clone()
	s.writes.Add(1)
	return nil
}

func (s *Store) DeleteTeam(_ context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.teams[name]; !ok {
		return domainerrors.ErrTeamNotFound
	}
	delete(s.teams, name)
	s.writes.Add(1)
	return nil
}
