package ports

import (
	"context"
	"time"

	"entomophage/contexts/identity-access/user-service/domain/entities"
	syncv1 "entomophage/contracts/sync/v1"
)

// Clock abstracts current time for deterministic tests.
type Clock interface {
	Now() time.Time
}

// UserRepository is the read/write boundary for users. Not-found lookups
// return domainerrors.ErrUserNotFound.
type UserRepository interface {
	GetUser(ctx context.Context, username string) (entities.User, error)
	CreateUser(ctx context.Context, user entities.User) error
	SaveUser(ctx context.Context, user entities.User) error
	DeleteUser(ctx context.Context, username string) error
	ListUsersByTeam(ctx context.Context, teamName string) ([]entities.User, error)
}

type TeamRepository interface {
	GetTeam(ctx context.Context, name string) (entities.Team, error)
	CreateTeam(ctx context.Context, team entities.Team) error
	SaveTeam(ctx context.Context, team entities.Team) error
	// RenameTeam replaces the record stored under oldName with team.
	RenameTeam(ctx context.Context, oldName string, team entities.Team) error
	DeleteTeam(ctx context.Context, name string) error
}

// SyncPublisher emits identity-side changes to the issue service.
type SyncPublisher interface {
	PublishTeamRenamed(ctx context.Context, oldName string, newName string) error
	PublishProjectsChanged(ctx context.Context, prior syncv1.UserSnapshot, projects []syncv1.ProjectRef) error
}
