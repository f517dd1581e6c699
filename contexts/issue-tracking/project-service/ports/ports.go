package ports

import (
	"context"
	"time"

	"entomophage/contexts/issue-tracking/project-service/domain/entities"
	syncv1 "entomophage/contracts/sync/v1"
)

// Clock abstracts current time for deterministic tests.
type Clock interface {
	Now() time.Time
}

// ProjectRepository is the read/write boundary for projects. Not-found
// lookups return domainerrors.ErrProjectNotFound.
type ProjectRepository interface {
	GetProject(ctx context.Context, ref syncv1.ProjectRef) (entities.Project, error)
	CreateProject(ctx context.Context, project entities.Project) error
	SaveProject(ctx context.Context, project entities.Project) error
	DeleteProject(ctx context.Context, ref syncv1.ProjectRef) error
	ListProjectsByTeam(ctx context.Context, teamName string) ([]entities.Project, error)
	// RenameTeam moves every project under oldName to newName and returns
	// how many rows changed.
	RenameTeam(ctx context.Context, oldName string, newName string) (int, error)
}

// SyncPublisher emits issue-side changes to the identity service.
type SyncPublisher interface {
	PublishAuthorChanged(ctx context.Context, action syncv1.Action, project syncv1.ProjectSnapshot) error
	PublishContributorsChanged(ctx context.Context, prior syncv1.ProjectSnapshot, contributors []string) error
}
