package workers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	application "entomophage/contexts/issue-tracking/project-service/application"
	"entomophage/contexts/issue-tracking/project-service/domain/entities"
	domainerrors "entomophage/contexts/issue-tracking/project-service/domain/errors"
	"entomophage/contexts/issue-tracking/project-service/ports"
	syncv1 "entomophage/contracts/sync/v1"
)

// SyncConsumer reconciles projects from identity-service envelopes.
type SyncConsumer struct {
	Projects    ports.ProjectRepository
	Clock       ports.Clock
	FanoutLimit int
	Logger      *slog.Logger
}

// Handlers returns the routing table for the issues inbound queue.
func (c SyncConsumer) Handlers() map[syncv1.ChangedKey]syncv1.Handler {
	return map[syncv1.ChangedKey]syncv1.Handler{
		syncv1.IdentityTeamNameChanged:   c.HandleTeamRenamed,
		syncv1.IdentityProjectIDsChanged: c.HandleProjectsChanged,
	}
}

// HandleTeamRenamed moves every project filed under the old team name to the
// new one. The update is unconditional and does not check the team exists.
func (c SyncConsumer) HandleTeamRenamed(ctx context.Context, envelope syncv1.Envelope) (syncv1.ApplyResult, error) {
	payload, err := syncv1.ParseTeamRenamed(envelope)
	if err != nil {
		return syncv1.ApplyResult{}, err
	}
	updated, err := c.Projects.RenameTeam(ctx, payload.OldName, payload.NewName)
	if err != nil {
		return syncv1.ApplyResult{}, fmt.Errorf("rename team %s on projects: %w", payload.OldName, err)
	}

	application.ResolveLogger(c.Logger).Info("team rename applied to projects",
		"event", "issues_sync_team_renamed_applied",
		"module", application.ModuleName,
		"layer", "worker",
		"old_name", payload.OldName,
		"new_name", payload.NewName,
		"project_count", updated,
	)
	return syncv1.ApplyResult{Attempted: updated, Applied: updated}, nil
}

// HandleProjectsChanged diffs the user's prior project references against the
// new list: the user leaves the contributors of removed projects and joins
// those of added projects. Missing projects are counted as failures.
func (c SyncConsumer) HandleProjectsChanged(ctx context.Context, envelope syncv1.Envelope) (syncv1.ApplyResult, error) {
	payload, err := syncv1.ParseProjectsChanged(envelope)
	if err != nil {
		return syncv1.ApplyResult{}, err
	}
	username := payload.User.Username

	removed, added := syncv1.DiffRefs(payload.User.Projects, payload.Projects)
	ops := make(map[string]func(context.Context) error, len(removed)+len(added))
	keys := make([]string, 0, len(removed)+len(added))
	for _, ref := range removed {
		ops[ref.String()] = func(ctx context.Context) error { return c.removeContributor(ctx, ref, username) }
		keys = append(keys, ref.String())
	}
	for _, ref := range added {
		ops[ref.String()] = func(ctx context.Context) error { return c.appendContributor(ctx, ref, username) }
		keys = append(keys, ref.String())
	}

	result := syncv1.Fanout(ctx, c.FanoutLimit, keys, func(ctx context.Context, key string) error {
		return ops[key](ctx)
	})
	application.ResolveLogger(c.Logger).Debug("project list diff applied",
		"event", "issues_sync_projects_applied",
		"module", application.ModuleName,
		"layer", "worker",
		"username", username,
		"removed_count", len(removed),
		"added_count", len(added),
		"applied", result.Applied,
	)
	return result, nil
}

// appendContributor mirrors the identity side and does not skip a username
// already present.
func (c SyncConsumer) appendContributor(ctx context.Context, ref syncv1.ProjectRef, username string) error {
	project, err := c.loadProject(ctx, ref)
	if err != nil {
		return err
	}
	if project.Contributors == nil {
		project.Contributors = []string{}
	}
	project.Contributors = append(project.Contributors, username)
	project.UpdatedAt = c.now()
	return c.Projects.SaveProject(ctx, project)
}

func (c SyncConsumer) removeContributor(ctx context.Context, ref syncv1.ProjectRef, username string) error {
	project, err := c.loadProject(ctx, ref)
	if err != nil {
		return err
	}
	kept := make([]string, 0, len(project.Contributors))
	for _, contributor := range project.Contributors {
		if contributor != username {
			kept = append(kept, contributor)
		}
	}
	if len(kept) == len(project.Contributors) {
		return nil
	}
	project.Contributors = kept
	project.UpdatedAt = c.now()
	return c.Projects.SaveProject(ctx, project)
}

func (c SyncConsumer) loadProject(ctx context.Context, ref syncv1.ProjectRef) (entities.Project, error) {
	project, err := c.Projects.GetProject(ctx, ref)
	if errors.Is(err, domainerrors.ErrProjectNotFound) {
		return entities.Project{}, fmt.Errorf("%w: project %s", syncv1.ErrReferencedEntityMissing, ref)
	}
	return project, err
}

func (c SyncConsumer) now() time.Time {
	if c.Clock == nil {
		return time.Now().UTC()
	}
	return c.Clock.Now().UTC()
}
