package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode"

	application "entomophage/contexts/issue-tracking/project-service/application"
	"entomophage/contexts/issue-tracking/project-service/domain/entities"
	domainerrors "entomophage/contexts/issue-tracking/project-service/domain/errors"
	"entomophage/contexts/issue-tracking/project-service/ports"
	syncv1 "entomophage/contracts/sync/v1"
)

type CreateProjectCommand struct {
	Owner       string
	Name        string
	Website     string
	Description string
	License     string
	TeamName    string
}

// CreateProjectUseCase stores a new project and tells the identity service
// to add it to the owner's project list. Contributors are added afterwards
// through UpdateProjectUseCase.
type CreateProjectUseCase struct {
	Projects  ports.ProjectRepository
	Publisher ports.SyncPublisher
	Clock     ports.Clock
	Logger    *slog.Logger
}

// Execute returns the stored project even when publishing fails; the error
// then wraps domainerrors.ErrSyncUnavailable.
func (u CreateProjectUseCase) Execute(ctx context.Context, cmd CreateProjectCommand) (entities.Project, error) {
	logger := application.ResolveLogger(u.Logger)
	ref, err := syncv1.NewProjectRef(cmd.Owner, cmd.Name)
	if err != nil {
		return entities.Project{}, fmt.Errorf("%w: %w", domainerrors.ErrInvalidProjectRef, err)
	}

	now := currentTime(u.Clock)
	project := entities.Project{
		Owner:        ref.Owner,
		Name:         ref.Name,
		Website:      strings.TrimSpace(cmd.Website),
		Description:  strings.TrimSpace(cmd.Description),
		License:      strings.TrimSpace(cmd.License),
		Contributors: []string{},
		TeamName:     strings.TrimSpace(cmd.TeamName),
		IssueIDs:     []string{},
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := u.Projects.CreateProject(ctx, project); err != nil {
		logger.Error("create project failed",
			"event", "issues_create_project_failed",
			"module", application.ModuleName,
			"layer", "application",
			"project", ref.String(),
			"error", err.Error(),
		)
		return entities.Project{}, err
	}

	if err := u.Publisher.PublishAuthorChanged(ctx, syncv1.ActionCreate, project.Snapshot()); err != nil {
		logger.Error("project created publish failed",
			"event", "issues_project_created_publish_failed",
			"module", application.ModuleName,
			"layer", "application",
			"project", ref.String(),
			"error", err.Error(),
		)
		return project, errors.Join(domainerrors.ErrSyncUnavailable, err)
	}

	logger.Info("project created",
		"event", "issues_project_created",
		"module", application.ModuleName,
		"layer", "application",
		"project", ref.String(),
		"team_name", project.TeamName,
	)
	return project, nil
}

type GetProjectUseCase struct {
	Projects ports.ProjectRepository
}

func (u GetProjectUseCase) Execute(ctx context.Context, owner string, name string) (entities.Project, error) {
	ref, err := syncv1.NewProjectRef(owner, name)
	if err != nil {
		return entities.Project{}, fmt.Errorf("%w: %w", domainerrors.ErrInvalidProjectRef, err)
	}
	return u.Projects.GetProject(ctx, ref)
}

type ListProjectsByTeamUseCase struct {
	Projects ports.ProjectRepository
}

func (u ListProjectsByTeamUseCase) Execute(ctx context.Context, teamName string) ([]entities.Project, error) {
	teamName = strings.TrimSpace(teamName)
	if teamName == "" {
		return nil, domainerrors.ErrInvalidTeamName
	}
	return u.Projects.ListProjectsByTeam(ctx, teamName)
}

// UpdateProjectCommand patches a project. Nil fields are left unchanged.
type UpdateProjectCommand struct {
	Owner        string
	Name         string
	Website      *string
	Description  *string
	License      *string
	TeamName     *string
	Contributors *[]string
}

// UpdateProjectUseCase applies a patch and, when the contributor set changed,
// sends the prior snapshot and the new list to the identity service.
type UpdateProjectUseCase struct {
	Projects  ports.ProjectRepository
	Publisher ports.SyncPublisher
	Clock     ports.Clock
	Logger    *slog.Logger
}

func (u UpdateProjectUseCase) Execute(ctx context.Context, cmd UpdateProjectCommand) (entities.Project, error) {
	logger := application.ResolveLogger(u.Logger)
	ref, err := syncv1.NewProjectRef(cmd.Owner, cmd.Name)
	if err != nil {
		return entities.Project{}, fmt.Errorf("%w: %w", domainerrors.ErrInvalidProjectRef, err)
	}

	var contributors []string
	if cmd.Contributors != nil {
		contributors, err = normalizeContributors(*cmd.Contributors)
		if err != nil {
			return entities.Project{}, err
		}
	}

	prior, err := u.Projects.GetProject(ctx, ref)
	if err != nil {
		return entities.Project{}, err
	}
	next := prior.Clone()
	if cmd.Website != nil {
		next.Website = strings.TrimSpace(*cmd.Website)
	}
	if cmd.Description != nil {
		next.Description = strings.TrimSpace(*cmd.Description)
	}
	if cmd.License != nil {
		next.License = strings.TrimSpace(*cmd.License)
	}
	if cmd.TeamName != nil {
		next.TeamName = strings.TrimSpace(*cmd.TeamName)
	}
	if cmd.Contributors != nil {
		next.Contributors = contributors
	}
	next.UpdatedAt = currentTime(u.Clock)
	if err := u.Projects.SaveProject(ctx, next); err != nil {
		return entities.Project{}, err
	}

	removed, added := syncv1.Diff(prior.Contributors, next.Contributors)
	if len(removed) == 0 && len(added) == 0 {
		return next, nil
	}
	if err := u.Publisher.PublishContributorsChanged(ctx, prior.Snapshot(), next.Contributors); err != nil {
		logger.Error("contributors changed publish failed",
			"event", "issues_contributors_changed_publish_failed",
			"module", application.ModuleName,
			"layer", "application",
			"project", ref.String(),
			"error", err.Error(),
		)
		return next, errors.Join(domainerrors.ErrSyncUnavailable, err)
	}

	logger.Info("project contributors updated",
		"event", "issues_project_contributors_updated",
		"module", application.ModuleName,
		"layer", "application",
		"project", ref.String(),
		"removed_count", len(removed),
		"added_count", len(added),
	)
	return next, nil
}

// DeleteProjectUseCase removes a project and tells the identity service to
// drop it from the owner's project list.
type DeleteProjectUseCase struct {
	Projects  ports.ProjectRepository
	Publisher ports.SyncPublisher
	Logger    *slog.Logger
}

func (u DeleteProjectUseCase) Execute(ctx context.Context, owner string, name string) (entities.Project, error) {
	logger := application.ResolveLogger(u.Logger)
	ref, err := syncv1.NewProjectRef(owner, name)
	if err != nil {
		return entities.Project{}, fmt.Errorf("%w: %w", domainerrors.ErrInvalidProjectRef, err)
	}
	project, err := u.Projects.GetProject(ctx, ref)
	if err != nil {
		return entities.Project{}, err
	}
	if err := u.Projects.DeleteProject(ctx, ref); err != nil {
		return entities.Project{}, err
	}

	if err := u.Publisher.PublishAuthorChanged(ctx, syncv1.ActionDelete, project.Snapshot()); err != nil {
		logger.Error("project deleted publish failed",
			"event", "issues_project_deleted_publish_failed",
			"module", application.ModuleName,
			"layer", "application",
			"project", ref.String(),
			"error", err.Error(),
		)
		return project, errors.Join(domainerrors.ErrSyncUnavailable, err)
	}

	logger.Info("project deleted",
		"event", "issues_project_deleted",
		"module", application.ModuleName,
		"layer", "application",
		"project", ref.String(),
	)
	return project, nil
}

// normalizeContributors trims usernames and drops repeats, keeping first-seen order.
func normalizeContributors(raw []string) ([]string, error) {
	seen := make(map[string]struct{}, len(raw))
	out := make([]string, 0, len(raw))
	for _, item := range raw {
		username := strings.TrimSpace(item)
		if username == "" || strings.Contains(username, "/") || strings.IndexFunc(username, unicode.IsSpace) >= 0 {
			return nil, fmt.Errorf("%w: %q", domainerrors.ErrInvalidContributor, item)
		}
		if _, ok := seen[username]; ok {
			continue
		}
		seen[username] = struct{}{}
		out = append(out, username)
	}
	return out, nil
}

func currentTime(clock ports.Clock) time.Time {
	if clock == nil {
		return time.Now().UTC()
	}
	return clock.Now().UTC()
}
