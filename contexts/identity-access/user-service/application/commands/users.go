package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	application "entomophage/contexts/identity-access/user-service/application"
	"entomophage/contexts/identity-access/user-service/domain/entities"
	domainerrors "entomophage/contexts/identity-access/user-service/domain/errors"
	"entomophage/contexts/identity-access/user-service/ports"
	syncv1 "entomophage/contracts/sync/v1"
)

type CreateUserCommand struct {
	Username string
	Email    string
	Name     string
	TeamName string
}

// CreateUserUseCase registers a user and, when a team is named, joins it.
type CreateUserUseCase struct {
	Users  ports.UserRepository
	Teams  ports.TeamRepository
	Clock  ports.Clock
	Logger *slog.Logger
}

func (u CreateUserUseCase) Execute(ctx context.Context, cmd CreateUserCommand) (entities.User, error) {
	logger := application.ResolveLogger(u.Logger)
	username := strings.TrimSpace(cmd.Username)
	if username == "" || strings.ContainsAny(username, "/ \t") {
		return entities.User{}, domainerrors.ErrInvalidUsername
	}
	email := strings.TrimSpace(cmd.Email)
	if email != "" && !strings.Contains(email, "@") {
		return entities.User{}, domainerrors.ErrInvalidEmail
	}

	now := currentTime(u.Clock)
	user := entities.User{
		Username:  username,
		Email:     email,
		Name:      strings.TrimSpace(cmd.Name),
		TeamName:  strings.TrimSpace(cmd.TeamName),
		Projects:  []syncv1.ProjectRef{},
		CreatedAt: now,
		UpdatedAt: now,
	}

	var team entities.Team
	if user.TeamName != "" {
		found, err := u.Teams.GetTeam(ctx, user.TeamName)
		if err != nil {
			return entities.User{}, err
		}
		team = found
	}

	if err := u.Users.CreateUser(ctx, user); err != nil {
		logger.Error("create user failed",
			"event", "identity_create_user_failed",
			"module", application.ModuleName,
			"layer", "application",
			"username", username,
			"error", err.Error(),
		)
		return entities.User{}, err
	}

	if user.TeamName != "" && !team.HasMember(username) {
		team.Members = append(team.Members, username)
		team.UpdatedAt = now
		if err := u.Teams.SaveTeam(ctx, team); err != nil {
			return entities.User{}, err
		}
	}

	logger.Info("user created",
		"event", "identity_user_created",
		"module", application.ModuleName,
		"layer", "application",
		"username", username,
		"team_name", user.TeamName,
	)
	return user, nil
}

type GetUserUseCase struct {
	Users ports.UserRepository
}

func (u GetUserUseCase) Execute(ctx context.Context, username string) (entities.User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return entities.User{}, domainerrors.ErrInvalidUsername
	}
	return u.Users.GetUser(ctx, username)
}

type UpdateUserProjectsCommand struct {
	Username string
	Projects []string
}

// UpdateUserProjectsUseCase replaces a user's project list and tells the
// issue service which contributor lists to adjust.
type UpdateUserProjectsUseCase struct {
	Users     ports.UserRepository
	Publisher ports.SyncPublisher
	Clock     ports.Clock
	Logger    *slog.Logger
}

// Execute returns the saved user even when publishing fails; the error then
// wraps domainerrors.ErrSyncUnavailable.
func (u UpdateUserProjectsUseCase) Execute(ctx context.Context, cmd UpdateUserProjectsCommand) (entities.User, error) {
	logger := application.ResolveLogger(u.Logger)
	projects := make([]syncv1.ProjectRef, 0, len(cmd.Projects))
	for _, raw := range cmd.Projects {
		ref, err := syncv1.ParseProjectRef(strings.TrimSpace(raw))
		if err != nil {
			return entities.User{}, fmt.Errorf("%w: %w", domainerrors.ErrInvalidProjectRef, err)
		}
		projects = append(projects, ref)
	}

	prior, err := u.Users.GetUser(ctx, strings.TrimSpace(cmd.Username))
	if err != nil {
		return entities.User{}, err
	}
	next := prior.Clone()
	next.Projects = projects
	next.UpdatedAt = currentTime(u.Clock)
	if err := u.Users.SaveUser(ctx, next); err != nil {
		return entities.User{}, err
	}

	removed, added := syncv1.DiffRefs(prior.Projects, projects)
	if len(removed) == 0 && len(added) == 0 {
		return next, nil
	}
	if err := u.Publisher.PublishProjectsChanged(ctx, prior.Snapshot(), projects); err != nil {
		logger.Error("projects changed publish failed",
			"event", "identity_projects_changed_publish_failed",
			"module", application.ModuleName,
			"layer", "application",
			"username", next.Username,
			"error", err.Error(),
		)
		return next, errors.Join(domainerrors.ErrSyncUnavailable, err)
	}

	logger.Info("user projects updated",
		"event", "identity_user_projects_updated",
		"module", application.ModuleName,
		"layer", "application",
		"username", next.Username,
		"removed_count", len(removed),
		"added_count", len(added),
	)
	return next, nil
}

// DeleteUserUseCase removes a user and drops it from its team's members.
type DeleteUserUseCase struct {
	Users  ports.UserRepository
	Teams  ports.TeamRepository
	Clock  ports.Clock
	Logger *slog.Logger
}

func (u DeleteUserUseCase) Execute(ctx context.Context, username string) error {
	logger := application.ResolveLogger(u.Logger)
	user, err := u.Users.GetUser(ctx, strings.TrimSpace(username))
	if err != nil {
		return err
	}
	if err := u.Users.DeleteUser(ctx, user.Username); err != nil {
		return err
	}

	if user.TeamName != "" {
		team, err := u.Teams.GetTeam(ctx, user.TeamName)
		switch {
		case errors.Is(err, domainerrors.ErrTeamNotFound):
		case err != nil:
			return err
		default:
			team.Members = removeString(team.Members, user.Username)
			if team.Leader == user.Username {
				team.Leader = ""
			}
			team.UpdatedAt = currentTime(u.Clock)
			if err := u.Teams.SaveTeam(ctx, team); err != nil {
				return err
			}
		}
	}

	logger.Info("user deleted",
		"event", "identity_user_deleted",
		"module", application.ModuleName,
		"layer", "application",
		"username", user.Username,
		"team_name", user.TeamName,
	)
	return nil
}

func currentTime(clock ports.Clock) time.Time {
	if clock == nil {
		return time.Now().UTC()
	}
	return clock.Now().UTC()
}

func removeString(items []string, target string) []string {
	kept := make([]string, 0, len(items))
	for _, item := range items {
		if item != target {
			kept = append(kept, item)
		}
	}
	return kept
}
