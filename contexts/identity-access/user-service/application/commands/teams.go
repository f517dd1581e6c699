package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	application "entomophage/contexts/identity-access/user-service/application"
	"entomophage/contexts/identity-access/user-service/domain/entities"
	domainerrors "entomophage/contexts/identity-access/user-service/domain/errors"
	"entomophage/contexts/identity-access/user-service/ports"
	syncv1 "entomophage/contracts/sync/v1"
)

type CreateTeamCommand struct {
	Name    string
	Leader  string
	Website string
}

// CreateTeamUseCase creates a team; the leader, when given, becomes its first member.
type CreateTeamUseCase struct {
	Teams  ports.TeamRepository
	Users  ports.UserRepository
	Clock  ports.Clock
	Logger *slog.Logger
}

func (u CreateTeamUseCase) Execute(ctx context.Context, cmd CreateTeamCommand) (entities.Team, error) {
	logger := application.ResolveLogger(u.Logger)
	name := strings.TrimSpace(cmd.Name)
	if name == "" {
		return entities.Team{}, domainerrors.ErrInvalidTeamName
	}

	now := currentTime(u.Clock)
	team := entities.Team{
		Name:      name,
		Leader:    strings.TrimSpace(cmd.Leader),
		Website:   strings.TrimSpace(cmd.Website),
		Members:   []string{},
		Projects:  []string{},
		CreatedAt: now,
		UpdatedAt: now,
	}

	var leader entities.User
	if team.Leader != "" {
		found, err := u.Users.GetUser(ctx, team.Leader)
		if err != nil {
			return entities.Team{}, err
		}
		leader = found
		team.Members = append(team.Members, team.Leader)
	}

	if err := u.Teams.CreateTeam(ctx, team); err != nil {
		logger.Error("create team failed",
			"event", "identity_create_team_failed",
			"module", application.ModuleName,
			"layer", "application",
			"team_name", name,
			"error", err.Error(),
		)
		return entities.Team{}, err
	}

	if team.Leader != "" && leader.TeamName != name {
		leader.TeamName = name
		leader.UpdatedAt = now
		if err := u.Users.SaveUser(ctx, leader); err != nil {
			return entities.Team{}, err
		}
	}

	logger.Info("team created",
		"event", "identity_team_created",
		"module", application.ModuleName,
		"layer", "application",
		"team_name", name,
		"leader", team.Leader,
	)
	return team, nil
}

type GetTeamUseCase struct {
	Teams ports.TeamRepository
}

func (u GetTeamUseCase) Execute(ctx context.Context, name string) (entities.Team, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return entities.Team{}, domainerrors.ErrInvalidTeamName
	}
	return u.Teams.GetTeam(ctx, name)
}

type RenameTeamCommand struct {
	Name    string
	NewName string
}

type RenameTeamResult struct {
	Team    entities.Team
	Members syncv1.ApplyResult
}

// RenameTeamUseCase renames the team record, rewrites every member's team
// name, then publishes exactly one rename envelope for the issue service.
type RenameTeamUseCase struct {
	Teams       ports.TeamRepository
	Users       ports.UserRepository
	Publisher   ports.SyncPublisher
	Clock       ports.Clock
	FanoutLimit int
	Logger      *slog.Logger
}

func (u RenameTeamUseCase) Execute(ctx context.Context, cmd RenameTeamCommand) (RenameTeamResult, error) {
	logger := application.ResolveLogger(u.Logger)
	oldName := strings.TrimSpace(cmd.Name)
	newName := strings.TrimSpace(cmd.NewName)
	if oldName == "" || newName == "" {
		return RenameTeamResult{}, domainerrors.ErrInvalidTeamName
	}

	team, err := u.Teams.GetTeam(ctx, oldName)
	if err != nil {
		return RenameTeamResult{}, err
	}
	if oldName == newName {
		return RenameTeamResult{Team: team}, nil
	}
	if _, err := u.Teams.GetTeam(ctx, newName); err == nil {
		return RenameTeamResult{}, domainerrors.ErrTeamAlreadyExists
	} else if !errors.Is(err, domainerrors.ErrTeamNotFound) {
		return RenameTeamResult{}, err
	}

	members, err := u.Users.ListUsersByTeam(ctx, oldName)
	if err != nil {
		return RenameTeamResult{}, err
	}

	renamed := team.Clone()
	renamed.Name = newName
	renamed.UpdatedAt = currentTime(u.Clock)
	if err := u.Teams.RenameTeam(ctx, oldName, renamed); err != nil {
		logger.Error("rename team failed",
			"event", "identity_rename_team_failed",
			"module", application.ModuleName,
			"layer", "application",
			"old_name", oldName,
			"new_name", newName,
			"error", err.Error(),
		)
		return RenameTeamResult{}, err
	}

	usernames := make([]string, 0, len(members))
	for _, member := range members {
		usernames = append(usernames, member.Username)
	}
	memberResult := syncv1.Fanout(ctx, u.FanoutLimit, usernames, func(ctx context.Context, username string) error {
		user, err := u.Users.GetUser(ctx, username)
		if err != nil {
			return err
		}
		user.TeamName = newName
		user.UpdatedAt = renamed.UpdatedAt
		return u.Users.SaveUser(ctx, user)
	})
	if memberResult.Outcome() == syncv1.OutcomePartialSucceeded || memberResult.Outcome() == syncv1.OutcomeAllFailed {
		logger.Warn("team member rename partially applied",
			"event", "identity_rename_team_members_partial",
			"module", application.ModuleName,
			"layer", "application",
			"old_name", oldName,
			"new_name", newName,
			"attempted", memberResult.Attempted,
			"applied", memberResult.Applied,
		)
	}

	result := RenameTeamResult{Team: renamed, Members: memberResult}
	if err := u.Publisher.PublishTeamRenamed(ctx, oldName, newName); err != nil {
		logger.Error("team renamed publish failed",
			"event", "identity_team_renamed_publish_failed",
			"module", application.ModuleName,
			"layer", "application",
			"old_name", oldName,
			"new_name", newName,
			"error", err.Error(),
		)
		return result, errors.Join(domainerrors.ErrSyncUnavailable, err)
	}

	logger.Info("team renamed",
		"event", "identity_team_renamed",
		"module", application.ModuleName,
		"layer", "application",
		"old_name", oldName,
		"new_name", newName,
		"member_count", memberResult.Applied,
	)
	return result, nil
}

// DeleteTeamUseCase removes a team and clears its members' team name.
type DeleteTeamUseCase struct {
	Teams       ports.TeamRepository
	Users       ports.UserRepository
	Clock       ports.Clock
	FanoutLimit int
	Logger      *slog.Logger
}

func (u DeleteTeamUseCase) Execute(ctx context.Context, name string) (syncv1.ApplyResult, error) {
	logger := application.ResolveLogger(u.Logger)
	team, err := u.Teams.GetTeam(ctx, strings.TrimSpace(name))
	if err != nil {
		return syncv1.ApplyResult{}, err
	}
	members, err := u.Users.ListUsersByTeam(ctx, team.Name)
	if err != nil {
		return syncv1.ApplyResult{}, err
	}
	if err := u.Teams.DeleteTeam(ctx, team.Name); err != nil {
		return syncv1.ApplyResult{}, fmt.Errorf("delete team %s: %w", team.Name, err)
	}

	usernames := make([]string, 0, len(members))
	for _, member := range members {
		usernames = append(usernames, member.Username)
	}
	updatedAt := currentTime(u.Clock)
	result := syncv1.Fanout(ctx, u.FanoutLimit, usernames, func(ctx context.Context, username string) error {
		user, err := u.Users.GetUser(ctx, username)
		if err != nil {
			return err
		}
		user.TeamName = ""
		user.UpdatedAt = updatedAt
		return u.Users.SaveUser(ctx, user)
	})

	logger.Info("team deleted",
		"event", "identity_team_deleted",
		"module", application.ModuleName,
		"layer", "application",
		"team_name", team.Name,
		"members_cleared", result.Applied,
		"members_failed", len(result.Failures),
	)
	return result, nil
}
