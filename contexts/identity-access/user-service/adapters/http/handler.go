package httpadapter

import (
	"context"
	"log/slog"
	"time"

	application "entomophage/contexts/identity-access/user-service/application"
	"entomophage/contexts/identity-access/user-service/application/commands"
	"entomophage/contexts/identity-access/user-service/domain/entities"
	httptransport "entomophage/contexts/identity-access/user-service/transport/http"
	syncv1 "entomophage/contracts/sync/v1"
)

type Handler struct {
	CreateUser         commands.CreateUserUseCase
	GetUser            commands.GetUserUseCase
	UpdateUserProjects commands.UpdateUserProjectsUseCase
	DeleteUser         commands.DeleteUserUseCase
	CreateTeam         commands.CreateTeamUseCase
	GetTeam            commands.GetTeamUseCase
	RenameTeam         commands.RenameTeamUseCase
	DeleteTeam         commands.DeleteTeamUseCase
	Logger             *slog.Logger
}

// CreateUserHandler godoc
// @Summary Create user
// @Description Registers a user and joins the named team when given.
// @Tags identity
// @Accept json
// @Produce json
// @Param request body httptransport.CreateUserRequest true "User"
// @Success 201 {object} httptransport.UserResponse
// @Failure 400 {object} httptransport.ErrorResponse
// @Failure 404 {object} httptransport.ErrorResponse
// @Failure 409 {object} httptransport.ErrorResponse
// @Router /users [post]
func (h Handler) CreateUserHandler(ctx context.Context, req httptransport.CreateUserRequest) (httptransport.UserResponse, error) {
	logger := application.ResolveLogger(h.Logger)
	logger.Info("create user request received",
		"event", "http_create_user_received",
		"module", application.ModuleName,
		"layer", "transport",
		"username", req.Username,
	)
	user, err := h.CreateUser.Execute(ctx, commands.CreateUserCommand{
		Username: req.Username,
		Email:    req.Email,
		Name:     req.Name,
		TeamName: req.TeamName,
	})
	if err != nil {
		return httptransport.UserResponse{}, err
	}
	return httptransport.UserResponse{User: MapUser(user)}, nil
}

// GetUserHandler godoc
// @Summary Get user
// @Tags identity
// @Produce json
// @Param username path string true "Username"
// @Success 200 {object} httptransport.UserResponse
// @Failure 404 {object} httptransport.ErrorResponse
// @Router /users/{username} [get]
func (h Handler) GetUserHandler(ctx context.Context, username string) (httptransport.UserResponse, error) {
	user, err := h.GetUser.Execute(ctx, username)
	if err != nil {
		return httptransport.UserResponse{}, err
	}
	return httptransport.UserResponse{User: MapUser(user)}, nil
}

// UpdateUserProjectsHandler godoc
// @Summary Replace user projects
// @Description Saves the project list and notifies the issue service of contributor changes.
// @Tags identity
// @Accept json
// @Produce json
// @Param username path string true "Username"
// @Param request body httptransport.UpdateUserProjectsRequest true "Projects as owner/name"
// @Success 200 {object} httptransport.UserResponse
// @Failure 400 {object} httptransport.ErrorResponse
// @Failure 404 {object} httptransport.ErrorResponse
// @Failure 500 {object} httptransport.SyncFailureResponse
// @Router /users/{username}/projects [put]
func (h Handler) UpdateUserProjectsHandler(ctx context.Context, username string, req httptransport.UpdateUserProjectsRequest) (httptransport.UserResponse, error) {
	user, err := h.UpdateUserProjects.Execute(ctx, commands.UpdateUserProjectsCommand{
		Username: username,
		Projects: req.Projects,
	})
	if user.Username == "" {
		return httptransport.UserResponse{}, err
	}
	return httptransport.UserResponse{User: MapUser(user)}, err
}

// DeleteUserHandler godoc
// @Summary Delete user
// @Tags identity
// @Param username path string true "Username"
// @Success 204
// @Failure 404 {object} httptransport.ErrorResponse
// @Router /users/{username} [delete]
func (h Handler) DeleteUserHandler(ctx context.Context, username string) error {
	return h.DeleteUser.Execute(ctx, username)
}

// CreateTeamHandler godoc
// @Summary Create team
// @Tags identity
// @Accept json
// @Produce json
// @Param request body httptransport.CreateTeamRequest true "Team"
// @Success 201 {object} httptransport.TeamResponse
// @Failure 400 {object} httptransport.ErrorResponse
// @Failure 409 {object} httptransport.ErrorResponse
// @Router /teams [post]
func (h Handler) CreateTeamHandler(ctx context.Context, req httptransport.CreateTeamRequest) (httptransport.TeamResponse, error) {
	team, err := h.CreateTeam.Execute(ctx, commands.CreateTeamCommand{
		Name:    req.Name,
		Leader:  req.Leader,
		Website: req.Website,
	})
	if err != nil {
		return httptransport.TeamResponse{}, err
	}
	return httptransport.TeamResponse{Team: MapTeam(team)}, nil
}

// GetTeamHandler godoc
// @Summary Get team
// @Tags identity
// @Produce json
// @Param name path string true "Team name"
// @Success 200 {object} httptransport.TeamResponse
// @Failure 404 {object} httptransport.ErrorResponse
// @Router /teams/{name} [get]
func (h Handler) GetTeamHandler(ctx context.Context, name string) (httptransport.TeamResponse, error) {
	team, err := h.GetTeam.Execute(ctx, name)
	if err != nil {
		return httptransport.TeamResponse{}, err
	}
	return httptransport.TeamResponse{Team: MapTeam(team)}, nil
}

// RenameTeamHandler godoc
// @Summary Rename team
// @Description Renames the team, rewrites members' team name and notifies the issue service.
// @Tags identity
// @Accept json
// @Produce json
// @Param name path string true "Current team name"
// @Param request body httptransport.RenameTeamRequest true "New name"
// @Success 200 {object} httptransport.RenameTeamResponse
// @Failure 404 {object} httptransport.ErrorResponse
// @Failure 409 {object} httptransport.ErrorResponse
// @Failure 500 {object} httptransport.SyncFailureResponse
// @Router /teams/{name} [patch]
func (h Handler) RenameTeamHandler(ctx context.Context, name string, req httptransport.RenameTeamRequest) (httptransport.RenameTeamResponse, error) {
	logger := application.ResolveLogger(h.Logger)
	logger.Info("rename team request received",
		"event", "http_rename_team_received",
		"module", application.ModuleName,
		"layer", "transport",
		"old_name", name,
		"new_name", req.Name,
	)
	result, err := h.RenameTeam.Execute(ctx, commands.RenameTeamCommand{Name: name, NewName: req.Name})
	if result.Team.Name == "" {
		return httptransport.RenameTeamResponse{}, err
	}
	return httptransport.RenameTeamResponse{
		Team:           MapTeam(result.Team),
		MembersUpdated: result.Members.Applied,
		MembersFailed:  len(result.Members.Failures),
	}, err
}

// DeleteTeamHandler godoc
// @Summary Delete team
// @Tags identity
// @Produce json
// @Param name path string true "Team name"
// @Success 200 {object} httptransport.DeleteTeamResponse
// @Failure 404 {object} httptransport.ErrorResponse
// @Router /teams/{name} [delete]
func (h Handler) DeleteTeamHandler(ctx context.Context, name string) (httptransport.DeleteTeamResponse, error) {
	result, err := h.DeleteTeam.Execute(ctx, name)
	if err != nil {
		return httptransport.DeleteTeamResponse{}, err
	}
	return httptransport.DeleteTeamResponse{Name: name, MembersCleared: result.Applied}, nil
}

func MapUser(user entities.User) httptransport.UserDTO {
	return httptransport.UserDTO{
		Username:  user.Username,
		Email:     user.Email,
		Name:      user.Name,
		TeamName:  user.TeamName,
		Projects:  syncv1.RefStrings(user.Projects),
		CreatedAt: user.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt: user.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

func MapTeam(team entities.Team) httptransport.TeamDTO {
	return httptransport.TeamDTO{
		Name:      team.Name,
		Leader:    team.Leader,
		Website:   team.Website,
		Members:   append([]string{}, team.Members...),
		Projects:  append([]string{}, team.Projects...),
		CreatedAt: team.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt: team.UpdatedAt.UTC().Format(time.RFC3339),
	}
}
