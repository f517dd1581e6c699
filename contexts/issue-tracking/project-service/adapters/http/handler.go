package httpadapter

import (
	"context"
	"log/slog"
	"time"

	application "entomophage/contexts/issue-tracking/project-service/application"
	"entomophage/contexts/issue-tracking/project-service/application/commands"
	"entomophage/contexts/issue-tracking/project-service/domain/entities"
	httptransport "entomophage/contexts/issue-tracking/project-service/transport/http"
)

type Handler struct {
	CreateProject      commands.CreateProjectUseCase
	GetProject         commands.GetProjectUseCase
	ListProjectsByTeam commands.ListProjectsByTeamUseCase
	UpdateProject      commands.UpdateProjectUseCase
	DeleteProject      commands.DeleteProjectUseCase
	Logger             *slog.Logger
}

// CreateProjectHandler godoc
// @Summary Create project
// @Description Stores the project and adds it to the owner's project list in the identity service.
// @Tags issues
// @Accept json
// @Produce json
// @Param request body httptransport.CreateProjectRequest true "Project"
// @Success 201 {object} httptransport.ProjectResponse
// @Failure 400 {object} httptransport.ErrorResponse
// @Failure 409 {object} httptransport.ErrorResponse
// @Failure 500 {object} httptransport.SyncFailureResponse
// @Router /projects [post]
func (h Handler) CreateProjectHandler(ctx context.Context, req httptransport.CreateProjectRequest) (httptransport.ProjectResponse, error) {
	logger := application.ResolveLogger(h.Logger)
	logger.Info("create project request received",
		"event", "http_create_project_received",
		"module", application.ModuleName,
		"layer", "transport",
		"owner", req.Owner,
		"project_name", req.Name,
	)
	project, err := h.CreateProject.Execute(ctx, commands.CreateProjectCommand{
		Owner:       req.Owner,
		Name:        req.Name,
		Website:     req.Website,
		Description: req.Description,
		License:     req.License,
		TeamName:    req.TeamName,
	})
	if project.Owner == "" {
		return httptransport.ProjectResponse{}, err
	}
	return httptransport.ProjectResponse{Project: MapProject(project)}, err
}

// GetProjectHandler godoc
// @Summary Get project
// @Tags issues
// @Produce json
// @Param owner path string true "Owner username"
// @Param name path string true "Project name"
// @Success 200 {object} httptransport.ProjectResponse
// @Failure 404 {object} httptransport.ErrorResponse
// @Router /projects/{owner}/{name} [get]
func (h Handler) GetProjectHandler(ctx context.Context, owner string, name string) (httptransport.ProjectResponse, error) {
	project, err := h.GetProject.Execute(ctx, owner, name)
	if err != nil {
		return httptransport.ProjectResponse{}, err
	}
	return httptransport.ProjectResponse{Project: MapProject(project)}, nil
}

// ListProjectsByTeamHandler godoc
// @Summary List team projects
// @Tags issues
// @Produce json
// @Param team_name query string true "Team name"
// @Success 200 {object} httptransport.ListProjectsResponse
// @Failure 400 {object} httptransport.ErrorResponse
// @Router /projects [get]
func (h Handler) ListProjectsByTeamHandler(ctx context.Context, teamName string) (httptransport.ListProjectsResponse, error) {
	projects, err := h.ListProjectsByTeam.Execute(ctx, teamName)
	if err != nil {
		return httptransport.ListProjectsResponse{}, err
	}
	items := make([]httptransport.ProjectDTO, 0, len(projects))
	for _, project := range projects {
		items = append(items, MapProject(project))
	}
	return httptransport.ListProjectsResponse{Items: items}, nil
}

// UpdateProjectHandler godoc
// @Summary Update project
// @Description Applies a partial update; a contributor change is sent to the identity service.
// @Tags issues
// @Accept json
// @Produce json
// @Param owner path string true "Owner username"
// @Param name path string true "Project name"
// @Param request body httptransport.UpdateProjectRequest true "Patch"
// @Success 200 {object} httptransport.ProjectResponse
// @Failure 400 {object} httptransport.ErrorResponse
// @Failure 404 {object} httptransport.ErrorResponse
// @Failure 500 {object} httptransport.SyncFailureResponse
// @Router /projects/{owner}/{name} [patch]
func (h Handler) UpdateProjectHandler(ctx context.Context, owner string, name string, req httptransport.UpdateProjectRequest) (httptransport.ProjectResponse, error) {
	project, err := h.UpdateProject.Execute(ctx, commands.UpdateProjectCommand{
		Owner:        owner,
		Name:         name,
		Website:      req.Website,
		Description:  req.Description,
		License:      req.License,
		TeamName:     req.TeamName,
		Contributors: req.Contributors,
	})
	if project.Owner == "" {
		return httptransport.ProjectResponse{}, err
	}
	return httptransport.ProjectResponse{Project: MapProject(project)}, err
}

// DeleteProjectHandler godoc
// @Summary Delete project
// @Tags issues
// @Produce json
// @Param owner path string true "Owner username"
// @Param name path string true "Project name"
// @Success 200 {object} httptransport.ProjectResponse
// @Failure 404 {object} httptransport.ErrorResponse
// @Failure 500 {object} httptransport.SyncFailureResponse
// @Router /projects/{owner}/{name} [delete]
func (h Handler) DeleteProjectHandler(ctx context.Context, owner string, name string) (httptransport.ProjectResponse, error) {
	project, err := h.DeleteProject.Execute(ctx, owner, name)
	if project.Owner == "" {
		return httptransport.ProjectResponse{}, err
	}
	return httptransport.ProjectResponse{Project: MapProject(project)}, err
}

func MapProject(project entities.Project) httptransport.ProjectDTO {
	return httptransport.ProjectDTO{
		Ref:          project.Ref().String(),
		Owner:        project.Owner,
		Name:         project.Name,
		Website:      project.Website,
		Description:  project.Description,
		License:      project.License,
		Contributors: append([]string{}, project.Contributors...),
		TeamName:     project.TeamName,
		IssueIDs:     append([]string{}, project.IssueIDs...),
		CreatedAt:    project.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:    project.UpdatedAt.UTC().Format(time.RFC3339),
	}
}
