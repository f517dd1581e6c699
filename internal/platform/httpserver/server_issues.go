package httpserver

import (
	"errors"
	"net/http"

	issueerrors "entomophage/contexts/issue-tracking/project-service/domain/errors"
	issuehttp "entomophage/contexts/issue-tracking/project-service/transport/http"
)

func (s *Server) handleCreateProject(w http.ResponseWriter, r *http.Request) {
	var req issuehttp.CreateProjectRequest
	if err := decodeJSON(r, &req); err != nil {
		writeIssuesError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.issues.Handler.CreateProjectHandler(r.Context(), req)
	if errors.Is(err, issueerrors.ErrSyncUnavailable) {
		s.writeProjectSyncFailure(w, r, err, resp.Project, "project created but the identity service was not notified")
		return
	}
	if err != nil {
		writeIssuesDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleListProjects(w http.ResponseWriter, r *http.Request) {
	resp, err := s.issues.Handler.ListProjectsByTeamHandler(r.Context(), r.URL.Query().Get("team_name"))
	if err != nil {
		writeIssuesDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetProject(w http.ResponseWriter, r *http.Request) {
	resp, err := s.issues.Handler.GetProjectHandler(r.Context(), r.PathValue("owner"), r.PathValue("name"))
	if err != nil {
		writeIssuesDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleUpdateProject(w http.ResponseWriter, r *http.Request) {
	var req issuehttp.UpdateProjectRequest
	if err := decodeJSON(r, &req); err != nil {
		writeIssuesError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.issues.Handler.UpdateProjectHandler(r.Context(), r.PathValue("owner"), r.PathValue("name"), req)
	if errors.Is(err, issueerrors.ErrSyncUnavailable) {
		s.writeProjectSyncFailure(w, r, err, resp.Project, "project saved but the identity service was not notified")
		return
	}
	if err != nil {
		writeIssuesDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleDeleteProject(w http.ResponseWriter, r *http.Request) {
	resp, err := s.issues.Handler.DeleteProjectHandler(r.Context(), r.PathValue("owner"), r.PathValue("name"))
	if errors.Is(err, issueerrors.ErrSyncUnavailable) {
		s.writeProjectSyncFailure(w, r, err, resp.Project, "project deleted but the identity service was not notified")
		return
	}
	if err != nil {
		writeIssuesDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) writeProjectSyncFailure(w http.ResponseWriter, r *http.Request, err error, project issuehttp.ProjectDTO, message string) {
	s.logSyncFailure(r, err)
	writeJSON(w, http.StatusInternalServerError, issuehttp.SyncFailureResponse{
		Code:    "sync_unavailable",
		Message: message,
		Project: &project,
	})
}

func writeIssuesDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, issueerrors.ErrInvalidProjectRef),
		errors.Is(err, issueerrors.ErrInvalidContributor),
		errors.Is(err, issueerrors.ErrInvalidTeamName):
		writeIssuesError(w, http.StatusBadRequest, "invalid_request", err.Error())
	case errors.Is(err, issueerrors.ErrProjectNotFound):
		writeIssuesError(w, http.StatusNotFound, "project_not_found", err.Error())
	case errors.Is(err, issueerrors.ErrProjectAlreadyExists):
		writeIssuesError(w, http.StatusConflict, "project_exists", err.Error())
	default:
		writeIssuesError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func writeIssuesError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, issuehttp.ErrorResponse{
		Code:    code,
		Message: message,
	})
}
