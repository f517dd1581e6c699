package httpserver

import (
	"errors"
	"net/http"

	identityerrors "entomophage/contexts/identity-access/user-service/domain/errors"
	identityhttp "entomophage/contexts/identity-access/user-service/transport/http"
)

func (s *Server) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	var req identityhttp.CreateUserRequest
	if err := decodeJSON(r, &req); err != nil {
		writeIdentityError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.identity.Handler.CreateUserHandler(r.Context(), req)
	if err != nil {
		writeIdentityDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleGetUser(w http.ResponseWriter, r *http.Request) {
	resp, err := s.identity.Handler.GetUserHandler(r.Context(), r.PathValue("username"))
	if err != nil {
		writeIdentityDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleUpdateUserProjects(w http.ResponseWriter, r *http.Request) {
	var req identityhttp.UpdateUserProjectsRequest
	if err := decodeJSON(r, &req); err != nil {
		writeIdentityError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.identity.Handler.UpdateUserProjectsHandler(r.Context(), r.PathValue("username"), req)
	if errors.Is(err, identityerrors.ErrSyncUnavailable) {
		s.logSyncFailure(r, err)
		writeJSON(w, http.StatusInternalServerError, identityhttp.SyncFailureResponse{
			Code:    "sync_unavailable",
			Message: "user saved but the issue service was not notified",
			User:    &resp.User,
		})
		return
	}
	if err != nil {
		writeIdentityDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleDeleteUser(w http.ResponseWriter, r *http.Request) {
	if err := s.identity.Handler.DeleteUserHandler(r.Context(), r.PathValue("username")); err != nil {
		writeIdentityDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleCreateTeam(w http.ResponseWriter, r *http.Request) {
	var req identityhttp.CreateTeamRequest
	if err := decodeJSON(r, &req); err != nil {
		writeIdentityError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.identity.Handler.CreateTeamHandler(r.Context(), req)
	if err != nil {
		writeIdentityDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleGetTeam(w http.ResponseWriter, r *http.Request) {
	resp, err := s.identity.Handler.GetTeamHandler(r.Context(), r.PathValue("name"))
	if err != nil {
		writeIdentityDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleRenameTeam(w http.ResponseWriter, r *http.Request) {
	var req identityhttp.RenameTeamRequest
	if err := decodeJSON(r, &req); err != nil {
		writeIdentityError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.identity.Handler.RenameTeamHandler(r.Context(), r.PathValue("name"), req)
	if errors.Is(err, identityerrors.ErrSyncUnavailable) {
		s.logSyncFailure(r, err)
		writeJSON(w, http.StatusInternalServerError, identityhttp.SyncFailureResponse{
			Code:    "sync_unavailable",
			Message: "team renamed but the issue service was not notified",
			Team:    &resp.Team,
		})
		return
	}
	if err != nil {
		writeIdentityDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleDeleteTeam(w http.ResponseWriter, r *http.Request) {
	resp, err := s.identity.Handler.DeleteTeamHandler(r.Context(), r.PathValue("name"))
	if err != nil {
		writeIdentityDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) logSyncFailure(r *http.Request, err error) {
	s.logger.Warn("committed write not synchronized",
		"event", "http_sync_unavailable",
		"module", moduleName,
		"layer", "transport",
		"method", r.Method,
		"path", r.URL.Path,
		"error", err.Error(),
	)
}

func writeIdentityDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, identityerrors.ErrInvalidUsername),
		errors.Is(err, identityerrors.ErrInvalidEmail),
		errors.Is(err, identityerrors.ErrInvalidTeamName),
		errors.Is(err, identityerrors.ErrInvalidProjectRef):
		writeIdentityError(w, http.StatusBadRequest, "invalid_request", err.Error())
	case errors.Is(err, identityerrors.ErrUserNotFound):
		writeIdentityError(w, http.StatusNotFound, "user_not_found", err.Error())
	case errors.Is(err, identityerrors.ErrTeamNotFound):
		writeIdentityError(w, http.StatusNotFound, "team_not_found", err.Error())
	case errors.Is(err, identityerrors.ErrUserAlreadyExists):
		writeIdentityError(w, http.StatusConflict, "user_exists", err.Error())
	case errors.Is(err, identityerrors.ErrTeamAlreadyExists):
		writeIdentityError(w, http.StatusConflict, "team_exists", err.Error())
	default:
		writeIdentityError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func writeIdentityError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, identityhttp.ErrorResponse{
		Code:    code,
		Message: message,
	})
}
