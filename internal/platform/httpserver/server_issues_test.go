package httpserver

import (
	"net/http"
	"testing"

	issuehttp "entomophage/contexts/issue-tracking/project-service/transport/http"
	syncv1 "entomophage/contracts/sync/v1"
)

func TestCreateProjectThenList(t *testing.T) {
	server := newTestServer()
	rr := doJSON(t, server, http.MethodPost, "/projects", `{"owner":"alice","name":"ants","team_name":"Red"}`)
	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d body=%s", rr.Code, rr.Body.String())
	}

	rr = doJSON(t, server, http.MethodGet, "/projects?team_name=Red", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rr.Code, rr.Body.String())
	}
	var resp issuehttp.ListProjectsResponse
	decodeBody(t, rr, &resp)
	if len(resp.Items) != 1 || resp.Items[0].Ref != "alice/ants" {
		t.Fatalf("unexpected list: %+v", resp.Items)
	}
}

func TestListProjectsRequiresTeamName(t *testing.T) {
	rr := doJSON(t, newTestServer(), http.MethodGet, "/projects", "")
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
}

func TestPatchProjectContributors(t *testing.T) {
	server := newTestServer()
	doJSON(t, server, http.MethodPost, "/projects", `{"owner":"alice","name":"ants"}`)

	rr := doJSON(t, server, http.MethodPatch, "/projects/alice/ants", `{"contributors":["bob","carol"]}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rr.Code, rr.Body.String())
	}
	var resp issuehttp.ProjectResponse
	decodeBody(t, rr, &resp)
	if len(resp.Project.Contributors) != 2 {
		t.Fatalf("expected two contributors, got %v", resp.Project.Contributors)
	}
}

func TestGetUnknownProjectIsNotFound(t *testing.T) {
	rr := doJSON(t, newTestServer(), http.MethodGet, "/projects/alice/ghost", "")
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rr.Code)
	}
}

func TestCreateProjectSyncFailureReturnsCommittedProject(t *testing.T) {
	server := newTestServerWithPublisher(stubPublisher{err: syncv1.ErrConnection})
	rr := doJSON(t, server, http.MethodPost, "/projects", `{"owner":"alice","name":"ants"}`)
	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d body=%s", rr.Code, rr.Body.String())
	}
	var resp issuehttp.SyncFailureResponse
	decodeBody(t, rr, &resp)
	if resp.Code != "sync_unavailable" || resp.Project == nil || resp.Project.Ref != "alice/ants" {
		t.Fatalf("unexpected sync failure body: %+v", resp)
	}

	rr = doJSON(t, server, http.MethodGet, "/projects/alice/ants", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected project to be stored, got %d", rr.Code)
	}
}
