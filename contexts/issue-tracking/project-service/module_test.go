package projectservice_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	projectservice "entomophage/contexts/issue-tracking/project-service"
	domainerrors "entomophage/contexts/issue-tracking/project-service/domain/errors"
	httptransport "entomophage/contexts/issue-tracking/project-service/transport/http"
	syncv1 "entomophage/contracts/sync/v1"
)

type authorCall struct {
	action  syncv1.Action
	project syncv1.ProjectSnapshot
}

type contributorsCall struct {
	prior        syncv1.ProjectSnapshot
	contributors []string
}

type recordingPublisher struct {
	mu           sync.Mutex
	authors      []authorCall
	contributors []contributorsCall
	err          error
}

func (p *recordingPublisher) PublishAuthorChanged(_ context.Context, action syncv1.Action, project syncv1.ProjectSnapshot) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.authors = append(p.authors, authorCall{action: action, project: project})
	return nil
}

func (p *recordingPublisher) PublishContributorsChanged(_ context.Context, prior syncv1.ProjectSnapshot, contributors []string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.contributors = append(p.contributors, contributorsCall{prior: prior, contributors: contributors})
	return nil
}

func TestCreateProjectPublishesAuthorCreate(t *testing.T) {
	publisher := &recordingPublisher{}
	module := projectservice.NewInMemoryModule(publisher, nil)

	resp, err := module.Handler.CreateProjectHandler(context.Background(), httptransport.CreateProjectRequest{
		Owner:    "alice",
		Name:     "ant farm",
		TeamName: "Red",
	})
	if err != nil {
		t.Fatalf("create project failed: %v", err)
	}
	if resp.Project.Ref != "alice/ant_farm" {
		t.Fatalf("expected normalized ref, got %s", resp.Project.Ref)
	}
	if len(publisher.authors) != 1 {
		t.Fatalf("expected one author envelope, got %d", len(publisher.authors))
	}
	call := publisher.authors[0]
	if call.action != syncv1.ActionCreate || call.project.Author != "alice" || call.project.Name != "ant_farm" {
		t.Fatalf("unexpected author envelope: %+v", call)
	}
}

func TestCreateProjectRejectsDuplicate(t *testing.T) {
	module := projectservice.NewInMemoryModule(&recordingPublisher{}, nil)
	req := httptransport.CreateProjectRequest{Owner: "alice", Name: "ants"}
	if _, err := module.Handler.CreateProjectHandler(context.Background(), req); err != nil {
		t.Fatalf("first create failed: %v", err)
	}
	if _, err := module.Handler.CreateProjectHandler(context.Background(), req); !errors.Is(err, domainerrors.ErrProjectAlreadyExists) {
		t.Fatalf("expected already exists, got %v", err)
	}
}

func TestUpdateProjectContributorsPublishesPriorSnapshot(t *testing.T) {
	publisher := &recordingPublisher{}
	module := projectservice.NewInMemoryModule(publisher, nil)
	ctx := context.Background()
	if _, err := module.Handler.CreateProjectHandler(ctx, httptransport.CreateProjectRequest{Owner: "alice", Name: "ants"}); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	first := []string{"bob", "carol", "bob"}
	resp, err := module.Handler.UpdateProjectHandler(ctx, "alice", "ants", httptransport.UpdateProjectRequest{Contributors: &first})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if len(resp.Project.Contributors) != 2 {
		t.Fatalf("expected repeats dropped, got %v", resp.Project.Contributors)
	}

	second := []string{"carol", "dave"}
	if _, err := module.Handler.UpdateProjectHandler(ctx, "alice", "ants", httptransport.UpdateProjectRequest{Contributors: &second}); err != nil {
		t.Fatalf("second update failed: %v", err)
	}
	if len(publisher.contributors) != 2 {
		t.Fatalf("expected two contributor envelopes, got %d", len(publisher.contributors))
	}
	last := publisher.contributors[1]
	if len(last.prior.Contributors) != 2 || last.prior.Contributors[0] != "bob" {
		t.Fatalf("expected prior list in snapshot, got %v", last.prior.Contributors)
	}
	if len(last.contributors) != 2 || last.contributors[1] != "dave" {
		t.Fatalf("expected new list, got %v", last.contributors)
	}
}

func TestUpdateProjectWithoutContributorChangeSkipsPublish(t *testing.T) {
	publisher := &recordingPublisher{}
	module := projectservice.NewInMemoryModule(publisher, nil)
	ctx := context.Background()
	if _, err := module.Handler.CreateProjectHandler(ctx, httptransport.CreateProjectRequest{Owner: "alice", Name: "ants"}); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	website := "https://ants.example.com"
	resp, err := module.Handler.UpdateProjectHandler(ctx, "alice", "ants", httptransport.UpdateProjectRequest{Website: &website})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if resp.Project.Website != website {
		t.Fatalf("expected website updated, got %q", resp.Project.Website)
	}
	if len(publisher.contributors) != 0 {
		t.Fatalf("expected no contributor envelope, got %d", len(publisher.contributors))
	}
}

func TestUpdateProjectRejectsInvalidContributor(t *testing.T) {
	module := projectservice.NewInMemoryModule(&recordingPublisher{}, nil)
	ctx := context.Background()
	if _, err := module.Handler.CreateProjectHandler(ctx, httptransport.CreateProjectRequest{Owner: "alice", Name: "ants"}); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	bad := []string{"bob smith"}
	if _, err := module.Handler.UpdateProjectHandler(ctx, "alice", "ants", httptransport.UpdateProjectRequest{Contributors: &bad}); !errors.Is(err, domainerrors.ErrInvalidContributor) {
		t.Fatalf("expected invalid contributor, got %v", err)
	}
}

func TestDeleteProjectPublishFailureKeepsDelete(t *testing.T) {
	publisher := &recordingPublisher{}
	module := projectservice.NewInMemoryModule(publisher, nil)
	ctx := context.Background()
	if _, err := module.Handler.CreateProjectHandler(ctx, httptransport.CreateProjectRequest{Owner: "alice", Name: "ants"}); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	publisher.err = syncv1.ErrConnection
	resp, err := module.Handler.DeleteProjectHandler(ctx, "alice", "ants")
	if !errors.Is(err, domainerrors.ErrSyncUnavailable) {
		t.Fatalf("expected sync unavailable, got %v", err)
	}
	if resp.Project.Ref != "alice/ants" {
		t.Fatalf("expected deleted project in response, got %+v", resp.Project)
	}
	if _, err := module.Handler.GetProjectHandler(ctx, "alice", "ants"); !errors.Is(err, domainerrors.ErrProjectNotFound) {
		t.Fatalf("expected delete to stay committed, got %v", err)
	}
}

func TestListProjectsByTeamRequiresName(t *testing.T) {
	module := projectservice.NewInMemoryModule(&recordingPublisher{}, nil)
	if _, err := module.Handler.ListProjectsByTeamHandler(context.Background(), " "); !errors.Is(err, domainerrors.ErrInvalidTeamName) {
		t.Fatalf("expected invalid team name, got %v", err)
	}
}
