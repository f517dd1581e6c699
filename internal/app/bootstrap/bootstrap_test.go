package bootstrap

import (
	"context"
	"testing"
	"time"

	identityhttp "entomophage/contexts/identity-access/user-service/transport/http"
	issuehttp "entomophage/contexts/issue-tracking/project-service/transport/http"
	syncv1 "entomophage/contracts/sync/v1"
	"entomophage/internal/platform/config"
	"entomophage/internal/platform/messaging"
)

func memoryConfig(t *testing.T) config.Config {
	t.Helper()
	cfg, err := config.Config{
		StoreDriver: config.StoreDriverMemory,
		BrokerURL:   config.MemoryBrokerURL,
		HTTPPort:    "0",
	}.Normalize()
	if err != nil {
		t.Fatalf("normalize config failed: %v", err)
	}
	return cfg
}

func waitFor(t *testing.T, what string, check func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if check() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}

func startPair(t *testing.T) (*App, *App, *messaging.Memory) {
	t.Helper()
	cfg := memoryConfig(t)
	transport := messaging.NewMemory(nil)
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	identity, err := BuildIdentity(ctx, cfg, transport)
	if err != nil {
		t.Fatalf("build identity failed: %v", err)
	}
	issues, err := BuildIssues(ctx, cfg, transport)
	if err != nil {
		t.Fatalf("build issues failed: %v", err)
	}
	for _, app := range []*App{identity, issues} {
		go func() { _ = app.Dispatcher.Run(ctx) }()
	}
	t.Cleanup(func() {
		_ = identity.Close()
		_ = issues.Close()
		_ = transport.Close()
	})
	return identity, issues, transport
}

func TestTeamRenamePropagatesWithOneEnvelope(t *testing.T) {
	identity, issues, transport := startPair(t)
	ctx := context.Background()
	users := identity.Identity.Handler
	projects := issues.Issues.Handler

	if _, err := users.CreateUserHandler(ctx, identityhttp.CreateUserRequest{Username: "alice"}); err != nil {
		t.Fatalf("create alice failed: %v", err)
	}
	if _, err := users.CreateTeamHandler(ctx, identityhttp.CreateTeamRequest{Name: "Red", Leader: "alice"}); err != nil {
		t.Fatalf("create team failed: %v", err)
	}
	for _, username := range []string{"bob", "carol"} {
		if _, err := users.CreateUserHandler(ctx, identityhttp.CreateUserRequest{Username: username, TeamName: "Red"}); err != nil {
			t.Fatalf("create %s failed: %v", username, err)
		}
	}
	for _, name := range []string{"ants", "bees"} {
		if _, err := projects.CreateProjectHandler(ctx, issuehttp.CreateProjectRequest{Owner: "alice", Name: name, TeamName: "Red"}); err != nil {
			t.Fatalf("create project %s failed: %v", name, err)
		}
	}

	waitFor(t, "owner to gain both projects", func() bool {
		resp, err := users.GetUserHandler(ctx, "alice")
		return err == nil && len(resp.User.Projects) == 2
	})

	if _, err := users.RenameTeamHandler(ctx, "Red", identityhttp.RenameTeamRequest{Name: "Blue"}); err != nil {
		t.Fatalf("rename failed: %v", err)
	}

	waitFor(t, "projects to move to Blue", func() bool {
		resp, err := projects.ListProjectsByTeamHandler(ctx, "Blue")
		return err == nil && len(resp.Items) == 2
	})
	for _, username := range []string{"alice", "bob", "carol"} {
		resp, err := users.GetUserHandler(ctx, username)
		if err != nil || resp.User.TeamName != "Blue" {
			t.Fatalf("expected %s in Blue, got %+v %v", username, resp.User, err)
		}
	}

	sent := transport.Sent(syncv1.QueueIssues)
	if len(sent) != 1 {
		t.Fatalf("expected exactly one envelope to the issue service, got %d", len(sent))
	}
	renamed, err := syncv1.ParseTeamRenamed(sent[0])
	if err != nil {
		t.Fatalf("parse rename envelope failed: %v", err)
	}
	if renamed.OldName != "Red" || renamed.NewName != "Blue" {
		t.Fatalf("unexpected rename payload: %+v", renamed)
	}
}

func TestProjectLifecycleUpdatesOwnerAndContributors(t *testing.T) {
	identity, issues, _ := startPair(t)
	ctx := context.Background()
	users := identity.Identity.Handler
	projects := issues.Issues.Handler

	for _, username := range []string{"alice", "bob"} {
		if _, err := users.CreateUserHandler(ctx, identityhttp.CreateUserRequest{Username: username}); err != nil {
			t.Fatalf("create %s failed: %v", username, err)
		}
	}
	if _, err := projects.CreateProjectHandler(ctx, issuehttp.CreateProjectRequest{Owner: "alice", Name: "ants"}); err != nil {
		t.Fatalf("create project failed: %v", err)
	}
	waitFor(t, "owner to gain the project", func() bool {
		resp, err := users.GetUserHandler(ctx, "alice")
		return err == nil && len(resp.User.Projects) == 1 && resp.User.Projects[0] == "alice/ants"
	})

	contributors := []string{"bob"}
	if _, err := projects.UpdateProjectHandler(ctx, "alice", "ants", issuehttp.UpdateProjectRequest{Contributors: &contributors}); err != nil {
		t.Fatalf("update contributors failed: %v", err)
	}
	waitFor(t, "contributor to gain the project", func() bool {
		resp, err := users.GetUserHandler(ctx, "bob")
		return err == nil && len(resp.User.Projects) == 1
	})

	if _, err := users.UpdateUserProjectsHandler(ctx, "bob", identityhttp.UpdateUserProjectsRequest{Projects: []string{}}); err != nil {
		t.Fatalf("clear bob projects failed: %v", err)
	}
	waitFor(t, "bob to leave contributors", func() bool {
		resp, err := projects.GetProjectHandler(ctx, "alice", "ants")
		return err == nil && len(resp.Project.Contributors) == 0
	})

	if _, err := projects.DeleteProjectHandler(ctx, "alice", "ants"); err != nil {
		t.Fatalf("delete project failed: %v", err)
	}
	waitFor(t, "owner to lose the project", func() bool {
		resp, err := users.GetUserHandler(ctx, "alice")
		return err == nil && len(resp.User.Projects) == 0
	})
}

func TestReplayWorkerIsWiredWhenEnabled(t *testing.T) {
	cfg := memoryConfig(t)
	cfg.EnablePublishReplay = true
	transport := messaging.NewMemory(nil)
	defer transport.Close()

	app, err := BuildIdentity(context.Background(), cfg, transport)
	if err != nil {
		t.Fatalf("build identity failed: %v", err)
	}
	defer app.Close()
	if app.Replayer == nil {
		t.Fatal("expected replay worker when replay is enabled")
	}
	if app.Replayer.MaxAttempts != cfg.PublishReplayMaxAttempts {
		t.Fatalf("expected max attempts %d, got %d", cfg.PublishReplayMaxAttempts, app.Replayer.MaxAttempts)
	}
}

func TestNormalizeAddr(t *testing.T) {
	if got := normalizeAddr("9090"); got != ":9090" {
		t.Fatalf("expected :9090, got %s", got)
	}
	if got := normalizeAddr(":7070"); got != ":7070" {
		t.Fatalf("expected :7070, got %s", got)
	}
	if got := normalizeAddr(" "); got != ":8080" {
		t.Fatalf("expected :8080, got %s", got)
	}
}
