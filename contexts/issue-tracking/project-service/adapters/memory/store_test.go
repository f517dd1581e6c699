package memory

import (
	"context"
	"errors"
	"testing"

	"entomophage/contexts/issue-tracking/project-service/domain/entities"
	domainerrors "entomophage/contexts/issue-tracking/project-service/domain/errors"
	syncv1 "entomophage/contracts/sync/v1"
)

func TestProjectsAreKeyedByReference(t *testing.T) {
	store := NewStore()
	ctx := context.Background()
	if err := store.CreateProject(ctx, entities.Project{Owner: "alice", Name: "ants"}); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if err := store.CreateProject(ctx, entities.Project{Owner: "bob", Name: "ants"}); err != nil {
		t.Fatalf("same name under another owner should be allowed: %v", err)
	}
	if err := store.CreateProject(ctx, entities.Project{Owner: "alice", Name: "ants"}); !errors.Is(err, domainerrors.ErrProjectAlreadyExists) {
		t.Fatalf("expected already exists, got %v", err)
	}
	if err := store.DeleteProject(ctx, syncv1.MustProjectRef("alice/ants")); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if _, err := store.GetProject(ctx, syncv1.MustProjectRef("bob/ants")); err != nil {
		t.Fatalf("expected bob/ants untouched: %v", err)
	}
}

func TestRenameTeamHonoursCancelledContext(t *testing.T) {
	store := NewStore()
	if err := store.CreateProject(context.Background(), entities.Project{Owner: "alice", Name: "ants", TeamName: "Red"}); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := store.RenameTeam(ctx, "Red", "Blue"); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected canceled, got %v", err)
	}
	project, _ := store.GetProject(context.Background(), syncv1.MustProjectRef("alice/ants"))
	if project.TeamName != "Red" {
		t.Fatalf("expected team unchanged, got %s", project.TeamName)
	}
}
