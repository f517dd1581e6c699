package workers

import (
	"context"
	"errors"
	"testing"

	"entomophage/contexts/issue-tracking/project-service/adapters/memory"
	"entomophage/contexts/issue-tracking/project-service/domain/entities"
	syncv1 "entomophage/contracts/sync/v1"
)

func seedProject(t *testing.T, store *memory.Store, project entities.Project) {
	t.Helper()
	if err := store.CreateProject(context.Background(), project); err != nil {
		t.Fatalf("seed project %s failed: %v", project.Ref(), err)
	}
}

func contributorsOf(t *testing.T, store *memory.Store, ref string) []string {
	t.Helper()
	project, err := store.GetProject(context.Background(), syncv1.MustProjectRef(ref))
	if err != nil {
		t.Fatalf("get project %s failed: %v", ref, err)
	}
	return project.Contributors
}

func TestTeamRenamedMovesOnlyMatchingProjects(t *testing.T) {
	store := memory.NewStore()
	seedProject(t, store, entities.Project{Owner: "alice", Name: "ants", TeamName: "Red"})
	seedProject(t, store, entities.Project{Owner: "bob", Name: "bees", TeamName: "Red"})
	seedProject(t, store, entities.Project{Owner: "carol", Name: "wasps", TeamName: "Green"})
	consumer := SyncConsumer{Projects: store}

	result, err := consumer.HandleTeamRenamed(context.Background(), syncv1.NewTeamRenamed("Red", "Blue"))
	if err != nil {
		t.Fatalf("handler failed: %v", err)
	}
	if result.Applied != 2 {
		t.Fatalf("expected 2 projects moved, got %d", result.Applied)
	}
	blue, _ := store.ListProjectsByTeam(context.Background(), "Blue")
	red, _ := store.ListProjectsByTeam(context.Background(), "Red")
	green, _ := store.ListProjectsByTeam(context.Background(), "Green")
	if len(blue) != 2 || len(red) != 0 || len(green) != 1 {
		t.Fatalf("unexpected team split blue=%d red=%d green=%d", len(blue), len(red), len(green))
	}
}

func TestTeamRenamedWithUnknownTeamIsNoop(t *testing.T) {
	store := memory.NewStore()
	seedProject(t, store, entities.Project{Owner: "alice", Name: "ants", TeamName: "Green"})
	consumer := SyncConsumer{Projects: store}

	result, err := consumer.HandleTeamRenamed(context.Background(), syncv1.NewTeamRenamed("Red", "Blue"))
	if err != nil {
		t.Fatalf("handler failed: %v", err)
	}
	if result.Outcome() != syncv1.OutcomeNoop {
		t.Fatalf("expected noop, got %s", result.Outcome())
	}
}

func TestTeamRenamedMissingFieldWritesNothing(t *testing.T) {
	store := memory.NewStore()
	seedProject(t, store, entities.Project{Owner: "alice", Name: "ants", TeamName: "Red"})
	before := store.Writes()
	consumer := SyncConsumer{Projects: store}

	envelope := syncv1.NewTeamRenamed("Red", "Blue")
	delete(envelope.ChangedData, syncv1.FieldNewName)
	_, err := consumer.HandleTeamRenamed(context.Background(), envelope)
	if !errors.Is(err, syncv1.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if store.Writes() != before {
		t.Fatal("expected no writes")
	}
}

func TestProjectsChangedAppliesBothSides(t *testing.T) {
	store := memory.NewStore()
	seedProject(t, store, entities.Project{Owner: "owner", Name: "ants", Contributors: []string{"alice", "bob"}})
	seedProject(t, store, entities.Project{Owner: "owner", Name: "bees", Contributors: []string{}})
	consumer := SyncConsumer{Projects: store}

	envelope := syncv1.NewProjectsChanged(
		syncv1.UserSnapshot{Username: "alice", Projects: []syncv1.ProjectRef{syncv1.MustProjectRef("owner/ants")}},
		[]syncv1.ProjectRef{syncv1.MustProjectRef("owner/bees"), syncv1.MustProjectRef("owner/ghost")},
	)
	result, err := consumer.HandleProjectsChanged(context.Background(), envelope)
	if err != nil {
		t.Fatalf("handler failed: %v", err)
	}
	if result.Attempted != 3 || result.Applied != 2 {
		t.Fatalf("expected 2 of 3 applied, got %d of %d", result.Applied, result.Attempted)
	}
	if len(result.Failures) != 1 || !errors.Is(result.Failures[0].Err, syncv1.ErrReferencedEntityMissing) {
		t.Fatalf("expected one missing project failure, got %+v", result.Failures)
	}
	if got := contributorsOf(t, store, "owner/ants"); len(got) != 1 || got[0] != "bob" {
		t.Fatalf("expected alice removed from ants, got %v", got)
	}
	if got := contributorsOf(t, store, "owner/bees"); len(got) != 1 || got[0] != "alice" {
		t.Fatalf("expected alice added to bees, got %v", got)
	}
}

// TODO: dedupe deliveries by envelope message id once consumers keep an inbox table.
func TestProjectsChangedRedeliveryAppendsDuplicateContributor(t *testing.T) {
	store := memory.NewStore()
	seedProject(t, store, entities.Project{Owner: "owner", Name: "ants", Contributors: []string{}})
	consumer := SyncConsumer{Projects: store}
	envelope := syncv1.NewProjectsChanged(
		syncv1.UserSnapshot{Username: "alice", Projects: []syncv1.ProjectRef{}},
		[]syncv1.ProjectRef{syncv1.MustProjectRef("owner/ants")},
	)

	for i := 0; i < 2; i++ {
		result, err := consumer.HandleProjectsChanged(context.Background(), envelope)
		if err != nil || result.Applied != 1 {
			t.Fatalf("delivery %d failed: %+v %v", i, result, err)
		}
	}
	got := contributorsOf(t, store, "owner/ants")
	if len(got) != 2 || got[0] != "alice" || got[1] != "alice" {
		t.Fatalf("expected alice twice after redelivery, got %v", got)
	}
}

func TestProjectsChangedRejectsInvalidReference(t *testing.T) {
	store := memory.NewStore()
	consumer := SyncConsumer{Projects: store}
	envelope := syncv1.NewProjectsChanged(syncv1.UserSnapshot{Username: "alice"}, nil)
	envelope.ChangedData[syncv1.FieldProjects] = syncv1.StringList{"not-a-ref"}

	_, err := consumer.HandleProjectsChanged(context.Background(), envelope)
	var validation *syncv1.ValidationError
	if !errors.As(err, &validation) || validation.Field != syncv1.FieldProjects {
		t.Fatalf("expected projects validation error, got %v", err)
	}
}
