package projectservice

import (
	"log/slog"

	httpadapter "entomophage/contexts/issue-tracking/project-service/adapters/http"
	"entomophage/contexts/issue-tracking/project-service/adapters/memory"
	"entomophage/contexts/issue-tracking/project-service/application/commands"
	"entomophage/contexts/issue-tracking/project-service/application/workers"
	"entomophage/contexts/issue-tracking/project-service/ports"
)

// Module is the project-service composition root exposed to runtime wiring.
type Module struct {
	Handler httpadapter.Handler
	Sync    workers.SyncConsumer
	Store   *memory.Store
}

type Dependencies struct {
	Projects    ports.ProjectRepository
	Publisher   ports.SyncPublisher
	Clock       ports.Clock
	FanoutLimit int
	Logger      *slog.Logger
}

func NewModule(deps Dependencies) Module {
	return Module{
		Handler: httpadapter.Handler{
			CreateProject: commands.CreateProjectUseCase{
				Projects:  deps.Projects,
				Publisher: deps.Publisher,
				Clock:     deps.Clock,
				Logger:    deps.Logger,
			},
			GetProject:         commands.GetProjectUseCase{Projects: deps.Projects},
			ListProjectsByTeam: commands.ListProjectsByTeamUseCase{Projects: deps.Projects},
			UpdateProject: commands.UpdateProjectUseCase{
				Projects:  deps.Projects,
				Publisher: deps.Publisher,
				Clock:     deps.Clock,
				Logger:    deps.Logger,
			},
			DeleteProject: commands.DeleteProjectUseCase{
				Projects:  deps.Projects,
				Publisher: deps.Publisher,
				Logger:    deps.Logger,
			},
			Logger: deps.Logger,
		},
		Sync: workers.SyncConsumer{
			Projects:    deps.Projects,
			Clock:       deps.Clock,
			FanoutLimit: deps.FanoutLimit,
			Logger:      deps.Logger,
		},
	}
}

// NewInMemoryModule builds a development/testing module with in-memory adapters.
func NewInMemoryModule(publisher ports.SyncPublisher, logger *slog.Logger) Module {
	store := memory.NewStore()
	module := NewModule(Dependencies{
		Projects:  store,
		Publisher: publisher,
		Clock:     store,
		Logger:    logger,
	})
	module.Store = store
	return module
}
