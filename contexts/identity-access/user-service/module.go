package userservice

import (
	"log/slog"

	httpadapter "entomophage/contexts/identity-access/user-service/adapters/http"
	"entomophage/contexts/identity-access/user-service/adapters/memory"
	"entomophage/contexts/identity-access/user-service/application/commands"
	"entomophage/contexts/identity-access/user-service/application/workers"
	"entomophage/contexts/identity-access/user-service/ports"
)

// Module is the user-service composition root exposed to runtime wiring.
type Module struct {
	Handler httpadapter.Handler
	Sync    workers.SyncConsumer
	Store   *memory.Store
}

// Dependencies captures all runtime ports/config required by NewModule.
type Dependencies struct {
	Users       ports.UserRepository
	Teams       ports.TeamRepository
	Publisher   ports.SyncPublisher
	Clock       ports.Clock
	FanoutLimit int
	Logger      *slog.Logger
}

func NewModule(deps Dependencies) Module {
	handler := httpadapter.Handler{
		CreateUser: commands.CreateUserUseCase{
			Users:  deps.Users,
			Teams:  deps.Teams,
			Clock:  deps.Clock,
			Logger: deps.Logger,
		},
		GetUser: commands.GetUserUseCase{Users: deps.Users},
		UpdateUserProjects: commands.UpdateUserProjectsUseCase{
			Users:     deps.Users,
			Publisher: deps.Publisher,
			Clock:     deps.Clock,
			Logger:    deps.Logger,
		},
		DeleteUser: commands.DeleteUserUseCase{
			Users:  deps.Users,
			Teams:  deps.Teams,
			Clock:  deps.Clock,
			Logger: deps.Logger,
		},
		CreateTeam: commands.CreateTeamUseCase{
			Teams:  deps.Teams,
			Users:  deps.Users,
			Clock:  deps.Clock,
			Logger: deps.Logger,
		},
		GetTeam: commands.GetTeamUseCase{Teams: deps.Teams},
		RenameTeam: commands.RenameTeamUseCase{
			Teams:       deps.Teams,
			Users:       deps.Users,
			Publisher:   deps.Publisher,
			Clock:       deps.Clock,
			FanoutLimit: deps.FanoutLimit,
			Logger:      deps.Logger,
		},
		DeleteTeam: commands.DeleteTeamUseCase{
			Teams:       deps.Teams,
			Users:       deps.Users,
			Clock:       deps.Clock,
			FanoutLimit: deps.FanoutLimit,
			Logger:      deps.Logger,
		},
		Logger: deps.Logger,
	}

	return Module{
		Handler: handler,
		Sync: workers.SyncConsumer{
			Users:       deps.Users,
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
		Users:     store,
		Teams:     store,
		Publisher: publisher,
		Clock:     store,
		Logger:    logger,
	})
	module.Store = store
	return module
}
