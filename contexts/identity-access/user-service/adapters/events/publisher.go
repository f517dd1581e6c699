package events

import (
	"context"
	"log/slog"

	syncv1 "entomophage/contracts/sync/v1"
)

// EnvelopeSender is satisfied by messaging.Publisher.
type EnvelopeSender interface {
	Publish(ctx context.Context, envelope syncv1.Envelope) error
}

// Publisher builds identity-side sync envelopes and hands them to the broker publisher.
type Publisher struct {
	sender EnvelopeSender
	logger *slog.Logger
}

func NewPublisher(sender EnvelopeSender, logger *slog.Logger) *Publisher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Publisher{sender: sender, logger: logger}
}

func (p *Publisher) PublishTeamRenamed(ctx context.Context, oldName string, newName string) error {
	p.logger.Debug("team renamed envelope built",
		"event", "identity_team_renamed_envelope_built",
		"module", "identity-access/user-service",
		"layer", "adapter",
		"old_name", oldName,
		"new_name", newName,
	)
	return p.sender.Publish(ctx, syncv1.NewTeamRenamed(oldName, newName))
}

func (p *Publisher) PublishProjectsChanged(ctx context.Context, prior syncv1.UserSnapshot, projects []syncv1.ProjectRef) error {
	p.logger.Debug("projects changed envelope built",
		"event", "identity_projects_changed_envelope_built",
		"module", "identity-access/user-service",
		"layer", "adapter",
		"username", prior.Username,
		"project_count", len(projects),
	)
	return p.sender.Publish(ctx, syncv1.NewProjectsChanged(prior, projects))
}
