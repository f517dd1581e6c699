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

// Publisher builds issue-side sync envelopes addressed to the identity service.
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

func (p *Publisher) PublishAuthorChanged(ctx context.Context, action syncv1.Action, project syncv1.ProjectSnapshot) error {
	p.logger.Debug("author changed envelope built",
		"event", "issues_author_changed_envelope_built",
		"module", "issue-tracking/project-service",
		"layer", "adapter",
		"action", action.String(),
		"author", project.Author,
		"project_name", project.Name,
	)
	return p.sender.Publish(ctx, syncv1.NewProjectAuthorChanged(action, project))
}

func (p *Publisher) PublishContributorsChanged(ctx context.Context, prior syncv1.ProjectSnapshot, contributors []string) error {
	return p.sender.Publish(ctx, syncv1.NewContributorsChanged(prior, contributors))
}
