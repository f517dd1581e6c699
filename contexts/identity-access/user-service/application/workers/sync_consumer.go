package workers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	application "entomophage/contexts/identity-access/user-service/application"
	"entomophage/contexts/identity-access/user-service/domain/entities"
	domainerrors "entomophage/contexts/identity-access/user-service/domain/errors"
	"entomophage/contexts/identity-access/user-service/ports"
	syncv1 "entomophage/contracts/sync/v1"
)

// SyncConsumer reconciles user project lists from issue-service envelopes.
// It keeps no state between envelopes.
type SyncConsumer struct {
	Users       ports.UserRepository
	Clock       ports.Clock
	FanoutLimit int
	Logger      *slog.Logger
}

// Handlers returns the routing table for the identity inbound queue.
func (c SyncConsumer) Handlers() map[syncv1.ChangedKey]syncv1.Handler {
	return map[syncv1.ChangedKey]syncv1.Handler{
		syncv1.IssueProjectContributorsChanged: c.HandleContributorsChanged,
		syncv1.IssueProjectAuthorChanged:       c.HandleProjectAuthorChanged,
	}
}

// HandleContributorsChanged diffs the prior contributor list against the new
// one: removed users lose the project reference, added users gain it.
// Missing users are counted as failures and skipped.
func (c SyncConsumer) HandleContributorsChanged(ctx context.Context, envelope syncv1.Envelope) (syncv1.ApplyResult, error) {
	payload, err := syncv1.ParseContributorsChanged(envelope)
	if err != nil {
		return syncv1.ApplyResult{}, err
	}

	removed, added := syncv1.Diff(payload.Project.Contributors, payload.Contributors)
	ops := make(map[string]func(context.Context) error, len(removed)+len(added))
	keys := make([]string, 0, len(removed)+len(added))
	for _, username := range removed {
		ops[username] = func(ctx context.Context) error { return c.removeRef(ctx, username, payload.Ref) }
		keys = append(keys, username)
	}
	for _, username := range added {
		ops[username] = func(ctx context.Context) error { return c.appendRef(ctx, username, payload.Ref) }
		keys = append(keys, username)
	}

	result := syncv1.Fanout(ctx, c.FanoutLimit, keys, func(ctx context.Context, username string) error {
		return ops[username](ctx)
	})
	application.ResolveLogger(c.Logger).Debug("contributor diff applied",
		"event", "identity_sync_contributors_applied",
		"module", application.ModuleName,
		"layer", "worker",
		"project", payload.Ref.String(),
		"removed_count", len(removed),
		"added_count", len(added),
		"applied", result.Applied,
	)
	return result, nil
}

// HandleProjectAuthorChanged keeps the owner's project list in step with
// project creation and deletion. Updates carry no authorship change.
func (c SyncConsumer) HandleProjectAuthorChanged(ctx context.Context, envelope syncv1.Envelope) (syncv1.ApplyResult, error) {
	payload, err := syncv1.ParseProjectAuthorChanged(envelope)
	if err != nil {
		return syncv1.ApplyResult{}, err
	}

	var apply func(context.Context, string) error
	switch payload.Action {
	case syncv1.ActionCreate:
		apply = func(ctx context.Context, username string) error { return c.appendRef(ctx, username, payload.Ref) }
	case syncv1.ActionDelete:
		apply = func(ctx context.Context, username string) error { return c.removeRef(ctx, username, payload.Ref) }
	default:
		return syncv1.ApplyResult{}, nil
	}
	return syncv1.Fanout(ctx, c.FanoutLimit, []string{payload.Project.Author}, apply), nil
}

// appendRef does not check for an existing reference, so a redelivered
// envelope appends a duplicate.
// TODO: skip duplicates once envelopes are deduplicated by message id.
func (c SyncConsumer) appendRef(ctx context.Context, username string, ref syncv1.ProjectRef) error {
	user, err := c.loadUser(ctx, username)
	if err != nil {
		return err
	}
	if user.Projects == nil {
		user.Projects = []syncv1.ProjectRef{}
	}
	user.Projects = append(user.Projects, ref)
	user.UpdatedAt = c.now()
	return c.Users.SaveUser(ctx, user)
}

func (c SyncConsumer) removeRef(ctx context.Context, username string, ref syncv1.ProjectRef) error {
	user, err := c.loadUser(ctx, username)
	if err != nil {
		return err
	}
	kept, dropped := syncv1.RemoveRef(user.Projects, ref)
	if dropped == 0 {
		return nil
	}
	user.Projects = kept
	user.UpdatedAt = c.now()
	return c.Users.SaveUser(ctx, user)
}

func (c SyncConsumer) loadUser(ctx context.Context, username string) (entities.User, error) {
	user, err := c.Users.GetUser(ctx, username)
	if errors.Is(err, domainerrors.ErrUserNotFound) {
		return entities.User{}, fmt.Errorf("%w: user %s", syncv1.ErrReferencedEntityMissing, username)
	}
	return user, err
}

func (c SyncConsumer) now() time.Time {
	if c.Clock == nil {
		return time.Now().UTC()
	}
	return c.Clock.Now().UTC()
}
