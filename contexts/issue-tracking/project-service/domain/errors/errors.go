package errors

import "errors"

var (
	ErrInvalidProjectRef    = errors.New("invalid project reference")
	ErrInvalidContributor   = errors.New("invalid contributor")
	ErrInvalidTeamName      = errors.New("invalid team name")
	ErrProjectNotFound      = errors.New("project not found")
	ErrProjectAlreadyExists = errors.New("project already exists")
	ErrSyncUnavailable      = errors.New("sync publish failed")
)
