package errors

import "errors"

var (
	ErrInvalidUsername   = errors.New("invalid username")
	ErrInvalidEmail      = errors.New("invalid email")
	ErrInvalidTeamName   = errors.New("invalid team name")
	ErrInvalidProjectRef = errors.New("invalid project reference")
	ErrUserNotFound      = errors.New("user not found")
	ErrUserAlreadyExists = errors.New("user already exists")
	ErrTeamNotFound      = errors.New("team not found")
	ErrTeamAlreadyExists = errors.New("team already exists")
	ErrSyncUnavailable   = errors.New("sync publish failed")
)
