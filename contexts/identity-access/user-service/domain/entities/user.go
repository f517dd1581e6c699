package entities

import (
	"time"

	syncv1 "entomophage/contracts/sync/v1"
)

type User struct {
	Username  string
	Email     string
	Name      string
	TeamName  string
	Projects  []syncv1.ProjectRef
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Snapshot returns the public fields sent to the issue service.
func (u User) Snapshot() syncv1.UserSnapshot {
	return syncv1.UserSnapshot{
		Username: u.Username,
		TeamName: u.TeamName,
		Projects: append([]syncv1.ProjectRef(nil), u.Projects...),
	}
}

// Clone returns a copy that does not share the project slice.
func (u User) Clone() User {
	u.Projects = append([]syncv1.ProjectRef(nil), u.Projects...)
	return u
}
