package entities

import (
	"time"

	syncv1 "entomophage/contracts/sync/v1"
)

type Project struct {
	Owner        string
	Name         string
	Website      string
	Description  string
	License      string
	Contributors []string
	TeamName     string
	IssueIDs     []string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (p Project) Ref() syncv1.ProjectRef {
	return syncv1.ProjectRef{Owner: p.Owner, Name: p.Name}
}

// Snapshot returns the public fields sent to the identity service.
func (p Project) Snapshot() syncv1.ProjectSnapshot {
	return syncv1.ProjectSnapshot{
		Name:         p.Name,
		Author:       p.Owner,
		Contributors: append([]string{}, p.Contributors...),
		TeamName:     p.TeamName,
	}
}

func (p Project) Clone() Project {
	p.Contributors = append([]string(nil), p.Contributors...)
	p.IssueIDs = append([]string(nil), p.IssueIDs...)
	return p
}
