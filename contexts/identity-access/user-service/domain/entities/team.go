package entities

import (
	"slices"
	"time"
)

type Team struct {
	Name      string
	Leader    string
	Website   string
	Members   []string
	Projects  []string
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (t Team) HasMember(username string) bool {
	return slices.Contains(t.Members, username)
}

func (t Team) Clone() Team {
	t.Members = append([]string(nil), t.Members...)
	t.Projects = append([]string(nil), t.Projects...)
	return t
}
