package v1

import (
	"fmt"
	"strings"
)

// Changed-data field names used on the wire.
const (
	FieldOldName      = "oldName"
	FieldNewName      = "newName"
	FieldUser         = "user"
	FieldProjects     = "projects"
	FieldProject      = "project"
	FieldContributors = "contributors"
)

// TeamRenamed is the payload of IdentityTeamNameChanged.
type TeamRenamed struct {
	OldName string
	NewName string
}

// NewTeamRenamed builds the envelope the identity service sends after a
// team rename has been applied locally.
func NewTeamRenamed(oldName string, newName string) Envelope {
	return Envelope{
		Sender:     PartyIdentity,
		Recipient:  PartyIssues,
		Action:     ActionUpdate,
		ChangedKey: IdentityTeamNameChanged,
		ChangedData: ChangedData{
			FieldOldName: String(oldName),
			FieldNewName: String(newName),
		},
	}
}

func ParseTeamRenamed(envelope Envelope) (TeamRenamed, error) {
	oldName, err := envelope.ChangedData.String(FieldOldName)
	if err != nil {
		return TeamRenamed{}, err
	}
	newName, err := envelope.ChangedData.String(FieldNewName)
	if err != nil {
		return TeamRenamed{}, err
	}
	if strings.TrimSpace(oldName) == "" {
		return TeamRenamed{}, &ValidationError{Field: FieldOldName, Want: DataTypeString, Got: DataTypeString, Reason: "is empty"}
	}
	if strings.TrimSpace(newName) == "" {
		return TeamRenamed{}, &ValidationError{Field: FieldNewName, Want: DataTypeString, Got: DataTypeString, Reason: "is empty"}
	}
	return TeamRenamed{OldName: oldName, NewName: newName}, nil
}

// ProjectsChanged is the payload of IdentityProjectIDsChanged: the user's
// prior snapshot and the project list it now holds.
type ProjectsChanged struct {
	User     UserSnapshot
	Projects []ProjectRef
}

func NewProjectsChanged(prior UserSnapshot, projects []ProjectRef) Envelope {
	return Envelope{
		Sender:     PartyIdentity,
		Recipient:  PartyIssues,
		Action:     ActionUpdate,
		ChangedKey: IdentityProjectIDsChanged,
		ChangedData: ChangedData{
			FieldUser:     prior,
			FieldProjects: StringList(RefStrings(projects)),
		},
	}
}

func ParseProjectsChanged(envelope Envelope) (ProjectsChanged, error) {
	user, err := envelope.ChangedData.User(FieldUser)
	if err != nil {
		return ProjectsChanged{}, err
	}
	raw, err := envelope.ChangedData.StringList(FieldProjects)
	if err != nil {
		return ProjectsChanged{}, err
	}
	projects := make([]ProjectRef, 0, len(raw))
	for _, value := range raw {
		ref, err := ParseProjectRef(value)
		if err != nil {
			return ProjectsChanged{}, &ValidationError{
				Field:  FieldProjects,
				Want:   DataTypeStringList,
				Got:    DataTypeStringList,
				Reason: fmt.Sprintf("holds an invalid reference: %v", err),
			}
		}
		projects = append(projects, ref)
	}
	return ProjectsChanged{User: user, Projects: projects}, nil
}

// ProjectAuthorChanged is the payload of IssueProjectAuthorChanged.
type ProjectAuthorChanged struct {
	Action  Action
	Project ProjectSnapshot
	Ref     ProjectRef
}

func NewProjectAuthorChanged(action Action, project ProjectSnapshot) Envelope {
	return Envelope{
		Sender:     PartyIssues,
		Recipient:  PartyIdentity,
		Action:     action,
		ChangedKey: IssueProjectAuthorChanged,
		ChangedData: ChangedData{
			FieldProject: project,
		},
	}
}

func ParseProjectAuthorChanged(envelope Envelope) (ProjectAuthorChanged, error) {
	project, err := envelope.ChangedData.Project(FieldProject)
	if err != nil {
		return ProjectAuthorChanged{}, err
	}
	ref, err := project.Ref()
	if err != nil {
		return ProjectAuthorChanged{}, &ValidationError{Field: FieldProject, Want: DataTypeProject, Got: DataTypeProject, Reason: err.Error()}
	}
	return ProjectAuthorChanged{Action: envelope.Action, Project: project, Ref: ref}, nil
}

// ContributorsChanged is the payload of IssueProjectContributorsChanged. Project
// holds the contributor list before the change.
type ContributorsChanged struct {
	Project      ProjectSnapshot
	Ref          ProjectRef
	Contributors []string
}

func NewContributorsChanged(prior ProjectSnapshot, contributors []string) Envelope {
	return Envelope{
		Sender:     PartyIssues,
		Recipient:  PartyIdentity,
		Action:     ActionUpdate,
		ChangedKey: IssueProjectContributorsChanged,
		ChangedData: ChangedData{
			FieldProject:      prior,
			FieldContributors: StringList(contributors),
		},
	}
}

func ParseContributorsChanged(envelope Envelope) (ContributorsChanged, error) {
	project, err := envelope.ChangedData.Project(FieldProject)
	if err != nil {
		return ContributorsChanged{}, err
	}
	ref, err := project.Ref()
	if err != nil {
		return ContributorsChanged{}, &ValidationError{Field: FieldProject, Want: DataTypeProject, Got: DataTypeProject, Reason: err.Error()}
	}
	contributors, err := envelope.ChangedData.StringList(FieldContributors)
	if err != nil {
		return ContributorsChanged{}, err
	}
	return ContributorsChanged{Project: project, Ref: ref, Contributors: contributors}, nil
}
