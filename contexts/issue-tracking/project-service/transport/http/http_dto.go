package httptransport

type CreateProjectRequest struct {
	Owner       string `json:"owner"`
	Name        string `json:"name"`
	Website     string `json:"website,omitempty"`
	Description string `json:"description,omitempty"`
	License     string `json:"license,omitempty"`
	TeamName    string `json:"team_name,omitempty"`
}

// UpdateProjectRequest is a partial update; absent fields keep their value.
type UpdateProjectRequest struct {
	Website      *string   `json:"website,omitempty"`
	Description  *string   `json:"description,omitempty"`
	License      *string   `json:"license,omitempty"`
	TeamName     *string   `json:"team_name,omitempty"`
	Contributors *[]string `json:"contributors,omitempty"`
}

type ProjectDTO struct {
	Ref          string   `json:"ref"`
	Owner        string   `json:"owner"`
	Name         string   `json:"name"`
	Website      string   `json:"website,omitempty"`
	Description  string   `json:"description,omitempty"`
	License      string   `json:"license,omitempty"`
	Contributors []string `json:"contributors"`
	TeamName     string   `json:"team_name,omitempty"`
	IssueIDs     []string `json:"issue_ids"`
	CreatedAt    string   `json:"created_at"`
	UpdatedAt    string   `json:"updated_at"`
}

type ProjectResponse struct {
	Project ProjectDTO `json:"project"`
}

type ListProjectsResponse struct {
	Items []ProjectDTO `json:"items"`
}

// SyncFailureResponse is returned with HTTP 500 when the local write
// committed but the sync envelope could not be published.
type SyncFailureResponse struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Project *ProjectDTO `json:"project,omitempty"`
}

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
