package httptransport

type CreateUserRequest struct {
	Username string `json:"username"`
	Email    string `json:"email,omitempty"`
	Name     string `json:"name,omitempty"`
	TeamName string `json:"team_name,omitempty"`
}

type UpdateUserProjectsRequest struct {
	Projects []string `json:"projects"`
}

type UserDTO struct {
	Username  string   `json:"username"`
	Email     string   `json:"email,omitempty"`
	Name      string   `json:"name,omitempty"`
	TeamName  string   `json:"team_name,omitempty"`
	Projects  []string `json:"projects"`
	CreatedAt string   `json:"created_at"`
	UpdatedAt string   `json:"updated_at"`
}

type UserResponse struct {
	User UserDTO `json:"user"`
}

type CreateTeamRequest struct {
	Name    string `json:"name"`
	Leader  string `json:"leader,omitempty"`
	Website string `json:"website,omitempty"`
}

type RenameTeamRequest struct {
	Name string `json:"name"`
}

type TeamDTO struct {
	Name      string   `json:"name"`
	Leader    string   `json:"leader,omitempty"`
	Website   string   `json:"website,omitempty"`
	Members   []string `json:"members"`
	Projects  []string `json:"projects"`
	CreatedAt string   `json:"created_at"`
	UpdatedAt string   `json:"updated_at"`
}

type TeamResponse struct {
	Team TeamDTO `json:"team"`
}

type RenameTeamResponse struct {
	Team           TeamDTO `json:"team"`
	MembersUpdated int     `json:"members_updated"`
	MembersFailed  int     `json:"members_failed"`
}

type DeleteTeamResponse struct {
	Name           string `json:"name"`
	MembersCleared int    `json:"members_cleared"`
}

// SyncFailureResponse is returned with HTTP 500 when the local write
// committed but the sync envelope could not be published.
type SyncFailureResponse struct {
	Code    string   `json:"code"`
	Message string   `json:"message"`
	User    *UserDTO `json:"user,omitempty"`
	Team    *TeamDTO `json:"team,omitempty"`
}

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
