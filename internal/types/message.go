package types

const (
	RoleUser  = "user"
	RoleModel = "model"
)

// Turn is one role-tagged entry in a conversation history.
type Turn struct {
	Role string `json:"role"`
	Text string `json:"text"`
}
