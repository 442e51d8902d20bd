package models

import "time"

// Action names a state-changing event recorded in the activity log.
type Action string

const (
	ActionRegister      Action = "REGISTER"
	ActionLogin         Action = "LOGIN"
	ActionLoginFailed   Action = "LOGIN_FAILED"
	ActionAddFeature    Action = "ADD_FEATURE"
	ActionUpdateFeature Action = "UPDATE_FEATURE"
	ActionDeleteFeature Action = "DELETE_FEATURE"
	ActionSystemStart   Action = "SYSTEM_START"
)

// SystemUser is the username attached to entries not caused by a caller.
const SystemUser = "System"

// ActivityEntry is an immutable audit record. Entries are appended and never
// rewritten or removed.
type ActivityEntry struct {
	ID        string         `json:"id"`
	Action    Action         `json:"action"`
	Username  string         `json:"username"`
	Timestamp time.Time      `json:"timestamp"`
	Details   map[string]any `json:"details"`
}
