package models

// Roles known to the backend. Unrecognized values are kept verbatim and
// fall through to the settings landing route.
const (
	RoleStudent    = "student"
	RoleTeacher    = "teacher"
	RoleStaff      = "staff"
	RoleAdmin      = "admin"
	RolePrincipal  = "principal"
	RoleSuperadmin = "superadmin"
)

// StudentContext carries the class placement of a student account. It is
// only present on student sessions.
type StudentContext struct {
	Grade     string `json:"grade"`
	Section   string `json:"section"`
	ClassID   string `json:"classId"`
	ClassName string `json:"className"`
	TopicName string `json:"topicName"`
}

// Session is the authenticated identity held by the client for the
// current app run. A token without a paired user id is treated as
// corrupt and discarded by the startup validator.
type Session struct {
	AuthToken      string          `json:"authToken,omitempty"`
	Role           string          `json:"role,omitempty"`
	UserGUID       string          `json:"userGuid,omitempty"`
	UserID         string          `json:"userId,omitempty"`
	StudentContext *StudentContext `json:"studentContext,omitempty"`
}
