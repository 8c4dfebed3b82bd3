package domain

// ID is used across domain entities.
type ID = int64

// Role values accepted by the auth middleware.
const (
	RoleAdmin   = "admin"
	RoleManager = "manager"
	RoleViewer  = "viewer"
)

// RequestContext carries the authenticated operator for a single request.
// Services receive it explicitly; nothing reservation-related lives in
// process-wide state.
type RequestContext struct {
	UserID    int64  `json:"userId"`
	Role      string `json:"role"`
	FullName  string `json:"fullName"`
	RequestID string `json:"requestId"`
}
