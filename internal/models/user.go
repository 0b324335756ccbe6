package models

// Role represents what a terminal user may change
type Role string

const (
	RolePublic Role = "public"
	RoleAdmin  Role = "admin"
)

// User represents the person operating a terminal
type User struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Role Role   `json:"role"`
}

// PublicUser is the user every terminal starts with
var PublicUser = User{ID: "public", Name: "Staff", Role: RolePublic}

// AdminUser is the user granted after a successful PIN login
var AdminUser = User{ID: "admin", Name: "Administrator", Role: RoleAdmin}

// IsAdmin reports whether the user may change terminal configuration
func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
