package domain

type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

// User is the operator signed in on the terminal.
type User struct {
	ID       int64  `json:"id"`
	Email    string `json:"email"`
	FullName string `json:"fullName"`
	Role     Role   `json:"role"`
	Phone    string `json:"phone,omitempty"`
	Address  string `json:"address,omitempty"`
}

type Registration struct {
	Email    string
	Password string
	FullName string
	Phone    string
	Address  string
}

type ProfileUpdate struct {
	FullName string
	Phone    string
	Address  string
}

type PasswordChange struct {
	Current string
	New     string
	Confirm string
}

// AuthSession is an authenticated backend session: the bearer token and the
// user it belongs to.
type AuthSession struct {
	Token string
	User  User
}
