package auth

import (
	"time"

	"github.com/trezcool/dormadmin/core"
)

const (
	RoleAdmin   = "admin"
	RoleManager = "manager"
	RoleStaff   = "staff"
)

// User is the account behind the session.
type User struct {
	ID        string    `json:"_id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	FullName  string    `json:"fullName"`
	Role      string    `json:"role"`
	IsActive  bool      `json:"isActive"`
	LastLogin time.Time `json:"lastLogin"`
}

func (u User) IsAdmin() bool { return u.Role == RoleAdmin }

// Credentials identify an account on login. Username may also be an email.
type Credentials struct {
	Username string `json:"username" validate:"notblank"`
	Password string `json:"password" validate:"required"`
}

func (c *Credentials) Validate(v *core.Validator) error {
	c.Username = core.CleanString(c.Username)
	return v.Struct(c)
}

// loginResponse covers the token being returned inside data or next to it.
type loginResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}
