package models

import "time"

// Role gates what a user may do beyond the defaults every account has.
type Role string

const (
	RoleViewer    Role = "viewer"
	RoleFilmmaker Role = "filmmaker"
	RoleReviewer  Role = "reviewer"
	RoleAdmin     Role = "admin"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleViewer, RoleFilmmaker, RoleReviewer, RoleAdmin:
		return true
	}
	return false
}

// User models a registered account. PasswordHash never leaves the server.
type User struct {
	ID             string    `json:"id"`
	Username       string    `json:"username"`
	Email          string    `json:"email,omitempty"`
	DisplayName    string    `json:"displayName,omitempty"`
	Bio            string    `json:"bio,omitempty"`
	AvatarURL      string    `json:"avatarUrl,omitempty"`
	Role           Role      `json:"role"`
	PasswordHash   string    `json:"-"`
	FollowersCount int       `json:"followersCount"`
	FollowingCount int       `json:"followingCount"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// Public returns a copy without private contact details.
func (u User) Public() User {
	u.Email = ""
	return u
}

// UserQuery filters the user directory.
type UserQuery struct {
	Search string
	Role   Role
	Limit  int
	Offset int
}

// ProfileUpdate carries the self-editable profile fields. Nil means unchanged.
type ProfileUpdate struct {
	DisplayName *string `json:"displayName,omitempty"`
	Bio         *string `json:"bio,omitempty"`
	AvatarURL   *string `json:"avatarUrl,omitempty"`
}

// Stats summarises collection sizes for the admin dashboard.
type Stats struct {
	Users   int `json:"users"`
	Lists   int `json:"lists"`
	Reviews int `json:"reviews"`
	Posts   int `json:"posts"`
}
