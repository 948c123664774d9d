package domain

import "time"

// AuthProvider identifies how a user signed in.
type AuthProvider string

const (
	// ProviderNone marks a placeholder user created when someone added them by email.
	ProviderNone   AuthProvider = ""
	ProviderGoogle AuthProvider = "GOOGLE"
)

// User represents a person that can owe or be owed money.
// Users added as participants by email exist before they ever sign in.
type User struct {
	UserID         string       `json:"userID"`
	Name           string       `json:"name"`
	Email          string       `json:"email"`
	Nickname       string       `json:"nickname,omitempty"`
	ImageURL       string       `json:"imageURL,omitempty"`
	AuthProvider   AuthProvider `json:"authProvider,omitempty"`
	ProviderUserID string       `json:"-"`
	EmailVerified  *time.Time   `json:"emailVerified,omitempty"`
	AuditFields
}

// HasSignedIn reports whether the user has ever authenticated.
func (u *User) HasSignedIn() bool {
	return u.AuthProvider != ProviderNone
}

// Party converts the user into the identity carried on debt edges.
func (u *User) Party() Party {
	return Party{UserID: u.UserID, Name: u.Name, Email: u.Email}
}

// GoogleUserInfo holds the profile fields returned by Google.
type GoogleUserInfo struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	VerifiedEmail bool   `json:"verified_email"`
	Name          string `json:"name"`
	Picture       string `json:"picture"`
}
