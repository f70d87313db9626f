package domain

// UserMetadata carries the optional profile fields the auth backend nests
// under user_metadata.
type UserMetadata struct {
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
	Phone     string `json:"phone,omitempty"`
}

// User is the identity returned by the auth backend.
type User struct {
	ID       string       `json:"id"`
	Email    string       `json:"email"`
	Metadata UserMetadata `json:"user_metadata"`
}

// Session is the resolved authentication state for one shopper. A nil User
// means the shopper is anonymous.
type Session struct {
	User        *User
	AccessToken string
}

// IsAuthenticated reports whether a user is bound to the session.
func (s Session) IsAuthenticated() bool {
	return s.User != nil
}
