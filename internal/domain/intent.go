package domain

// Intent is the classified category of an assistant command.
type Intent string

const (
	IntentPlay            Intent = "play"
	IntentSearchYouTube   Intent = "search_youtube"
	IntentClock           Intent = "clock"
	IntentSearchWeb       Intent = "search_web"
	IntentLookupReference Intent = "lookup_reference"
	IntentUnknown         Intent = "unknown"
)

func (i Intent) String() string { return string(i) }

func (i Intent) IsValid() bool {
	switch i {
	case IntentPlay, IntentSearchYouTube, IntentClock,
		IntentSearchWeb, IntentLookupReference, IntentUnknown:
		return true
	}
	return false
}

// UserRole represents the authorization level of a user.
type UserRole string

const (
	UserRoleUser  UserRole = "user"
	UserRoleAdmin UserRole = "admin"
)

func (r UserRole) String() string { return string(r) }

func (r UserRole) IsValid() bool {
	switch r {
	case UserRoleUser, UserRoleAdmin:
		return true
	}
	return false
}

func (r UserRole) IsAdmin() bool {
	return r == UserRoleAdmin
}
