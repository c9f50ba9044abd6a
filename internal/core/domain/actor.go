package domain

// Actor identifies who is performing a request. A zero UserID means the
// request came from an unauthenticated guest; guests are subject to the
// configured USD tip limit.
type Actor struct {
	UserID string `json:"userID"`
	Email  string `json:"email"`
	Role   string `json:"role"`
}

// Guest is the actor used for unauthenticated requests.
var Guest = Actor{}

// IsGuest reports whether the actor is unauthenticated.
func (a Actor) IsGuest() bool {
	return a.UserID == ""
}

// Identity returns the sender identity recorded on transactions.
func (a Actor) Identity() string {
	if a.IsGuest() {
		return GuestIdentity
	}
	if a.Email != "" {
		return a.Email
	}
	return a.UserID
}

// GuestIdentity is the sender identity recorded for guest transactions.
const GuestIdentity = "guest"
