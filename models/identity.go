package models

// Identity is the owner of a cart: an authenticated user or an
// anonymous guest session, never both.
type Identity struct {
	UserID     string
	SessionKey string
}

func UserIdentity(userID string) Identity      { return Identity{UserID: userID} }
func GuestIdentity(sessionKey string) Identity { return Identity{SessionKey: sessionKey} }

func (i Identity) Guest() bool { return i.SessionKey != "" }
