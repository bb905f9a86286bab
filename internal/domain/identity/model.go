package identity

// Identity is the local user's auth state. There is no expiry and no
// multi-user concept; a zero value means signed out.
type Identity struct {
	Username      string
	Authenticated bool
}

// MinUsernameRunes is the shortest accepted username after trimming.
const MinUsernameRunes = 3
