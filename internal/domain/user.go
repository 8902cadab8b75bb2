package domain

// User is the identity carried in the provider's session token. It is never
// persisted here; absence of a session means anonymous.
type User struct {
	ID        string
	Email     string
	FirstName string
	LastName  string
	AvatarURL string
}

func (u User) FullName() string {
	switch {
	case u.FirstName == "":
		return u.LastName
	case u.LastName == "":
		return u.FirstName
	default:
		return u.FirstName + " " + u.LastName
	}
}
