package domain

// User is the identity carried by a moderation token. Posting is anonymous.
type User struct {
	Name  string
	Admin bool
}
