package models

// User holds a registered member. Identity is deliberately password-less: the
// client presents a (fullName, email) pair and the server matches it exactly.
type User struct {
	ID       string `json:"id"`
	FullName string `json:"fullName"`
	Email    string `json:"email"`
}
