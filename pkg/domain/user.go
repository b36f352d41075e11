package domain

// User is a registered Atlas user as returned by the backend.
type User struct {
	ID       string `json:"_id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}
