package domain

import "time"

// Favorite is a country saved by a user. Uniqueness of a
// (user, countryCode) pair is enforced by the backend.
type Favorite struct {
	CountryCode string    `json:"countryCode"`
	Name        string    `json:"name"`
	Flag        string    `json:"flag,omitempty"`
	CreatedAt   time.Time `json:"createdAt,omitempty"`
}
