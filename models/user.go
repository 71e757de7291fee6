package models

// User is a registered account. ID is zero until the datastore assigns it.
type User struct {
	ID        int64  `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"firstname"`
}
