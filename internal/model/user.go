package model

// User represents an application user record as held by the credential
// store. The ID is the login identifier (an e-mail address in practice) and
// is unique across the store.
//
// Fields:
//  ID           – unique, stable login identifier.
//  FirstName    – given name supplied at registration.
//  LastName     – family name supplied at registration.
//  Birth        – birth date as entered by the user (free-form).
//  PasswordHash – bcrypt digest of the password.
type User struct {
	ID           string
	FirstName    string
	LastName     string
	Birth        string
	PasswordHash string
}

// Profile is the public part of a User. It is the only user shape that
// leaves the service; the password digest is never exposed.
type Profile struct {
	ID        string `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Birth     string `json:"birth,omitempty"`
}

// Profile strips the password digest from u.
func (u User) Profile() Profile {
	return Profile{ID: u.ID, FirstName: u.FirstName, LastName: u.LastName, Birth: u.Birth}
}
