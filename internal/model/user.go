package model

import "strconv"

type User struct {
	ID           int64
	FullName     string
	Email        string
	Photo        string
	Admin        bool
	DeviceTokens []string
}

// IDString is the user's id as stored on owned events.
func (u *User) IDString() string {
	return strconv.FormatInt(u.ID, 10)
}
