// README: User records stored in users.json.
package account

import (
	"fmt"
	"strings"
)

const DocumentName = "users.json"

// User is a stored account. Password holds a bcrypt hash, or the plaintext
// of an account created before hashing was introduced.
type User struct {
	Username string `json:"username"`
	Password string `json:"password"`
	FullName string `json:"full_name"`
	Address  string `json:"address"`
}

type Directory struct {
	Users []User `json:"users"`
}

func NewDirectory() Directory {
	return Directory{Users: []User{}}
}

func (d *Directory) Validate() error {
	seen := make(map[string]struct{}, len(d.Users))
	for i, u := range d.Users {
		if strings.TrimSpace(u.Username) == "" {
			return fmt.Errorf("user %d has an empty username", i)
		}
		if _, dup := seen[u.Username]; dup {
			return fmt.Errorf("username %q appears more than once", u.Username)
		}
		seen[u.Username] = struct{}{}
	}
	if d.Users == nil {
		d.Users = []User{}
	}
	return nil
}

func (d Directory) find(username string) int {
	for i, u := range d.Users {
		if u.Username == username {
			return i
		}
	}
	return -1
}

// Profile is the public view of a user.
type Profile struct {
	Username string `json:"username"`
	FullName string `json:"full_name"`
	Address  string `json:"address"`
}

func (u User) Profile() Profile {
	return Profile{Username: u.Username, FullName: u.FullName, Address: u.Address}
}
