package models

type User struct {
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName,omitempty"`
	IsBot     bool   `json:"isBot"`
}

func (u *User) DisplayName() string {
	if u.Username != "" {
		return "@" + u.Username
	}

	if u.LastName != "" {
		return u.FirstName + " " + u.LastName
	}

	return u.FirstName
}

type Chat struct {
	ID       int64    `json:"id"`
	Title    string   `json:"title"`
	Type     ChatType `json:"type"`
	Username string   `json:"username,omitempty"`
}
