package models

import "strconv"

// Account is an end-user of the learning app as listed by GET /api/all.
type Account struct {
	ID          int64   `json:"id"`
	Username    string  `json:"username"`
	Email       string  `json:"email"`
	FullName    string  `json:"fullName"`
	Premium     bool    `json:"premium"`
	TotalStar   int     `json:"totalStar"`
	DateOfBirth *string `json:"dateOfBirth,omitempty"`
	AvatarURL   *string `json:"avatarUrl,omitempty"`
}

// PlanLabel returns the subscription label shown in tables.
func (a Account) PlanLabel() string {
	if a.Premium {
		return "Premium"
	}
	return "Free"
}

// SearchFields returns the values matched by the users search box.
func (a Account) SearchFields() []string {
	return []string{a.Username, a.FullName, a.Email, strconv.FormatInt(a.ID, 10)}
}
