package model

import "time"

// Client is a registered client profile.
// CompanyKey is derived from the email domain at creation time and never
// changes afterwards; it is the fuzzy-match target for client search.
type Client struct {
	ID                 string    `json:"id"`
	FirstName          string    `json:"first_name"`
	LastName           string    `json:"last_name"`
	Email              string    `json:"email"`
	CountryOfResidence string    `json:"country_of_residence"`
	CompanyKey         string    `json:"company_key"`
	CreatedAt          time.Time `json:"created_at"`
}
