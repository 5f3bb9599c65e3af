package entity

import "strings"

// ContactSource tags every contact this site creates upstream.
const ContactSource = "Robin Blocks Website"

// Subscriber is a normalized signup: lower-cased trimmed email, trimmed names.
type Subscriber struct {
	Email     string `json:"email"`
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
}

func NewSubscriber(email, firstName, lastName string) Subscriber {
	return Subscriber{
		Email:     strings.ToLower(strings.TrimSpace(email)),
		FirstName: strings.TrimSpace(firstName),
		LastName:  strings.TrimSpace(lastName),
	}
}

// Contact is the body sent to the contact-management API.
type Contact struct {
	Email      string `json:"email"`
	Source     string `json:"source"`
	Subscribed bool   `json:"subscribed"`
	FirstName  string `json:"firstName,omitempty"`
	LastName   string `json:"lastName,omitempty"`
}

func (s Subscriber) Contact() Contact {
	return Contact{
		Email:      s.Email,
		Source:     ContactSource,
		Subscribed: true,
		FirstName:  s.FirstName,
		LastName:   s.LastName,
	}
}
