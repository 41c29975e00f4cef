package model

import (
	"regexp"
	"strings"
)

var (
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phonePattern = regexp.MustCompile(`^\+?[0-9][0-9\s-]{7,18}[0-9]$`)
)

// Customer holds the buyer and shipping details captured at checkout.
type Customer struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	Address    string `json:"address"`
	City       string `json:"city"`
	PostalCode string `json:"postalCode"`
}

// Normalize trims surrounding whitespace from every field.
func (c *Customer) Normalize() {
	c.Name = strings.TrimSpace(c.Name)
	c.Email = strings.TrimSpace(c.Email)
	c.Phone = strings.TrimSpace(c.Phone)
	c.Address = strings.TrimSpace(c.Address)
	c.City = strings.TrimSpace(c.City)
	c.PostalCode = strings.TrimSpace(c.PostalCode)
}

// Validate returns a *ValidationError listing every missing or malformed field.
func (c *Customer) Validate() error {
	verr := &ValidationError{}

	required := []struct {
		field string
		value string
	}{
		{"name", c.Name},
		{"email", c.Email},
		{"phone", c.Phone},
		{"address", c.Address},
		{"city", c.City},
		{"postalCode", c.PostalCode},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			verr.Add(r.field, r.field+" is required")
		}
	}

	if c.Email != "" && !emailPattern.MatchString(strings.TrimSpace(c.Email)) {
		verr.Add("email", "email is not a valid address")
	}
	if c.Phone != "" && !phonePattern.MatchString(strings.TrimSpace(c.Phone)) {
		verr.Add("phone", "phone is not a valid phone number")
	}

	return verr.OrNil()
}
