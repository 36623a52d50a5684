// Package contacts binds the macOS Contacts store through generated AppleScript.
package contacts

import "strings"

// Contact is a person record as reported by the contacts store.
type Contact struct {
	ID           string   `json:"id"`
	FirstName    string   `json:"firstName"`
	LastName     string   `json:"lastName"`
	FullName     string   `json:"fullName"`
	Emails       []string `json:"emails"`
	Phones       []string `json:"phones"`
	Organization *string  `json:"organization,omitempty"`
	JobTitle     *string  `json:"jobTitle,omitempty"`
	Note         *string  `json:"note,omitempty"`
	Birthday     *string  `json:"birthday,omitempty"`
	Addresses    []string `json:"addresses"`
}

// Group is a contact group with the member count reported by the store.
type Group struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	MemberCount int    `json:"memberCount"`
}

// NewContact holds the fields for a contact to be created. Empty fields are skipped.
type NewContact struct {
	FirstName    string
	LastName     string
	Email        string
	Phone        string
	Organization string
	JobTitle     string
	Note         string
}

// HasIdentity reports whether the contact carries a first name, last name or organization.
func (n NewContact) HasIdentity() bool {
	return strings.TrimSpace(n.FirstName) != "" ||
		strings.TrimSpace(n.LastName) != "" ||
		strings.TrimSpace(n.Organization) != ""
}

// ContactUpdate lists fields to overwrite. Nil fields are left untouched.
type ContactUpdate struct {
	FirstName    *string
	LastName     *string
	Organization *string
	JobTitle     *string
	Note         *string
}

// Empty reports whether no field is set.
func (u ContactUpdate) Empty() bool {
	return u.FirstName == nil && u.LastName == nil && u.Organization == nil && u.JobTitle == nil && u.Note == nil
}

func displayName(name, first, last string) string {
	if strings.TrimSpace(name) != "" {
		return name
	}
	return strings.TrimSpace(first + " " + last)
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
