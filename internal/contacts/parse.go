package contacts

import (
	"encoding/json"
	"strings"
)

// backendContact is the record shape printed by the generated scripts.
// email/phone are the single-valued keys older scripts emitted.
type backendContact struct {
	ID     string   `json:"id"`
	First  string   `json:"fn"`
	Last   string   `json:"ln"`
	Name   string   `json:"name"`
	Emails []string `json:"emails"`
	Phones []string `json:"phones"`
	Email  string   `json:"email"`
	Phone  string   `json:"phone"`
	Org    string   `json:"org"`
	Title  string   `json:"title"`
	Note   *string  `json:"note"`
}

type backendGroup struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func (b backendContact) toContact() Contact {
	return Contact{
		ID:           b.ID,
		FirstName:    b.First,
		LastName:     b.Last,
		FullName:     displayName(b.Name, b.First, b.Last),
		Emails:       values(b.Emails, b.Email),
		Phones:       values(b.Phones, b.Phone),
		Organization: optional(b.Org),
		JobTitle:     optional(b.Title),
		Note:         optionalPtr(b.Note),
		Addresses:    []string{},
	}
}

func optionalPtr(s *string) *string {
	if s == nil {
		return nil
	}
	return optional(*s)
}

func values(list []string, single string) []string {
	out := make([]string, 0, len(list)+1)
	for _, v := range list {
		if v != "" {
			out = append(out, v)
		}
	}
	if len(out) == 0 && single != "" {
		out = append(out, single)
	}
	return out
}

func isEmptyOutput(trimmed string) bool {
	return trimmed == "" || trimmed == "[]" || trimmed == "{}"
}

// parseContacts decodes a JSON array of backend records. Empty or undecodable
// output yields an empty list.
func parseContacts(output string) []Contact {
	trimmed := strings.TrimSpace(output)
	if isEmptyOutput(trimmed) {
		return []Contact{}
	}
	var items []backendContact
	if err := json.Unmarshal([]byte(trimmed), &items); err != nil {
		return []Contact{}
	}
	out := make([]Contact, 0, len(items))
	for _, item := range items {
		out = append(out, item.toContact())
	}
	return out
}

// parseContact decodes a single backend record; nil means not found.
func parseContact(output string) *Contact {
	trimmed := strings.TrimSpace(output)
	if isEmptyOutput(trimmed) {
		return nil
	}
	var item backendContact
	if err := json.Unmarshal([]byte(trimmed), &item); err != nil || item.ID == "" {
		return nil
	}
	contact := item.toContact()
	return &contact
}

func parseGroups(output string) []Group {
	trimmed := strings.TrimSpace(output)
	if isEmptyOutput(trimmed) {
		return []Group{}
	}
	var items []backendGroup
	if err := json.Unmarshal([]byte(trimmed), &items); err != nil {
		return []Group{}
	}
	out := make([]Group, 0, len(items))
	for _, item := range items {
		count := item.Count
		if count < 0 {
			count = 0
		}
		out = append(out, Group{ID: item.ID, Name: item.Name, MemberCount: count})
	}
	return out
}
