// Package render prints command results as text or key-sorted JSON.
package render

import (
	"fmt"
	"io"
	"strings"

	"contactbook/internal/contacts"
	"contactbook/internal/tools"
	"contactbook/internal/util"
)

// Printer writes results to w. With JSON set every result is printed as
// indented JSON with sorted keys.
type Printer struct {
	w    io.Writer
	json bool
}

// NewPrinter creates a printer for w.
func NewPrinter(w io.Writer, jsonOutput bool) *Printer {
	return &Printer{w: w, json: jsonOutput}
}

// JSON prints v as indented key-sorted JSON regardless of the mode.
func (p *Printer) JSON(v any) error {
	payload, err := util.CanonicalJSON(v, "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(p.w, string(payload))
	return err
}

// Contacts prints a contact list.
func (p *Printer) Contacts(list []contacts.Contact) error {
	if list == nil {
		list = []contacts.Contact{}
	}
	if p.json {
		return p.JSON(list)
	}
	if len(list) == 0 {
		fmt.Fprintln(p.w, "No contacts found")
		return nil
	}
	fmt.Fprintf(p.w, "Found %d contact(s):\n\n", len(list))
	for _, c := range list {
		fmt.Fprintf(p.w, "[%s]\n", c.ID)
		fmt.Fprintf(p.w, "  Name: %s\n", c.FullName)
		p.summary(c, "  ")
		fmt.Fprintln(p.w)
	}
	return nil
}

// Contact prints one contact with every known field.
func (p *Printer) Contact(c contacts.Contact) error {
	if p.json {
		return p.JSON(c)
	}
	fmt.Fprintf(p.w, "Name: %s\n", c.FullName)
	fmt.Fprintf(p.w, "ID: %s\n", c.ID)
	if c.FirstName != "" {
		fmt.Fprintf(p.w, "First name: %s\n", c.FirstName)
	}
	if c.LastName != "" {
		fmt.Fprintf(p.w, "Last name: %s\n", c.LastName)
	}
	for _, email := range c.Emails {
		fmt.Fprintf(p.w, "Email: %s\n", email)
	}
	for _, phone := range c.Phones {
		fmt.Fprintf(p.w, "Phone: %s\n", phone)
	}
	if c.Organization != nil {
		fmt.Fprintf(p.w, "Organization: %s\n", *c.Organization)
	}
	if c.JobTitle != nil {
		fmt.Fprintf(p.w, "Job title: %s\n", *c.JobTitle)
	}
	if c.Birthday != nil {
		fmt.Fprintf(p.w, "Birthday: %s\n", *c.Birthday)
	}
	if c.Note != nil {
		fmt.Fprintf(p.w, "Note: %s\n", *c.Note)
	}
	return nil
}

// Lookup prints the name behind a phone number, or Unknown. In JSON mode a
// match prints the contact itself and a miss prints {"found": false}.
func (p *Printer) Lookup(c *contacts.Contact) error {
	if p.json {
		if c == nil {
			return p.JSON(map[string]any{"found": false})
		}
		return p.JSON(c)
	}
	if c == nil {
		fmt.Fprintln(p.w, "Unknown")
		return nil
	}
	fmt.Fprintln(p.w, c.FullName)
	return nil
}

// Created prints the id of a new contact.
func (p *Printer) Created(id string) error {
	if p.json {
		return p.JSON(map[string]any{"id": id, "success": true})
	}
	fmt.Fprintf(p.w, "Created contact %s\n", id)
	return nil
}

// Outcome prints the result of an update or delete. verb is the past tense
// used in the text line, e.g. "Updated".
func (p *Printer) Outcome(verb, id string, ok bool) error {
	if p.json {
		return p.JSON(map[string]any{"success": ok})
	}
	if ok {
		fmt.Fprintf(p.w, "%s contact %s\n", verb, id)
		return nil
	}
	fmt.Fprintf(p.w, "No change for contact %s\n", id)
	return nil
}

// Groups prints all groups with member counts.
func (p *Printer) Groups(groups []contacts.Group) error {
	if groups == nil {
		groups = []contacts.Group{}
	}
	if p.json {
		return p.JSON(groups)
	}
	if len(groups) == 0 {
		fmt.Fprintln(p.w, "No groups found")
		return nil
	}
	fmt.Fprintf(p.w, "Found %d group(s):\n\n", len(groups))
	for _, g := range groups {
		fmt.Fprintf(p.w, "[%s]\n", g.ID)
		fmt.Fprintf(p.w, "  Name: %s\n", g.Name)
		fmt.Fprintf(p.w, "  Members: %d\n", g.MemberCount)
		fmt.Fprintln(p.w)
	}
	return nil
}

// GroupMembers prints the members of the named group.
func (p *Printer) GroupMembers(name string, members []contacts.Contact) error {
	if members == nil {
		members = []contacts.Contact{}
	}
	if p.json {
		return p.JSON(members)
	}
	if len(members) == 0 {
		fmt.Fprintf(p.w, "No contacts in group '%s' (or group not found)\n", name)
		return nil
	}
	fmt.Fprintf(p.w, "Found %d member(s) in '%s':\n\n", len(members), name)
	for _, c := range members {
		fmt.Fprintf(p.w, "  - %s\n", c.FullName)
		p.summary(c, "    ")
	}
	return nil
}

// Tools prints the tool catalogue, one name and description per entry.
func (p *Printer) Tools(list []tools.Tool) error {
	for _, tool := range list {
		fmt.Fprintln(p.w, tool.Name())
		fmt.Fprintf(p.w, "  %s\n", tool.Description())
	}
	return nil
}

func (p *Printer) summary(c contacts.Contact, indent string) {
	if len(c.Emails) > 0 {
		fmt.Fprintf(p.w, "%sEmail: %s\n", indent, strings.Join(c.Emails, ", "))
	}
	if len(c.Phones) > 0 {
		fmt.Fprintf(p.w, "%sPhone: %s\n", indent, strings.Join(c.Phones, ", "))
	}
	if c.Organization != nil {
		fmt.Fprintf(p.w, "%sOrganization: %s\n", indent, *c.Organization)
	}
}
