package tools

import (
	"context"

	"contactbook/internal/contacts"
)

// Service is the contacts backend the tools call into.
type Service interface {
	ListContacts(ctx context.Context, limit int) ([]contacts.Contact, error)
	SearchContacts(ctx context.Context, query string) ([]contacts.Contact, error)
	GetContact(ctx context.Context, id string) (*contacts.Contact, error)
	CreateContact(ctx context.Context, c contacts.NewContact) (string, error)
	UpdateContact(ctx context.Context, id string, u contacts.ContactUpdate) (bool, error)
	DeleteContact(ctx context.Context, id string) (bool, error)
	ListGroups(ctx context.Context) ([]contacts.Group, error)
	GroupMembers(ctx context.Context, name string) ([]contacts.Contact, error)
}

// In-band error documents returned inside successful results.
var (
	errContactNotFound  = map[string]string{"error": "Contact not found"}
	errIdentityRequired = map[string]string{"error": "At least firstName, lastName, or organization is required"}
)

type successPayload struct {
	Success bool `json:"success"`
}

type createdPayload struct {
	ID      string `json:"id"`
	Success bool   `json:"success"`
}

// ContactTools returns the eight contact and group tools bound to svc.
func ContactTools(svc Service) []Tool {
	return []Tool{
		listTool{svc},
		searchTool{svc},
		getTool{svc},
		createTool{svc},
		updateTool{svc},
		deleteTool{svc},
		groupsListTool{svc},
		groupMembersTool{svc},
	}
}

func stringProp(description string) map[string]any {
	return map[string]any{"type": "string", "description": description}
}

func objectSchema(props map[string]any, required ...string) map[string]any {
	schema := map[string]any{"type": "object", "properties": props}
	if len(required) > 0 {
		schema["required"] = required
	}
	return schema
}

type listTool struct{ svc Service }

func (listTool) Name() string { return "contacts_list" }
func (listTool) Description() string {
	return "List contacts from the address book. Optional: limit (int) to cap results, default 50."
}
func (listTool) Schema() map[string]any {
	return objectSchema(map[string]any{
		"limit": map[string]any{"type": "integer", "description": "Maximum number of contacts to return"},
	})
}
func (t listTool) Execute(ctx context.Context, args Args) (Result, error) {
	limit, err := args.OptionalInt("limit")
	if err != nil {
		return Result{}, invalidParams(err)
	}
	n := 0
	if limit != nil {
		n = *limit
	}
	list, err := t.svc.ListContacts(ctx, n)
	if err != nil {
		return Result{}, err
	}
	return Result{Payload: list}, nil
}

type searchTool struct{ svc Service }

func (searchTool) Name() string { return "contacts_search" }
func (searchTool) Description() string {
	return "Search contacts whose display name contains the query. Required: query (string)."
}
func (searchTool) Schema() map[string]any {
	return objectSchema(map[string]any{"query": stringProp("Substring of the contact's display name")}, "query")
}
func (t searchTool) Execute(ctx context.Context, args Args) (Result, error) {
	query, err := args.String("query")
	if err != nil {
		return Result{}, invalidParams(err)
	}
	list, err := t.svc.SearchContacts(ctx, query)
	if err != nil {
		return Result{}, err
	}
	return Result{Payload: list}, nil
}

type getTool struct{ svc Service }

func (getTool) Name() string { return "contacts_get" }
func (getTool) Description() string {
	return "Get a contact by ID with full details. Required: id (string)."
}
func (getTool) Schema() map[string]any {
	return objectSchema(map[string]any{"id": stringProp("Contact ID")}, "id")
}
func (t getTool) Execute(ctx context.Context, args Args) (Result, error) {
	id, err := args.String("id")
	if err != nil {
		return Result{}, invalidParams(err)
	}
	contact, err := t.svc.GetContact(ctx, id)
	if err != nil {
		return Result{}, err
	}
	if contact == nil {
		return Result{Payload: errContactNotFound}, nil
	}
	return Result{Payload: contact}, nil
}

type createTool struct{ svc Service }

func (createTool) Name() string { return "contacts_create" }
func (createTool) Description() string {
	return "Create a new contact. At least one of firstName, lastName, or organization required. Optional: email, phone, jobTitle, note."
}
func (createTool) Schema() map[string]any {
	return objectSchema(map[string]any{
		"firstName":    stringProp("First name"),
		"lastName":     stringProp("Last name"),
		"email":        stringProp("Email address, stored with the work label"),
		"phone":        stringProp("Phone number, stored with the mobile label"),
		"organization": stringProp("Organization/company"),
		"jobTitle":     stringProp("Job title"),
		"note":         stringProp("Note"),
	})
}
func (t createTool) Execute(ctx context.Context, args Args) (Result, error) {
	var c contacts.NewContact
	fields := []struct {
		key string
		dst *string
	}{
		{"firstName", &c.FirstName},
		{"lastName", &c.LastName},
		{"email", &c.Email},
		{"phone", &c.Phone},
		{"organization", &c.Organization},
		{"jobTitle", &c.JobTitle},
		{"note", &c.Note},
	}
	for _, f := range fields {
		v, err := args.OptionalString(f.key)
		if err != nil {
			return Result{}, invalidParams(err)
		}
		if v != nil {
			*f.dst = *v
		}
	}
	if !c.HasIdentity() {
		return Result{Payload: errIdentityRequired}, nil
	}
	id, err := t.svc.CreateContact(ctx, c)
	if err != nil {
		return Result{}, err
	}
	return Result{Payload: createdPayload{ID: id, Success: true}}, nil
}

type updateTool struct{ svc Service }

func (updateTool) Name() string { return "contacts_update" }
func (updateTool) Description() string {
	return "Update an existing contact. Required: id (string). Optional: firstName, lastName, organization, jobTitle, note."
}
func (updateTool) Schema() map[string]any {
	return objectSchema(map[string]any{
		"id":           stringProp("Contact ID"),
		"firstName":    stringProp("First name"),
		"lastName":     stringProp("Last name"),
		"organization": stringProp("Organization/company"),
		"jobTitle":     stringProp("Job title"),
		"note":         stringProp("Note"),
	}, "id")
}
func (t updateTool) Execute(ctx context.Context, args Args) (Result, error) {
	id, err := args.String("id")
	if err != nil {
		return Result{}, invalidParams(err)
	}
	var u contacts.ContactUpdate
	fields := []struct {
		key string
		dst **string
	}{
		{"firstName", &u.FirstName},
		{"lastName", &u.LastName},
		{"organization", &u.Organization},
		{"jobTitle", &u.JobTitle},
		{"note", &u.Note},
	}
	for _, f := range fields {
		if *f.dst, err = args.OptionalString(f.key); err != nil {
			return Result{}, invalidParams(err)
		}
	}
	ok, err := t.svc.UpdateContact(ctx, id, u)
	if err != nil {
		return Result{}, err
	}
	return Result{Payload: successPayload{Success: ok}}, nil
}

type deleteTool struct{ svc Service }

func (deleteTool) Name() string        { return "contacts_delete" }
func (deleteTool) Description() string { return "Delete a contact. Required: id (string)." }
func (deleteTool) Schema() map[string]any {
	return objectSchema(map[string]any{"id": stringProp("Contact ID")}, "id")
}
func (t deleteTool) Execute(ctx context.Context, args Args) (Result, error) {
	id, err := args.String("id")
	if err != nil {
		return Result{}, invalidParams(err)
	}
	ok, err := t.svc.DeleteContact(ctx, id)
	if err != nil {
		return Result{}, err
	}
	return Result{Payload: successPayload{Success: ok}}, nil
}

type groupsListTool struct{ svc Service }

func (groupsListTool) Name() string        { return "groups_list" }
func (groupsListTool) Description() string { return "List all contact groups with member counts." }
func (groupsListTool) Schema() map[string]any {
	return objectSchema(map[string]any{})
}
func (t groupsListTool) Execute(ctx context.Context, args Args) (Result, error) {
	groups, err := t.svc.ListGroups(ctx)
	if err != nil {
		return Result{}, err
	}
	return Result{Payload: groups}, nil
}

type groupMembersTool struct{ svc Service }

func (groupMembersTool) Name() string { return "groups_members" }
func (groupMembersTool) Description() string {
	return "Get all contacts in a group. Required: name (string) - the exact group name."
}
func (groupMembersTool) Schema() map[string]any {
	return objectSchema(map[string]any{"name": stringProp("Group name")}, "name")
}
func (t groupMembersTool) Execute(ctx context.Context, args Args) (Result, error) {
	name, err := args.String("name")
	if err != nil {
		return Result{}, invalidParams(err)
	}
	members, err := t.svc.GroupMembers(ctx, name)
	if err != nil {
		return Result{}, err
	}
	return Result{Payload: members}, nil
}
