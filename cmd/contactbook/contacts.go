package main

import (
	"errors"
	"fmt"

	"contactbook/internal/contacts"

	"github.com/spf13/cobra"
)

var errContactNotFound = errors.New("Contact not found")

func newContactsCmd(runners runnerFactory) *cobra.Command {
	list := newContactsListCmd(runners)
	cmd := &cobra.Command{
		Use:   "contacts",
		Short: "Manage contacts",
		Args:  cobra.NoArgs,
		RunE:  list.RunE,
	}
	cmd.Flags().Int("limit", 0, "Maximum number of contacts (default from config)")

	cmd.AddCommand(
		list,
		newContactsSearchCmd(runners),
		newContactsGetCmd(runners),
		newContactsCreateCmd(runners),
		newContactsUpdateCmd(runners),
		newContactsDeleteCmd(runners),
		newContactsLookupCmd(runners),
	)
	return cmd
}

func newContactsListCmd(runners runnerFactory) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List contacts",
		Args:  cobra.NoArgs,
		RunE: run(runners, func(cmd *cobra.Command, args []string, a *app) error {
			limit, _ := cmd.Flags().GetInt("limit")
			list, err := a.service.ListContacts(cmd.Context(), limit)
			if err != nil {
				return err
			}
			return a.printer.Contacts(list)
		}),
	}
	cmd.Flags().Int("limit", 0, "Maximum number of contacts (default from config)")
	return cmd
}

func newContactsSearchCmd(runners runnerFactory) *cobra.Command {
	return &cobra.Command{
		Use:   "search <query>",
		Short: "Search contacts by name",
		Args:  cobra.ExactArgs(1),
		RunE: run(runners, func(cmd *cobra.Command, args []string, a *app) error {
			list, err := a.service.SearchContacts(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return a.printer.Contacts(list)
		}),
	}
}

func newContactsGetCmd(runners runnerFactory) *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show a contact",
		Args:  cobra.ExactArgs(1),
		RunE: run(runners, func(cmd *cobra.Command, args []string, a *app) error {
			contact, err := a.service.GetContact(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if contact == nil {
				return errContactNotFound
			}
			return a.printer.Contact(*contact)
		}),
	}
}

func newContactsCreateCmd(runners runnerFactory) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a contact",
		Args:  cobra.NoArgs,
		RunE: run(runners, func(cmd *cobra.Command, args []string, a *app) error {
			flags := cmd.Flags()
			var c contacts.NewContact
			c.FirstName, _ = flags.GetString("first-name")
			c.LastName, _ = flags.GetString("last-name")
			c.Email, _ = flags.GetString("email")
			c.Phone, _ = flags.GetString("phone")
			c.Organization, _ = flags.GetString("organization")
			c.JobTitle, _ = flags.GetString("job-title")
			c.Note, _ = flags.GetString("note")
			if !c.HasIdentity() {
				return errors.New("at least --first-name, --last-name, or --organization is required")
			}

			id, err := a.service.CreateContact(cmd.Context(), c)
			if err != nil {
				return err
			}
			return a.printer.Created(id)
		}),
	}
	addFieldFlags(cmd)
	cmd.Flags().String("email", "", "Email address")
	cmd.Flags().String("phone", "", "Phone number")
	return cmd
}

func newContactsUpdateCmd(runners runnerFactory) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update a contact",
		Args:  cobra.ExactArgs(1),
		RunE: run(runners, func(cmd *cobra.Command, args []string, a *app) error {
			var u contacts.ContactUpdate
			u.FirstName = changedString(cmd, "first-name")
			u.LastName = changedString(cmd, "last-name")
			u.Organization = changedString(cmd, "organization")
			u.JobTitle = changedString(cmd, "job-title")
			u.Note = changedString(cmd, "note")
			if u.Empty() {
				return errors.New("nothing to update: set at least one field flag")
			}

			ok, err := a.service.UpdateContact(cmd.Context(), args[0], u)
			if err != nil {
				return err
			}
			if err := a.printer.Outcome("Updated", args[0], ok); err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("contact %s was not updated", args[0])
			}
			return nil
		}),
	}
	addFieldFlags(cmd)
	return cmd
}

func newContactsDeleteCmd(runners runnerFactory) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a contact",
		Args:  cobra.ExactArgs(1),
		RunE: run(runners, func(cmd *cobra.Command, args []string, a *app) error {
			ok, err := a.service.DeleteContact(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if err := a.printer.Outcome("Deleted", args[0], ok); err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("contact %s was not deleted", args[0])
			}
			return nil
		}),
	}
}

func newContactsLookupCmd(runners runnerFactory) *cobra.Command {
	return &cobra.Command{
		Use:   "lookup <phone>",
		Short: "Find the contact owning a phone number",
		Args:  cobra.ExactArgs(1),
		RunE: run(runners, func(cmd *cobra.Command, args []string, a *app) error {
			contact, err := a.service.LookupByPhone(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return a.printer.Lookup(contact)
		}),
	}
}

func addFieldFlags(cmd *cobra.Command) {
	cmd.Flags().String("first-name", "", "First name")
	cmd.Flags().String("last-name", "", "Last name")
	cmd.Flags().String("organization", "", "Organization")
	cmd.Flags().String("job-title", "", "Job title")
	cmd.Flags().String("note", "", "Note")
}

// changedString returns the flag value only when the user set it, so an
// explicit empty value still clears the field.
func changedString(cmd *cobra.Command, name string) *string {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	value, _ := cmd.Flags().GetString(name)
	return &value
}
