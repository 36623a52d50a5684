package contacts

import (
	"fmt"
	"strings"

	"contactbook/internal/script"
)

// handlers is appended to every script that prints records. personJSON prints
// one backend record; values are escaped in-script so the output stays valid JSON.
const handlers = `
on personJSON(p, withNote)
	tell application "Contacts"
		set contactId to id of p
		set fName to first name of p
		set lName to last name of p
		set fullN to name of p
		set org to organization of p
		set jTitle to job title of p
		set emailValues to value of every email of p
		set phoneValues to value of every phone of p
		set noteText to missing value
		if withNote then set noteText to note of p
	end tell
	set jsonText to "{\"id\":" & my jsonString(contactId) & ",\"fn\":" & my jsonString(fName) & ",\"ln\":" & my jsonString(lName) & ",\"name\":" & my jsonString(fullN) & ",\"emails\":" & my jsonList(emailValues) & ",\"phones\":" & my jsonList(phoneValues) & ",\"org\":" & my jsonString(org) & ",\"title\":" & my jsonString(jTitle)
	if withNote then set jsonText to jsonText & ",\"note\":" & my jsonString(noteText)
	return jsonText & "}"
end personJSON

on jsonString(theValue)
	if theValue is missing value then return "\"\""
	return "\"" & my escapeJSON(theValue as text) & "\""
end jsonString

on jsonList(theValues)
	set parts to {}
	repeat with v in theValues
		set end of parts to my jsonString(contents of v)
	end repeat
	return "[" & my joinList(parts, ",") & "]"
end jsonList

on joinList(theList, delimiter)
	set savedDelimiters to AppleScript's text item delimiters
	set AppleScript's text item delimiters to delimiter
	set joined to theList as text
	set AppleScript's text item delimiters to savedDelimiters
	return joined
end joinList

on escapeJSON(theText)
	set theText to my replaceText(theText, "\\", "\\\\")
	set theText to my replaceText(theText, "\"", "\\\"")
	set theText to my replaceText(theText, return, "\\n")
	set theText to my replaceText(theText, linefeed, "\\n")
	set theText to my replaceText(theText, tab, "\\t")
	return theText
end escapeJSON

on replaceText(theText, searchStr, replaceStr)
	set savedDelimiters to AppleScript's text item delimiters
	set AppleScript's text item delimiters to searchStr
	set theItems to text items of theText
	set AppleScript's text item delimiters to replaceStr
	set theText to theItems as text
	set AppleScript's text item delimiters to savedDelimiters
	return theText
end replaceText
`

const emitList = `return "[" & my joinList(resultList, ",") & "]"
`

func listContactsScript(limit int) string {
	return fmt.Sprintf(`tell application "Contacts"
	set maxItems to %d
	set peopleList to people
	set loopCount to count of peopleList
	if loopCount > maxItems then set loopCount to maxItems
	set resultList to {}
	repeat with i from 1 to loopCount
		set end of resultList to my personJSON(item i of peopleList, false)
	end repeat
end tell
`, limit) + emitList + handlers
}

func searchContactsScript(query string) string {
	return fmt.Sprintf(`tell application "Contacts"
	set resultList to {}
	repeat with p in (every person whose name contains %s)
		set end of resultList to my personJSON(contents of p, false)
	end repeat
end tell
`, script.Quote(query)) + emitList + handlers
}

func getContactScript(id string) string {
	return fmt.Sprintf(`tell application "Contacts"
	try
		set p to person id %s
	on error
		return "{}"
	end try
end tell
return my personJSON(p, true)
`, script.Quote(id)) + handlers
}

// phonesScript prints every contact that has at least one phone number.
func phonesScript() string {
	return `tell application "Contacts"
	set resultList to {}
	repeat with p in people
		if (count of phones of p) > 0 then
			set end of resultList to my personJSON(contents of p, false)
		end if
	end repeat
end tell
` + emitList + handlers
}

func createContactScript(c NewContact) string {
	var props []string
	addProp := func(name, value string) {
		if value != "" {
			props = append(props, name+":"+script.Quote(value))
		}
	}
	addProp("first name", c.FirstName)
	addProp("last name", c.LastName)
	addProp("organization", c.Organization)
	addProp("job title", c.JobTitle)
	addProp("note", c.Note)

	var b strings.Builder
	b.WriteString("tell application \"Contacts\"\n")
	if len(props) > 0 {
		b.WriteString("\tset newPerson to make new person with properties {" + strings.Join(props, ", ") + "}\n")
	} else {
		b.WriteString("\tset newPerson to make new person\n")
	}
	if c.Email != "" {
		b.WriteString("\tmake new email at end of emails of newPerson with properties {label:\"work\", value:" + script.Quote(c.Email) + "}\n")
	}
	if c.Phone != "" {
		b.WriteString("\tmake new phone at end of phones of newPerson with properties {label:\"mobile\", value:" + script.Quote(c.Phone) + "}\n")
	}
	b.WriteString("\tsave\n")
	b.WriteString("\treturn id of newPerson\n")
	b.WriteString("end tell\n")
	return b.String()
}

func updateContactScript(id string, u ContactUpdate) string {
	var setters []string
	addSetter := func(name string, value *string) {
		if value != nil {
			setters = append(setters, "\t\tset "+name+" of p to "+script.Quote(*value))
		}
	}
	addSetter("first name", u.FirstName)
	addSetter("last name", u.LastName)
	addSetter("organization", u.Organization)
	addSetter("job title", u.JobTitle)
	addSetter("note", u.Note)

	return fmt.Sprintf(`tell application "Contacts"
	try
		set p to person id %s
%s
		save
		return "true"
	on error
		return "false"
	end try
end tell
`, script.Quote(id), strings.Join(setters, "\n"))
}

func deleteContactScript(id string) string {
	return fmt.Sprintf(`tell application "Contacts"
	try
		set p to person id %s
		delete p
		save
		return "true"
	on error
		return "false"
	end try
end tell
`, script.Quote(id))
}

func listGroupsScript() string {
	return `tell application "Contacts"
	set resultList to {}
	repeat with g in groups
		set end of resultList to "{\"id\":" & my jsonString(id of g) & ",\"name\":" & my jsonString(name of g) & ",\"count\":" & ((count of people of g) as text) & "}"
	end repeat
end tell
` + emitList + handlers
}

func groupMembersScript(name string) string {
	return fmt.Sprintf(`tell application "Contacts"
	set resultList to {}
	try
		set g to group %s
		repeat with p in people of g
			set end of resultList to my personJSON(contents of p, false)
		end repeat
	end try
end tell
`, script.Quote(name)) + emitList + handlers
}
