package sheet

import (
	"fmt"
	"sort"
	"strings"
)

const (
	headerName  = "name"
	headerPhone = "phone"
)

// Contact is one roster entry.
type Contact struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

// Contacts maps a grid row to the contact listed on it.
type Contacts map[int]Contact

// ParseContacts reads a name column and the phone column next to it. Rows missing either
// cell are skipped.
func ParseContacts(names, phones Column) (Contacts, error) {
	if names.Header() != headerName || phones.Header() != headerPhone {
		return nil, fmt.Errorf("%w: name column must be followed by a phone column, got %q and %q",
			ErrMalformedSheet, names.Cell(0), phones.Cell(0))
	}

	contacts := Contacts{}
	for i := 1; i < len(names); i++ {
		name, phone := names.Cell(i), phones.Cell(i)
		if name != "" && phone != "" {
			contacts[i] = Contact{Name: name, Phone: phone}
		}
	}
	return contacts, nil
}

// ByName returns the contact on the lowest row with the given name.
func (c Contacts) ByName(name string) (Contact, bool) {
	rows := make([]int, 0, len(c))
	for row := range c {
		rows = append(rows, row)
	}
	sort.Ints(rows)

	for _, row := range rows {
		if c[row].Name == name {
			return c[row], true
		}
	}
	return Contact{}, false
}

// ParseContact reads "Name:Phone". The phone follows the last colon, so names may contain one.
func ParseContact(s string) (Contact, error) {
	i := strings.LastIndex(s, ":")
	if i < 0 {
		return Contact{}, fmt.Errorf("%w: %q", ErrInvalidContact, s)
	}
	c := Contact{Name: strings.TrimSpace(s[:i]), Phone: strings.TrimSpace(s[i+1:])}
	if c.Name == "" || c.Phone == "" {
		return Contact{}, fmt.Errorf("%w: %q", ErrInvalidContact, s)
	}
	return c, nil
}
