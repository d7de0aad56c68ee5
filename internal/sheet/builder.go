package sheet

import (
	"fmt"
	"maps"
	"strings"

	"github.com/spf13/cast"
	"go.uber.org/zap"

	"autogroupchat/internal/groupchat"
)

// Metadata keys understood by the builder. Any other key is only available to templates.
const (
	keyDate               = "date"
	keyTime               = "time"
	keyGroupName          = "group_name"
	keyStartupMessages    = "startup_messages"
	keyAdmin              = "admin"
	keyImage              = "image"
	keyDescription        = "description"
	keyDontLeaveGroup     = "dont_leave_group"
	keyGroupDeleteAgeDays = "group_delete_age_days"
)

type Builder struct {
	logger *zap.Logger
}

func NewBuilder(logger *zap.Logger) *Builder {
	return &Builder{logger: logger}
}

// Build resolves one due column into a group request.
//
// The group name template may only use {date} and {time}. Startup messages may use any
// metadata key, including the expanded group_name.
func (b *Builder) Build(plan *Plan, col ScheduleColumn) (groupchat.Request, error) {
	fields := make(Metadata, len(plan.Metadata)+2)
	maps.Copy(fields, plan.Metadata)
	fields[keyDate] = Value{col.DateText()}
	fields[keyTime] = Value{col.TimeText()}

	tmpl, ok := fields[keyGroupName]
	if !ok || tmpl.IsList() {
		return groupchat.Request{}, fmt.Errorf("%w: %s needs exactly one value", ErrMalformedSheet, keyGroupName)
	}
	name, err := expand(tmpl.String(), Metadata{keyDate: fields[keyDate], keyTime: fields[keyTime]})
	if err != nil {
		return groupchat.Request{}, fmt.Errorf("%s: %w", keyGroupName, err)
	}
	fields[keyGroupName] = Value{name}

	req := groupchat.NewRequest(name)

	for _, m := range fields[keyStartupMessages] {
		msg, err := expand(m, fields)
		if err != nil {
			return groupchat.Request{}, fmt.Errorf("%s: %w", keyStartupMessages, err)
		}
		req.StartupMessages = append(req.StartupMessages, msg)
	}

	if v, ok := fields[keyAdmin]; ok {
		if v.IsList() {
			return groupchat.Request{}, fmt.Errorf("%w: got %d admins", groupchat.ErrAdminCardinality, len(v))
		}
		admin, err := resolveAdmin(v.String(), plan.Contacts)
		if err != nil {
			return groupchat.Request{}, err
		}
		req.Admin = map[string]string{admin.Name: admin.Phone}
	}

	req.Image = fields[keyImage].String()
	req.Description = fields[keyDescription].String()

	if v, ok := fields[keyDontLeaveGroup]; ok {
		req.DontLeaveGroup, err = toBool(v.String())
		if err != nil {
			return groupchat.Request{}, fmt.Errorf("%w: %s: %v", ErrMalformedSheet, keyDontLeaveGroup, err)
		}
	}
	if v, ok := fields[keyGroupDeleteAgeDays]; ok {
		req.GroupDeleteAgeDays, err = toDays(v.String())
		if err != nil || req.GroupDeleteAgeDays < 0 {
			return groupchat.Request{}, fmt.Errorf("%w: %s must be a non-negative number of days, got %q",
				ErrMalformedSheet, keyGroupDeleteAgeDays, v.String())
		}
	}

	// rows 0 and 1 hold the date and time
	for row := 2; row < len(col.Column); row++ {
		if col.Column[row] == "" {
			continue
		}
		c, ok := plan.Contacts[row]
		if !ok {
			b.logger.Warn("Attendance mark on a row without a contact, skipping",
				zap.String("group", name), zap.Int("row", row), zap.String("mark", col.Column[row]))
			continue
		}
		req.Members[c.Name] = c.Phone
	}

	b.logger.Info("Built group request", zap.String("group", name), zap.Any("request", req))
	return req, nil
}

// resolveAdmin accepts "Name:Phone" or the name of a roster contact.
func resolveAdmin(s string, contacts Contacts) (Contact, error) {
	if strings.Contains(s, ":") {
		return ParseContact(s)
	}
	c, ok := contacts.ByName(strings.TrimSpace(s))
	if !ok {
		return Contact{}, fmt.Errorf("%w: %q is not in the contact list", ErrUnknownAdmin, s)
	}
	return c, nil
}

// toBool also understands the yes/no people type into sheets.
func toBool(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "yes", "y":
		return true, nil
	case "no", "n":
		return false, nil
	}
	return cast.ToBoolE(strings.TrimSpace(s))
}

// toDays reads a day count in decimal. cast would read a leading zero as octal.
func toDays(s string) (int, error) {
	s = strings.TrimSpace(s)
	if trimmed := strings.TrimLeft(s, "0"); trimmed != "" {
		s = trimmed
	} else if s != "" {
		s = "0"
	}
	return cast.ToIntE(s)
}
