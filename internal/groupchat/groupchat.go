// Package groupchat defines the group lifecycle every messaging backend implements and the
// order in which a new group is set up.
package groupchat

import (
	"context"
	"errors"
)

// MessageAlwaysSend is posted to every new group. It is also the default description, which
// is how stale groups created by this tool are recognised when purging.
const MessageAlwaysSend = "Group created by autogroupchat. Please contact the organizer with any issues."

// DefaultGroupDeleteAgeDays is how old a group gets before it is purged.
const DefaultGroupDeleteAgeDays = 30

// ErrAdminCardinality is returned when a request names more than one admin.
var ErrAdminCardinality = errors.New("only one owner is allowed per group")

// Group identifies a group created by a Gateway.
type Group struct {
	ID   string
	Name string
}

// Gateway is a messaging backend able to run a group's lifecycle.
type Gateway interface {
	CreateGroup(ctx context.Context, name, image, description string) (Group, error)
	AddMember(ctx context.Context, g Group, name, phone string) error
	// SetOwner hands ownership of g to the member. Callers add the member first.
	SetOwner(ctx context.Context, g Group, name, phone string) error
	SendMessage(ctx context.Context, g Group, text string) error
	LeaveGroup(ctx context.Context, g Group) error
	// PurgeStaleGroups destroys or leaves every group carrying MessageAlwaysSend as its
	// description that is older than olderThanDays.
	PurgeStaleGroups(ctx context.Context, olderThanDays int) error
}

// Request is a fully resolved group to create.
type Request struct {
	Name               string            `json:"group_name"`
	Members            map[string]string `json:"members"`
	Admin              map[string]string `json:"admin,omitempty"`
	StartupMessages    []string          `json:"startup_messages,omitempty"`
	Image              string            `json:"image,omitempty"`
	Description        string            `json:"description,omitempty"`
	DontLeaveGroup     bool              `json:"dont_leave_group"`
	GroupDeleteAgeDays int               `json:"group_delete_age_days"`
}

// NewRequest returns a request for a group called name with the default settings.
func NewRequest(name string) Request {
	return Request{
		Name:               name,
		Members:            map[string]string{},
		DontLeaveGroup:     true,
		GroupDeleteAgeDays: DefaultGroupDeleteAgeDays,
	}
}
