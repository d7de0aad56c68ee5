package sheet

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"

	"autogroupchat/internal/groupchat"
)

func dueColumn(cells ...string) ScheduleColumn {
	date, _ := ParseDate(cells[0], time.UTC)
	return ScheduleColumn{Date: date, Column: Column(cells)}
}

func TestBuildMembersRoundTrip(t *testing.T) {
	plan := &Plan{
		Metadata: Metadata{"group_name": {"Dinner"}},
		Contacts: Contacts{
			2: {Name: "Ann", Phone: "555-0001"},
			3: {Name: "Bob", Phone: "555-0002"},
			4: {Name: "Cat", Phone: "555-0003"},
		},
	}

	req, err := NewBuilder(zaptest.NewLogger(t)).Build(plan, dueColumn("01/01/2024", "18:00", "x", "yes", ""))
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"Ann": "555-0001", "Bob": "555-0002"}, req.Members)
}

func TestBuildDefaults(t *testing.T) {
	plan := &Plan{Metadata: Metadata{"group_name": {"Dinner"}}, Contacts: Contacts{}}

	req, err := NewBuilder(zap.NewNop()).Build(plan, dueColumn("01/01/2024", "18:00"))
	require.NoError(t, err)

	want := groupchat.Request{
		Name:               "Dinner",
		Members:            map[string]string{},
		DontLeaveGroup:     true,
		GroupDeleteAgeDays: 30,
	}
	assert.Equal(t, want, req)
}

func TestBuildGroupNameTemplate(t *testing.T) {
	plan := &Plan{Metadata: Metadata{"group_name": {"Dinner {date} {time}"}}}

	req, err := NewBuilder(zap.NewNop()).Build(plan, dueColumn("01/01/2024", "18:00"))
	require.NoError(t, err)
	assert.Equal(t, "Dinner 01/01/2024 18:00", req.Name)
}

func TestBuildGroupNameOnlyDateAndTime(t *testing.T) {
	plan := &Plan{Metadata: Metadata{
		"group_name": {"Dinner at {place}"},
		"place":      {"Joe's"},
	}}

	_, err := NewBuilder(zap.NewNop()).Build(plan, dueColumn("01/01/2024", "18:00"))
	assert.ErrorIs(t, err, ErrUnresolvedPlaceholder)
}

func TestBuildMissingGroupName(t *testing.T) {
	_, err := NewBuilder(zap.NewNop()).Build(&Plan{Metadata: Metadata{}}, dueColumn("01/01/2024", "18:00"))
	assert.ErrorIs(t, err, ErrMalformedSheet)
}

func TestBuildStartupMessages(t *testing.T) {
	plan := &Plan{Metadata: Metadata{
		"group_name":       {"Dinner {date}"},
		"place":            {"Joe's"},
		"startup_messages": {"{group_name} starts at {time} at {place}", "{{literal}}"},
	}}

	req, err := NewBuilder(zap.NewNop()).Build(plan, dueColumn("01/01/2024", "18:00"))
	require.NoError(t, err)
	assert.Equal(t, []string{"Dinner 01/01/2024 starts at 18:00 at Joe's", "{literal}"}, req.StartupMessages)
}

func TestBuildStartupMessageUnknownField(t *testing.T) {
	plan := &Plan{Metadata: Metadata{
		"group_name":       {"Dinner"},
		"startup_messages": {"Meet at {place}"},
	}}

	_, err := NewBuilder(zap.NewNop()).Build(plan, dueColumn("01/01/2024", "18:00"))
	assert.ErrorIs(t, err, ErrUnresolvedPlaceholder)
}

func TestBuildAdmin(t *testing.T) {
	contacts := Contacts{2: {Name: "Carl", Phone: "555-9999"}}
	b := NewBuilder(zap.NewNop())

	req, err := b.Build(&Plan{Metadata: Metadata{"group_name": {"g"}, "admin": {"Carl"}}, Contacts: contacts},
		dueColumn("01/01/2024", ""))
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"Carl": "555-9999"}, req.Admin)

	req, err = b.Build(&Plan{Metadata: Metadata{"group_name": {"g"}, "admin": {"Dee : 555-1111"}}},
		dueColumn("01/01/2024", ""))
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"Dee": "555-1111"}, req.Admin)

	req, err = b.Build(&Plan{Metadata: Metadata{"group_name": {"g"}, "admin": {"Dr: Who:+15550002"}}},
		dueColumn("01/01/2024", ""))
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"Dr: Who": "+15550002"}, req.Admin)

	_, err = b.Build(&Plan{Metadata: Metadata{"group_name": {"g"}, "admin": {"Dee:"}}},
		dueColumn("01/01/2024", ""))
	assert.ErrorIs(t, err, ErrInvalidContact)

	_, err = b.Build(&Plan{Metadata: Metadata{"group_name": {"g"}, "admin": {"Alice", "Bob"}}},
		dueColumn("01/01/2024", ""))
	assert.ErrorIs(t, err, groupchat.ErrAdminCardinality)

	_, err = b.Build(&Plan{Metadata: Metadata{"group_name": {"g"}, "admin": {"Zed"}}, Contacts: contacts},
		dueColumn("01/01/2024", ""))
	assert.ErrorIs(t, err, ErrUnknownAdmin)
}

func TestBuildCoercesSettings(t *testing.T) {
	plan := &Plan{Metadata: Metadata{
		"group_name":            {"g"},
		"dont_leave_group":      {"FALSE"},
		"group_delete_age_days": {"7"},
		"image":                 {"https://i.groupme.com/1.png"},
		"description":           {"Weekly dinner"},
	}}

	req, err := NewBuilder(zap.NewNop()).Build(plan, dueColumn("01/01/2024", ""))
	require.NoError(t, err)
	assert.False(t, req.DontLeaveGroup)
	assert.Equal(t, 7, req.GroupDeleteAgeDays)
	assert.Equal(t, "https://i.groupme.com/1.png", req.Image)
	assert.Equal(t, "Weekly dinner", req.Description)

	plan.Metadata["group_delete_age_days"] = Value{"soon"}
	_, err = NewBuilder(zap.NewNop()).Build(plan, dueColumn("01/01/2024", ""))
	assert.ErrorIs(t, err, ErrMalformedSheet)
}

func TestBuildDontLeaveGroupWords(t *testing.T) {
	tests := []struct {
		value string
		want  bool
	}{
		{"yes", true},
		{"Yes", true},
		{"Y", true},
		{"no", false},
		{"NO", false},
		{"n", false},
		{"true", true},
		{"0", false},
	}
	b := NewBuilder(zap.NewNop())
	for _, tt := range tests {
		plan := &Plan{Metadata: Metadata{"group_name": {"g"}, "dont_leave_group": {tt.value}}}
		req, err := b.Build(plan, dueColumn("01/01/2024", ""))
		require.NoError(t, err, tt.value)
		assert.Equal(t, tt.want, req.DontLeaveGroup, tt.value)
	}

	plan := &Plan{Metadata: Metadata{"group_name": {"g"}, "dont_leave_group": {"maybe"}}}
	_, err := b.Build(plan, dueColumn("01/01/2024", ""))
	assert.ErrorIs(t, err, ErrMalformedSheet)
}

func TestBuildDeleteAgeDaysIsDecimal(t *testing.T) {
	tests := []struct {
		value string
		want  int
	}{
		{"010", 10},
		{"08", 8},
		{"0", 0},
		{"000", 0},
		{" 30 ", 30},
	}
	b := NewBuilder(zap.NewNop())
	for _, tt := range tests {
		plan := &Plan{Metadata: Metadata{"group_name": {"g"}, "group_delete_age_days": {tt.value}}}
		req, err := b.Build(plan, dueColumn("01/01/2024", ""))
		require.NoError(t, err, tt.value)
		assert.Equal(t, tt.want, req.GroupDeleteAgeDays, tt.value)
	}
}

func TestBuildDoesNotMutateMetadata(t *testing.T) {
	plan := &Plan{Metadata: Metadata{"group_name": {"Dinner {date}"}}}

	_, err := NewBuilder(zap.NewNop()).Build(plan, dueColumn("01/01/2024", "18:00"))
	require.NoError(t, err)
	assert.Equal(t, Metadata{"group_name": {"Dinner {date}"}}, plan.Metadata)
}

func TestBuildWarnsOnUnknownContactRow(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	plan := &Plan{
		Metadata: Metadata{"group_name": {"g"}},
		Contacts: Contacts{2: {Name: "Ann", Phone: "1"}},
	}

	req, err := NewBuilder(zap.New(core)).Build(plan, dueColumn("01/01/2024", "", "x", "x"))
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"Ann": "1"}, req.Members)

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, int64(3), entries[0].ContextMap()["row"])
}

func TestExpand(t *testing.T) {
	fields := Metadata{"a": {"1"}, "list": {"x", "y"}}

	got, err := expand("{a}-{list}-{{a}}", fields)
	require.NoError(t, err)
	assert.Equal(t, "1-x, y-{a}", got)

	for _, tmpl := range []string{"{b}", "{a", "a}"} {
		_, err := expand(tmpl, fields)
		assert.ErrorIs(t, err, ErrUnresolvedPlaceholder, tmpl)
	}
}
