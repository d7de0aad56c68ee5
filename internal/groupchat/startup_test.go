package groupchat

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type MockGateway struct {
	mock.Mock
}

func (m *MockGateway) CreateGroup(ctx context.Context, name, image, description string) (Group, error) {
	args := m.Called(ctx, name, image, description)
	return args.Get(0).(Group), args.Error(1)
}

func (m *MockGateway) AddMember(ctx context.Context, g Group, name, phone string) error {
	return m.Called(ctx, g, name, phone).Error(0)
}

func (m *MockGateway) SetOwner(ctx context.Context, g Group, name, phone string) error {
	return m.Called(ctx, g, name, phone).Error(0)
}

func (m *MockGateway) SendMessage(ctx context.Context, g Group, text string) error {
	return m.Called(ctx, g, text).Error(0)
}

func (m *MockGateway) LeaveGroup(ctx context.Context, g Group) error {
	return m.Called(ctx, g).Error(0)
}

func (m *MockGateway) PurgeStaleGroups(ctx context.Context, olderThanDays int) error {
	return m.Called(ctx, olderThanDays).Error(0)
}

var group = Group{ID: "42", Name: "Dinner"}

func TestStartupOrder(t *testing.T) {
	ctx := context.Background()
	gw := &MockGateway{}

	req := NewRequest("Dinner")
	req.Admin = map[string]string{"Carl": "555-9999"}
	req.Members = map[string]string{"Dee": "555-1111"}

	var calls []string
	record := func(name string) func(mock.Arguments) {
		return func(mock.Arguments) { calls = append(calls, name) }
	}

	gw.On("CreateGroup", ctx, "Dinner", "", MessageAlwaysSend).Return(group, nil).Run(record("create"))
	gw.On("AddMember", ctx, group, "Carl", "555-9999").Return(nil).Run(record("add Carl"))
	gw.On("SetOwner", ctx, group, "Carl", "555-9999").Return(nil).Run(record("owner Carl"))
	gw.On("AddMember", ctx, group, "Dee", "555-1111").Return(nil).Run(record("add Dee"))
	gw.On("SendMessage", ctx, group, MessageAlwaysSend).Return(nil).Run(record("notice"))
	gw.On("SendMessage", ctx, group, "Welcome to Dinner. "+MessageAlwaysSend).Return(nil).Run(record("welcome"))
	gw.On("PurgeStaleGroups", ctx, 30).Return(nil).Run(record("purge"))

	g, err := Startup(ctx, zap.NewNop(), gw, req)
	require.NoError(t, err)
	assert.Equal(t, group, g)
	assert.Equal(t, []string{"create", "add Carl", "owner Carl", "add Dee", "notice", "welcome", "purge"}, calls)
	gw.AssertExpectations(t)
	gw.AssertNotCalled(t, "LeaveGroup", mock.Anything, mock.Anything)
}

func TestStartupMessagesAndLeave(t *testing.T) {
	ctx := context.Background()
	gw := &MockGateway{}

	req := NewRequest("Trip")
	req.Description = "Road trip"
	req.Image = "https://img"
	req.StartupMessages = []string{"first", "second"}
	req.DontLeaveGroup = false
	req.GroupDeleteAgeDays = 5

	gw.On("CreateGroup", ctx, "Trip", "https://img", "Road trip").Return(group, nil)
	gw.On("SendMessage", ctx, group, mock.Anything).Return(nil)
	gw.On("LeaveGroup", ctx, group).Return(nil)
	gw.On("PurgeStaleGroups", ctx, 5).Return(nil)

	_, err := Startup(ctx, zap.NewNop(), gw, req)
	require.NoError(t, err)

	var sent []string
	for _, c := range gw.Calls {
		if c.Method == "SendMessage" {
			sent = append(sent, c.Arguments.String(2))
		}
	}
	assert.Equal(t, []string{MessageAlwaysSend, "first", "second"}, sent)
	gw.AssertExpectations(t)
}

func TestStartupSkipsAdminInMembers(t *testing.T) {
	ctx := context.Background()
	gw := &MockGateway{}

	req := NewRequest("g")
	req.Admin = map[string]string{"Carl": "1"}
	req.Members = map[string]string{"Carl": "1", "Ann": "2"}

	gw.On("CreateGroup", ctx, "g", "", MessageAlwaysSend).Return(group, nil)
	gw.On("AddMember", ctx, group, mock.Anything, mock.Anything).Return(nil)
	gw.On("SetOwner", ctx, group, "Carl", "1").Return(nil)
	gw.On("SendMessage", ctx, group, mock.Anything).Return(nil)
	gw.On("PurgeStaleGroups", ctx, 30).Return(nil)

	_, err := Startup(ctx, zap.NewNop(), gw, req)
	require.NoError(t, err)
	gw.AssertNumberOfCalls(t, "AddMember", 2)
}

func TestStartupRejectsTwoAdmins(t *testing.T) {
	gw := &MockGateway{}
	req := NewRequest("g")
	req.Admin = map[string]string{"A": "1", "B": "2"}

	_, err := Startup(context.Background(), zap.NewNop(), gw, req)
	assert.ErrorIs(t, err, ErrAdminCardinality)
	gw.AssertNotCalled(t, "CreateGroup", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestStartupStopsOnError(t *testing.T) {
	ctx := context.Background()
	gw := &MockGateway{}
	boom := errors.New("boom")

	req := NewRequest("g")
	req.Members = map[string]string{"Ann": "1"}

	gw.On("CreateGroup", ctx, "g", "", MessageAlwaysSend).Return(group, nil)
	gw.On("AddMember", ctx, group, "Ann", "1").Return(boom)

	g, err := Startup(ctx, zap.NewNop(), gw, req)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, group, g)
	gw.AssertNotCalled(t, "PurgeStaleGroups", mock.Anything, mock.Anything)
}
