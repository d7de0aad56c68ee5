// Package groupme is a GroupMe v3 API client implementing groupchat.Gateway.
//
// See https://dev.groupme.com/docs/v3.
package groupme

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"autogroupchat/config"
	"autogroupchat/internal/groupchat"
)

const perPage = 100

// APIError is a non-2xx answer from GroupMe.
type APIError struct {
	Method     string
	Path       string
	StatusCode int
	Errors     []string
}

func (e *APIError) Error() string {
	if len(e.Errors) > 0 {
		return fmt.Sprintf("%s %s: status %d: %v", e.Method, e.Path, e.StatusCode, e.Errors)
	}
	return fmt.Sprintf("%s %s: status %d", e.Method, e.Path, e.StatusCode)
}

type Client struct {
	logger     *zap.Logger
	cfg        config.GroupMe
	httpClient *http.Client
	limiter    *rate.Limiter
	now        func() time.Time
	newGUID    func() string

	me *User
}

var _ groupchat.Gateway = (*Client)(nil)

func NewClient(logger *zap.Logger, cfg config.GroupMe) *Client {
	limit := rate.Inf
	if cfg.RequestsPerSecond > 0 {
		limit = rate.Limit(cfg.RequestsPerSecond)
	}
	return &Client{
		logger:     logger,
		cfg:        cfg,
		httpClient: http.DefaultClient,
		limiter:    rate.NewLimiter(limit, 1),
		now:        time.Now,
		newGUID:    uuid.NewString,
	}
}

// Me returns the user owning the access token.
func (c *Client) Me(ctx context.Context) (*User, error) {
	if c.me != nil {
		return c.me, nil
	}
	var me User
	if err := c.do(ctx, http.MethodGet, "/users/me", nil, &me); err != nil {
		return nil, fmt.Errorf("unable to get current user: %w", err)
	}
	c.me = &me
	return c.me, nil
}

// GetGroup returns a group with its members.
func (c *Client) GetGroup(ctx context.Context, id string) (*Group, error) {
	var g Group
	if err := c.do(ctx, http.MethodGet, "/groups/"+id, nil, &g); err != nil {
		return nil, err
	}
	return &g, nil
}

// ListGroups returns every group the user belongs to, fetching page by page.
func (c *Client) ListGroups(ctx context.Context) ([]Group, error) {
	var all []Group
	for page := 1; ; page++ {
		var groups []Group
		path := fmt.Sprintf("/groups?page=%d&per_page=%d", page, perPage)
		if err := c.do(ctx, http.MethodGet, path, nil, &groups); err != nil {
			return nil, fmt.Errorf("unable to list groups page %d: %w", page, err)
		}
		c.logger.Debug("Groups page fetched", zap.Int("page", page), zap.Int("count", len(groups)))

		all = append(all, groups...)
		if len(groups) < perPage {
			return all, nil
		}
	}
}

func (c *Client) CreateGroup(ctx context.Context, name, image, description string) (groupchat.Group, error) {
	var created Group
	req := createGroupRequest{Name: name, Description: description, ImageURL: image}
	if err := c.do(ctx, http.MethodPost, "/groups", req, &created); err != nil {
		return groupchat.Group{}, fmt.Errorf("unable to create group: %w", err)
	}

	// the group is not always readable right after creation
	err := c.poll(ctx, "group "+created.ID, func(ctx context.Context) (bool, error) {
		if _, err := c.GetGroup(ctx, created.ID); err != nil {
			var apiErr *APIError
			if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound {
				return false, nil
			}
			return false, err
		}
		return true, nil
	})
	if err != nil {
		return groupchat.Group{}, err
	}

	if c.cfg.SelfName != "" {
		var upd updateMembershipRequest
		upd.Membership.Nickname = c.cfg.SelfName
		if err := c.do(ctx, http.MethodPost, "/groups/"+created.ID+"/memberships/update", upd, nil); err != nil {
			return groupchat.Group{}, fmt.Errorf("unable to rename self in group: %w", err)
		}
	}

	c.logger.Debug("GroupMe group created", zap.String("id", created.ID), zap.String("name", created.Name))
	return groupchat.Group{ID: created.ID, Name: created.Name}, nil
}

func (c *Client) AddMember(ctx context.Context, g groupchat.Group, name, phone string) error {
	_, err := c.addMember(ctx, g.ID, name, phone)
	return err
}

// SetOwner re-adds the member to learn their user id, then transfers ownership. Adding an
// existing member is a no-op on GroupMe's side.
func (c *Client) SetOwner(ctx context.Context, g groupchat.Group, name, phone string) error {
	m, err := c.addMember(ctx, g.ID, name, phone)
	if err != nil {
		return err
	}

	req := changeOwnersRequest{Requests: []ownerChange{{GroupID: g.ID, OwnerID: m.UserID}}}
	var resp changeOwnersResponse
	if err := c.do(ctx, http.MethodPost, "/groups/change_owners", req, &resp); err != nil {
		return fmt.Errorf("unable to change owner: %w", err)
	}
	for _, r := range resp.Results {
		if r.GroupID == g.ID && r.Status != "200" {
			return fmt.Errorf("unable to change owner of group %s to %s: status %s", g.ID, name, r.Status)
		}
	}
	return nil
}

func (c *Client) SendMessage(ctx context.Context, g groupchat.Group, text string) error {
	var req messageRequest
	req.Message.SourceGUID = c.newGUID()
	req.Message.Text = text
	if err := c.do(ctx, http.MethodPost, "/groups/"+g.ID+"/messages", req, nil); err != nil {
		return fmt.Errorf("unable to post message: %w", err)
	}
	return nil
}

func (c *Client) LeaveGroup(ctx context.Context, g groupchat.Group) error {
	group, err := c.GetGroup(ctx, g.ID)
	if err != nil {
		return fmt.Errorf("unable to get group %s: %w", g.ID, err)
	}
	return c.leave(ctx, group)
}

// PurgeStaleGroups destroys owned groups, and leaves the others, whose description marks them
// as created by this tool and that are older than olderThanDays. One failing group does not
// stop the others.
func (c *Client) PurgeStaleGroups(ctx context.Context, olderThanDays int) error {
	me, err := c.Me(ctx)
	if err != nil {
		return err
	}
	groups, err := c.ListGroups(ctx)
	if err != nil {
		return err
	}

	maxAge := time.Duration(olderThanDays) * 24 * time.Hour
	now := c.now()

	var errs []error
	for i := range groups {
		g := &groups[i]
		if g.Description != groupchat.MessageAlwaysSend {
			continue
		}
		age := now.Sub(time.Unix(g.CreatedAt, 0))
		if age <= maxAge {
			continue
		}

		fields := []zap.Field{zap.String("id", g.ID), zap.String("name", g.Name), zap.Duration("age", age)}
		if g.CreatorUserID == me.ID {
			c.logger.Info("Destroying stale group", fields...)
			err = c.do(ctx, http.MethodPost, "/groups/"+g.ID+"/destroy", nil, nil)
		} else {
			c.logger.Info("Leaving stale group", fields...)
			err = c.leave(ctx, g)
		}
		if err != nil {
			c.logger.Error("Failed to purge group", append(fields, zap.Error(err))...)
			errs = append(errs, fmt.Errorf("group %s: %w", g.ID, err))
		}
	}
	return errors.Join(errs...)
}

func (c *Client) leave(ctx context.Context, g *Group) error {
	me, err := c.Me(ctx)
	if err != nil {
		return err
	}
	for _, m := range g.Members {
		if m.UserID == me.ID {
			return c.do(ctx, http.MethodPost, "/groups/"+g.ID+"/members/"+m.ID+"/remove", nil, nil)
		}
	}
	return fmt.Errorf("not a member of group %s", g.ID)
}

// addMember submits an asynchronous add and waits for its results.
func (c *Client) addMember(ctx context.Context, groupID, name, phone string) (Member, error) {
	guid := c.newGUID()
	req := addMembersRequest{Members: []newMember{{Nickname: name, PhoneNumber: phone, GUID: guid}}}

	var added addMembersResponse
	if err := c.do(ctx, http.MethodPost, "/groups/"+groupID+"/members/add", req, &added); err != nil {
		return Member{}, fmt.Errorf("unable to add member %q: %w", name, err)
	}

	var member Member
	path := "/groups/" + groupID + "/members/results/" + added.ResultsID
	err := c.poll(ctx, "member "+name, func(ctx context.Context) (bool, error) {
		var res membersResultsResponse
		if err := c.doOnce(ctx, http.MethodGet, path, nil, &res); err != nil {
			var apiErr *APIError
			if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusServiceUnavailable {
				return false, nil
			}
			if isRetryable(err) {
				return false, nil
			}
			return false, err
		}
		for _, m := range res.Members {
			if m.GUID == guid {
				member = m
				return true, nil
			}
		}
		return false, fmt.Errorf("member %q was not added to group %s", name, groupID)
	})
	if err != nil {
		return Member{}, err
	}

	c.logger.Debug("Member added", zap.String("group", groupID), zap.String("member", name), zap.String("user_id", member.UserID))
	return member, nil
}

func (c *Client) doOnce(ctx context.Context, method, path string, in, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.cfg.BaseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("X-Access-Token", c.cfg.Token)
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	var env envelope
	if len(data) > 0 {
		// error bodies are not always JSON
		_ = json.Unmarshal(data, &env)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &APIError{Method: method, Path: path, StatusCode: resp.StatusCode, Errors: env.Meta.Errors}
	}

	if out == nil || len(env.Response) == 0 {
		return nil
	}
	if err := json.Unmarshal(env.Response, out); err != nil {
		return fmt.Errorf("unable to decode %s %s response: %w", method, path, err)
	}
	return nil
}
