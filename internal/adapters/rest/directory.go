// Package rest is the client for the collaborator room API: room meta
// and the active roster. Failures here are never fatal to a session;
// the app layer falls back to placeholders.
package rest

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/samber/lo"

	"github.com/avdim/roomchat/internal/domain"
)

type Client struct {
	base string
	http *http.Client
	log  zerolog.Logger
}

func NewClient(base string, timeout time.Duration, log zerolog.Logger) *Client {
	return &Client{
		base: strings.TrimRight(base, "/"),
		http: &http.Client{Timeout: timeout},
		log:  log,
	}
}

func (c *Client) RoomInfo(ctx context.Context, room domain.RoomID) (domain.Room, error) {
	var body struct {
		Title string `json:"title"`
	}
	if err := c.getJSON(ctx, fmt.Sprintf("%s/v1/chat/%s", c.base, room), &body); err != nil {
		return domain.Room{}, err
	}
	return domain.Room{ID: room, Title: body.Title}, nil
}

type rosterEntry struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

func (c *Client) Roster(ctx context.Context, room domain.RoomID) ([]domain.User, error) {
	var body []rosterEntry
	if err := c.getJSON(ctx, fmt.Sprintf("%s/v1/chat/%s/users", c.base, room), &body); err != nil {
		return nil, err
	}
	return lo.Map(body, func(u rosterEntry, _ int) domain.User {
		return domain.User{ID: domain.UserID(u.ID), Username: u.Username}
	}), nil
}

func (c *Client) getJSON(ctx context.Context, url string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Warn().Err(err).Str("module", "adapters.rest").Str("url", url).Msg("request failed")
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		err := fmt.Errorf("GET %s: unexpected status %d", url, resp.StatusCode)
		c.log.Warn().Err(err).Str("module", "adapters.rest").Msg("request failed")
		return err
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s: %w", url, err)
	}
	return nil
}
