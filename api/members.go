package api

import (
	"context"
	"fmt"
)

// GetMember returns a site member by ID.
func (c *Client) GetMember(ctx context.Context, memberID int64) (*Member, error) {
	var m Member
	if err := c.getJSON(ctx, fmt.Sprintf("/api/v1/members/%d", memberID), "member", &m); err != nil {
		return nil, err
	}
	return &m, nil
}
