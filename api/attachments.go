package api

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
)

// ListAttachmentsOptions contains options for listing attachments.
type ListAttachmentsOptions struct {
	Limit  int
	Cursor string
	Prefix string // filename prefix, case-insensitive
}

// ListAttachments returns one page of attachments for a wiki page, oldest first.
func (c *Client) ListAttachments(ctx context.Context, pageID int64, opts *ListAttachmentsOptions) (*PaginatedResponse[Attachment], error) {
	params := url.Values{}
	params.Set("limit", "25")
	params.Set("sort", "created")

	if opts != nil {
		if opts.Limit > 0 {
			params.Set("limit", strconv.Itoa(opts.Limit))
		}
		if opts.Cursor != "" {
			params.Set("cursor", opts.Cursor)
		}
		if opts.Prefix != "" {
			params.Set("prefix", opts.Prefix)
		}
	}

	path := fmt.Sprintf("/api/v1/wiki/pages/%d/attachments?%s", pageID, params.Encode())
	var result PaginatedResponse[Attachment]
	if err := c.getJSON(ctx, path, "attachments", &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// ListAllAttachments follows pagination and returns every matching attachment.
func (c *Client) ListAllAttachments(ctx context.Context, pageID int64, prefix string) ([]Attachment, error) {
	opts := &ListAttachmentsOptions{Limit: 100, Prefix: prefix}

	var all []Attachment
	for {
		result, err := c.ListAttachments(ctx, pageID, opts)
		if err != nil {
			return nil, err
		}
		all = append(all, result.Results...)
		if !result.HasMore() {
			return all, nil
		}

		next, err := url.Parse(result.Links.Next)
		if err != nil {
			return nil, fmt.Errorf("invalid next link %q: %w", result.Links.Next, err)
		}
		cursor := next.Query().Get("cursor")
		if cursor == "" || cursor == opts.Cursor {
			return all, nil
		}
		opts.Cursor = cursor
	}
}

// GetAttachment returns a single attachment by ID.
func (c *Client) GetAttachment(ctx context.Context, attachmentID int64) (*Attachment, error) {
	var att Attachment
	if err := c.getJSON(ctx, fmt.Sprintf("/api/v1/wiki/attachments/%d", attachmentID), "attachment", &att); err != nil {
		return nil, err
	}
	return &att, nil
}
