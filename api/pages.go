package api

import (
	"context"
	"fmt"
	"net/url"
)

// GetPage returns a single page by ID.
func (c *Client) GetPage(ctx context.Context, pageID int64) (*Page, error) {
	var page Page
	if err := c.getJSON(ctx, fmt.Sprintf("/api/v1/wiki/pages/%d", pageID), "page", &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// GetPageByTitle returns the page with the given title. Titles may carry a
// scope prefix ("group/Title"), which the server resolves.
func (c *Client) GetPageByTitle(ctx context.Context, title string) (*Page, error) {
	params := url.Values{}
	params.Set("title", title)
	params.Set("limit", "1")

	var result PaginatedResponse[Page]
	if err := c.getJSON(ctx, "/api/v1/wiki/pages?"+params.Encode(), "pages", &result); err != nil {
		return nil, err
	}
	if len(result.Results) == 0 {
		return nil, &ErrorResponse{StatusCode: 404, Message: fmt.Sprintf("page %q not found", title)}
	}
	return &result.Results[0], nil
}
