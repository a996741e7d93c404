package backend

import (
	"context"
	"fmt"

	"github.com/open-cli-collective/wikimacro/api"
	"github.com/open-cli-collective/wikimacro/pkg/macro"
)

// APIStore serves lookups through the wiki REST API.
type APIStore struct {
	client *api.Client
}

// NewAPIStore returns an APIStore using client.
func NewAPIStore(client *api.Client) *APIStore {
	return &APIStore{client: client}
}

// PageByTitle implements macro.PageResolver.
func (s *APIStore) PageByTitle(ctx context.Context, title string) (*macro.Page, error) {
	p, err := s.client.GetPageByTitle(ctx, title)
	if err != nil {
		return nil, apiError("page "+title, err)
	}
	return convertPage(p), nil
}

// PageByID implements macro.PageResolver.
func (s *APIStore) PageByID(ctx context.Context, id int64) (*macro.Page, error) {
	p, err := s.client.GetPage(ctx, id)
	if err != nil {
		return nil, apiError(fmt.Sprintf("page %d", id), err)
	}
	return convertPage(p), nil
}

// AttachmentByID implements macro.AttachmentResolver.
func (s *APIStore) AttachmentByID(ctx context.Context, id int64) (*macro.Attachment, error) {
	a, err := s.client.GetAttachment(ctx, id)
	if err != nil {
		return nil, apiError(fmt.Sprintf("attachment %d", id), err)
	}
	att := convertAttachment(*a)
	return &att, nil
}

// ListAttachments implements macro.AttachmentLister.
func (s *APIStore) ListAttachments(ctx context.Context, pageID int64, prefix string) ([]macro.Attachment, error) {
	all, err := s.client.ListAllAttachments(ctx, pageID, prefix)
	if err != nil {
		return nil, apiError(fmt.Sprintf("attachments of page %d", pageID), err)
	}
	out := make([]macro.Attachment, 0, len(all))
	for _, a := range all {
		out = append(out, convertAttachment(a))
	}
	return out, nil
}

// UserByID implements macro.UserResolver.
func (s *APIStore) UserByID(ctx context.Context, id int64) (*macro.User, error) {
	m, err := s.client.GetMember(ctx, id)
	if err != nil {
		return nil, apiError(fmt.Sprintf("member %d", id), err)
	}
	return &macro.User{ID: m.ID, Name: m.Name}, nil
}

// Ping checks that the API answers authenticated requests.
func (s *APIStore) Ping(ctx context.Context) error {
	_, err := s.client.Get(ctx, "/api/v1/wiki/pages?limit=1")
	return err
}

// Close implements Backend.
func (s *APIStore) Close() {}

func apiError(what string, err error) error {
	if api.IsNotFound(err) {
		return fmt.Errorf("%s: %w", what, macro.ErrNotFound)
	}
	return fmt.Errorf("%s: %w", what, err)
}

func convertPage(p *api.Page) *macro.Page {
	link := p.Links.WebUI
	if link == "" {
		link = pageLink(p.Scope, p.PageName)
	}
	return &macro.Page{ID: p.ID, Title: p.Title, Link: link}
}

func convertAttachment(a api.Attachment) macro.Attachment {
	return macro.Attachment{
		ID:          a.ID,
		PageID:      a.PageID,
		Filename:    a.Filename,
		Description: a.Description,
		CreatedBy:   a.CreatedBy,
		Created:     a.Created.Time,
	}
}
