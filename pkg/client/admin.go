package client

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"talentdesk/pkg/api"
)

func listQuery(search string, page, size int) url.Values {
	v := url.Values{}
	if search != "" {
		v.Set("search", search)
	}
	if page > 0 {
		v.Set("PageNumber", strconv.Itoa(page))
	}
	if size > 0 {
		v.Set("PageSize", strconv.Itoa(size))
	}
	return v
}

func lookupPath(kind api.LookupKind, id uint) string {
	p := "/api/v1/lookups/" + url.PathEscape(string(kind))
	if id != 0 {
		p += "/" + strconv.FormatUint(uint64(id), 10)
	}
	return p
}

func userPath(id uint) string {
	p := "/api/v1/auth/users"
	if id != 0 {
		p += "/" + strconv.FormatUint(uint64(id), 10)
	}
	return p
}

// ListLookups returns one page of a reference-data catalog
func (c *Client) ListLookups(ctx context.Context, kind api.LookupKind, search string, page, size int) (*api.Page[api.LookupItem], error) {
	var out api.Page[api.LookupItem]
	if err := c.do(ctx, http.MethodGet, lookupPath(kind, 0), listQuery(search, page, size), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetLookup loads one catalog entry
func (c *Client) GetLookup(ctx context.Context, kind api.LookupKind, id uint) (*api.LookupItem, error) {
	var out api.LookupItem
	if err := c.do(ctx, http.MethodGet, lookupPath(kind, id), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateLookup adds a catalog entry (admin only)
func (c *Client) CreateLookup(ctx context.Context, kind api.LookupKind, in *api.LookupRequest) (*api.LookupItem, error) {
	if err := api.Validate(in); err != nil {
		return nil, err
	}
	var out api.LookupItem
	if err := c.do(ctx, http.MethodPost, lookupPath(kind, 0), nil, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateLookup replaces a catalog entry (admin only)
func (c *Client) UpdateLookup(ctx context.Context, kind api.LookupKind, id uint, in *api.LookupRequest) (*api.LookupItem, error) {
	if err := api.Validate(in); err != nil {
		return nil, err
	}
	var out api.LookupItem
	if err := c.do(ctx, http.MethodPut, lookupPath(kind, id), nil, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteLookup removes a catalog entry (admin only)
func (c *Client) DeleteLookup(ctx context.Context, kind api.LookupKind, id uint) error {
	return c.do(ctx, http.MethodDelete, lookupPath(kind, id), nil, nil, nil)
}

// Me returns the account behind the current token
func (c *Client) Me(ctx context.Context) (*api.User, error) {
	var out api.User
	if err := c.do(ctx, http.MethodGet, "/api/v1/auth/me", nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListUsers returns one page of accounts (admin only)
func (c *Client) ListUsers(ctx context.Context, search string, page, size int) (*api.Page[api.User], error) {
	var out api.Page[api.User]
	if err := c.do(ctx, http.MethodGet, userPath(0), listQuery(search, page, size), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetUser loads one account (admin only)
func (c *Client) GetUser(ctx context.Context, id uint) (*api.User, error) {
	var out api.User
	if err := c.do(ctx, http.MethodGet, userPath(id), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateUser provisions an account (admin only)
func (c *Client) CreateUser(ctx context.Context, in *api.CreateUserRequest) (*api.User, error) {
	if err := api.Validate(in); err != nil {
		return nil, err
	}
	var out api.User
	if err := c.do(ctx, http.MethodPost, userPath(0), nil, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateUser changes the supplied fields of an account (admin only)
func (c *Client) UpdateUser(ctx context.Context, id uint, in *api.UpdateUserRequest) (*api.User, error) {
	if err := api.Validate(in); err != nil {
		return nil, err
	}
	var out api.User
	if err := c.do(ctx, http.MethodPut, userPath(id), nil, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteUser removes an account (admin only)
func (c *Client) DeleteUser(ctx context.Context, id uint) error {
	return c.do(ctx, http.MethodDelete, userPath(id), nil, nil, nil)
}
