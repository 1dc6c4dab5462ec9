package core

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/pkg/errors"
)

// ListParams are the paging/search parameters shared by every list endpoint.
type ListParams struct {
	Page   int
	Limit  int
	Search string
	Sort   string // e.g. "-createdAt"
}

// Values encodes the params as query values; zero values are omitted.
func (p ListParams) Values() url.Values {
	v := make(url.Values)
	if p.Page > 0 {
		v.Set("page", strconv.Itoa(p.Page))
	}
	if p.Limit > 0 {
		v.Set("limit", strconv.Itoa(p.Limit))
	}
	if s := CleanString(p.Search); s != "" {
		v.Set("search", s)
	}
	if s := CleanString(p.Sort); s != "" {
		v.Set("sort", s)
	}
	return v
}

// SetIf sets key to val on v when val is not blank.
func SetIf(v url.Values, key, val string) {
	if val = CleanString(val); val != "" {
		v.Set(key, val)
	}
}

// SetIntIf sets key on v when val is positive.
func SetIntIf(v url.Values, key string, val int) {
	if val > 0 {
		v.Set(key, strconv.Itoa(val))
	}
}

// Page is one page of a list endpoint.
// TotalKnown is false when the backend reported no total; Total is then the page's item count.
type Page[T any] struct {
	Items      []T
	Total      int
	TotalKnown bool
	Results    int
	Page       int
	Limit      int
}

func (p Page[T]) TotalPages() int {
	if p.Limit <= 0 {
		if p.Total > 0 {
			return 1
		}
		return 0
	}
	return (p.Total + p.Limit - 1) / p.Limit
}

// HasNext reports whether another page follows. Without a total, a full page is assumed to have a successor.
func (p Page[T]) HasNext() bool {
	if !p.TotalKnown {
		return p.Limit > 0 && len(p.Items) >= p.Limit
	}
	return p.Page < p.TotalPages()
}
func (p Page[T]) HasPrev() bool { return p.Page > 1 }

// DecodePage builds a Page from a list envelope, using query for the requested page & limit.
func DecodePage[T any](env *Envelope, query url.Values) (Page[T], error) {
	var page Page[T]
	if err := env.Decode(&page.Items); err != nil {
		return page, err
	}
	if page.Items == nil {
		page.Items = []T{}
	}

	page.Page, _ = strconv.Atoi(query.Get("page"))
	page.Limit, _ = strconv.Atoi(query.Get("limit"))
	if env.Pagination != nil {
		if env.Pagination.Page > 0 {
			page.Page = env.Pagination.Page
		}
		if env.Pagination.Limit > 0 {
			page.Limit = env.Pagination.Limit
		}
	}
	if page.Page <= 0 {
		page.Page = 1
	}

	switch {
	case env.Total != nil:
		page.Total, page.TotalKnown = *env.Total, true
	case env.Pagination != nil && env.Pagination.Total > 0:
		page.Total, page.TotalKnown = env.Pagination.Total, true
	default:
		page.Total = len(page.Items)
	}
	if env.Results != nil {
		page.Results = *env.Results
	} else {
		page.Results = len(page.Items)
	}
	return page, nil
}

// Resource is the CRUD surface shared by every backend resource mounted at a base path.
type Resource[T any] struct {
	req  Requester
	path string
}

func NewResource[T any](req Requester, path string) Resource[T] {
	return Resource[T]{req: req, path: path}
}

func (res Resource[T]) Path(parts ...string) string {
	p := res.path
	for _, part := range parts {
		p += "/" + url.PathEscape(part)
	}
	return p
}

func (res Resource[T]) Requester() Requester { return res.req }

func (res Resource[T]) List(ctx context.Context, query url.Values) (Page[T], error) {
	env, err := res.req.Do(ctx, Request{Method: http.MethodGet, Path: res.path, Query: query})
	if err != nil {
		return Page[T]{}, err
	}
	return DecodePage[T](env, query)
}

func (res Resource[T]) Get(ctx context.Context, id string) (T, error) {
	var obj T
	if id = CleanString(id); id == "" {
		return obj, ErrNotFound
	}
	return res.Fetch(ctx, Request{Method: http.MethodGet, Path: res.Path(id)})
}

func (res Resource[T]) Create(ctx context.Context, body interface{}) (T, error) {
	return res.Fetch(ctx, Request{Method: http.MethodPost, Path: res.path, Body: body})
}

func (res Resource[T]) Update(ctx context.Context, id string, body interface{}) (T, error) {
	var obj T
	if id = CleanString(id); id == "" {
		return obj, ErrNotFound
	}
	return res.Fetch(ctx, Request{Method: http.MethodPut, Path: res.Path(id), Body: body})
}

// Patch sends a partial update to a sub-path of an object, e.g. Patch(ctx, id, "status", body).
func (res Resource[T]) Patch(ctx context.Context, id, action string, body interface{}) (T, error) {
	var obj T
	if id = CleanString(id); id == "" {
		return obj, ErrNotFound
	}
	return res.Fetch(ctx, Request{Method: http.MethodPatch, Path: res.Path(id, action), Body: body})
}

func (res Resource[T]) Delete(ctx context.Context, id string) error {
	if id = CleanString(id); id == "" {
		return ErrNotFound
	}
	_, err := res.req.Do(ctx, Request{Method: http.MethodDelete, Path: res.Path(id)})
	return err
}

// Fetch sends req and decodes the envelope's data into a T.
func (res Resource[T]) Fetch(ctx context.Context, req Request) (T, error) {
	var obj T
	env, err := res.req.Do(ctx, req)
	if err != nil {
		return obj, err
	}
	if err = env.Decode(&obj); err != nil {
		return obj, errors.Wrapf(err, "%s %s", req.Method, req.Path)
	}
	return obj, nil
}
