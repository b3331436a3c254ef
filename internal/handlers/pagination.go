package handlers

import (
	"net/http"
	"net/url"
	"strconv"

	"github.com/Lixing-Zhang/foodgram/backend/internal/models"
)

// Paginator reads ?page=&limit= and builds page envelopes with next/previous links
type Paginator struct {
	DefaultSize int
	MaxSize     int
}

// Request extracts pagination parameters from the query string
func (p Paginator) Request(r *http.Request) models.PageRequest {
	limit := queryInt(r, "limit", p.DefaultSize)
	if limit < 1 {
		limit = p.DefaultSize
	}
	if p.MaxSize > 0 && limit > p.MaxSize {
		limit = p.MaxSize
	}

	page := queryInt(r, "page", 1)
	if page < 1 {
		page = 1
	}
	return models.PageRequest{Page: page, Limit: limit}
}

// NewPage wraps results in a page envelope
func NewPage[T any](r *http.Request, req models.PageRequest, results []T, total int) models.Page[T] {
	page := models.Page[T]{
		Count:   total,
		Results: results,
	}
	if page.Results == nil {
		page.Results = []T{}
	}

	if req.Page*req.Limit < total {
		page.Next = pageLink(r, req.Page+1)
	}
	if req.Page > 1 {
		page.Previous = pageLink(r, req.Page-1)
	}
	return page
}

func pageLink(r *http.Request, page int) *string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if fwd := r.Header.Get("X-Forwarded-Proto"); fwd != "" {
		scheme = fwd
	}

	q := r.URL.Query()
	if page == 1 {
		q.Del("page")
	} else {
		q.Set("page", strconv.Itoa(page))
	}

	u := url.URL{Scheme: scheme, Host: r.Host, Path: r.URL.Path, RawQuery: q.Encode()}
	link := u.String()
	return &link
}
