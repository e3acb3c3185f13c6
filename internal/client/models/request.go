package models

import (
	"time"

	"github.com/dmitrijs2005/fluxapi/internal/common"
)

// Collection groups saved requests.
type Collection struct {
	ID        int64
	Name      string
	CreatedAt time.Time
}

// Request is the stored form of a request. Headers, QueryParams, Auth and
// Body are JSON text; an empty Body means no body.
type Request struct {
	ID           int64
	CollectionID *int64
	Name         string
	Method       string
	URL          string
	Headers      string
	QueryParams  string
	Auth         string
	Body         string
	CreatedAt    time.Time
}

// NewRequest returns the record written when the user creates a request.
func NewRequest(collectionID *int64) *Request {
	return &Request{
		CollectionID: collectionID,
		Name:         common.DefaultRequestName,
		Method:       string(MethodGet),
		URL:          "",
		Headers:      "{}",
		QueryParams:  "{}",
		Auth:         EncodeAuth(NoAuth{}),
		Body:         "",
	}
}

// RequestPatch lists the columns to change. Nil fields are left untouched.
type RequestPatch struct {
	Name        *string
	Method      *string
	URL         *string
	Headers     *string
	QueryParams *string
	Auth        *string
	Body        *string
}

func (p RequestPatch) Empty() bool {
	return p.Name == nil && p.Method == nil && p.URL == nil && p.Headers == nil &&
		p.QueryParams == nil && p.Auth == nil && p.Body == nil
}

// Patch returns a patch that overwrites every editable column with r's values.
func (r Request) Patch() RequestPatch {
	return RequestPatch{
		Name:        &r.Name,
		Method:      &r.Method,
		URL:         &r.URL,
		Headers:     &r.Headers,
		QueryParams: &r.QueryParams,
		Auth:        &r.Auth,
		Body:        &r.Body,
	}
}

// HistoryEntry records one received response for a request.
type HistoryEntry struct {
	ID           int64
	RequestID    *int64
	StatusCode   int
	ResponseTime int64
	ResponseBody string
	CreatedAt    time.Time
}
