package models

import (
	"fmt"

	"github.com/dmitrijs2005/fluxapi/internal/common"
)

// Facet names an independently editable part of a draft.
type Facet string

const (
	FacetName        Facet = "name"
	FacetMethod      Facet = "method"
	FacetURL         Facet = "url"
	FacetHeaders     Facet = "headers"
	FacetQueryParams Facet = "queryParams"
	FacetAuth        Facet = "auth"
	FacetBody        Facet = "body"
)

var AllFacets = []Facet{FacetName, FacetMethod, FacetURL, FacetHeaders, FacetQueryParams, FacetAuth, FacetBody}

func ParseFacet(s string) (Facet, error) {
	for _, f := range AllFacets {
		if string(f) == s {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown facet %q", s)
}

// Draft is the in-memory, editable state of a request.
type Draft struct {
	ID           *int64
	CollectionID *int64
	Name         string
	Method       Method
	URL          string
	Headers      map[string]string
	QueryParams  map[string]string
	Auth         Auth
	Body         Body
}

// NewDraft returns a draft holding the defaults of every facet.
func NewDraft() Draft {
	return Draft{
		Name:        common.DefaultRequestName,
		Method:      MethodGet,
		Headers:     map[string]string{},
		QueryParams: map[string]string{},
		Auth:        NoAuth{},
		Body:        NoBody{},
	}
}

// LoadDraft decodes a stored request. Each facet is decoded on its own; a
// facet that is empty or malformed gets its default and the rest are kept.
// A nil request yields NewDraft.
func LoadDraft(r *Request) Draft {
	d := NewDraft()
	if r == nil {
		return d
	}

	if r.ID != 0 {
		id := r.ID
		d.ID = &id
	}
	if r.CollectionID != nil {
		cid := *r.CollectionID
		d.CollectionID = &cid
	}
	d.Name = r.Name
	if m, err := ParseMethod(r.Method); err == nil {
		d.Method = m
	}
	d.URL = r.URL
	d.Headers = decodeStringMap(r.Headers)
	d.QueryParams = decodeStringMap(r.QueryParams)
	d.Auth = DecodeAuth(r.Auth)
	d.Body = DecodeBody(r.Body)

	return d
}

// Persistable encodes the draft into its stored form. Decoding the result
// with LoadDraft gives back an equal draft, and LoadDraft followed by
// Persistable reproduces any record written by Persistable. Headers and
// query params are written with sorted keys, so for those two facets a
// record from another writer comes back equal as JSON, not byte for byte.
func (d Draft) Persistable() Request {
	r := Request{
		Name:        d.Name,
		Method:      string(d.Method),
		URL:         d.URL,
		Headers:     encodeStringMap(d.Headers),
		QueryParams: encodeStringMap(d.QueryParams),
		Auth:        EncodeAuth(d.Auth),
		Body:        EncodeBody(d.Body),
	}
	if d.ID != nil {
		r.ID = *d.ID
	}
	if d.CollectionID != nil {
		cid := *d.CollectionID
		r.CollectionID = &cid
	}
	if r.Method == "" {
		r.Method = string(MethodGet)
	}
	return r
}

// RequestID reports the id of the stored record backing the draft.
func (d Draft) RequestID() (int64, bool) {
	if d.ID == nil {
		return 0, false
	}
	return *d.ID, true
}

// Clone returns a deep copy; edits to the copy never reach d.
func (d Draft) Clone() Draft {
	c := d
	if d.ID != nil {
		id := *d.ID
		c.ID = &id
	}
	if d.CollectionID != nil {
		cid := *d.CollectionID
		c.CollectionID = &cid
	}
	c.Headers = cloneStringMap(d.Headers)
	c.QueryParams = cloneStringMap(d.QueryParams)
	if c.Auth == nil {
		c.Auth = NoAuth{}
	}
	c.Body = cloneBody(d.Body)
	return c
}

// ReplaceFacets returns a copy of d where only the listed facets are taken
// from src. Other facets, including unsaved edits, stay as they are.
func (d Draft) ReplaceFacets(src Draft, facets ...Facet) Draft {
	out := d.Clone()
	src = src.Clone()
	for _, f := range facets {
		switch f {
		case FacetName:
			out.Name = src.Name
		case FacetMethod:
			out.Method = src.Method
		case FacetURL:
			out.URL = src.URL
		case FacetHeaders:
			out.Headers = src.Headers
		case FacetQueryParams:
			out.QueryParams = src.QueryParams
		case FacetAuth:
			out.Auth = src.Auth
		case FacetBody:
			out.Body = src.Body
		}
	}
	return out
}

// DraftPatch is a partial draft update. Nil fields are unchanged; a non-nil
// map replaces the whole facet.
type DraftPatch struct {
	Name        *string
	Method      *Method
	URL         *string
	Headers     map[string]string
	QueryParams map[string]string
	Auth        Auth
	Body        Body
}

func (p DraftPatch) Empty() bool {
	return p.Name == nil && p.Method == nil && p.URL == nil && p.Headers == nil &&
		p.QueryParams == nil && p.Auth == nil && p.Body == nil
}

// Merge folds next into p; fields set in next win.
func (p DraftPatch) Merge(next DraftPatch) DraftPatch {
	if next.Name != nil {
		p.Name = next.Name
	}
	if next.Method != nil {
		p.Method = next.Method
	}
	if next.URL != nil {
		p.URL = next.URL
	}
	if next.Headers != nil {
		p.Headers = next.Headers
	}
	if next.QueryParams != nil {
		p.QueryParams = next.QueryParams
	}
	if next.Auth != nil {
		p.Auth = next.Auth
	}
	if next.Body != nil {
		p.Body = next.Body
	}
	return p
}

// Without clears the listed facets from the patch.
func (p DraftPatch) Without(facets ...Facet) DraftPatch {
	for _, f := range facets {
		switch f {
		case FacetName:
			p.Name = nil
		case FacetMethod:
			p.Method = nil
		case FacetURL:
			p.URL = nil
		case FacetHeaders:
			p.Headers = nil
		case FacetQueryParams:
			p.QueryParams = nil
		case FacetAuth:
			p.Auth = nil
		case FacetBody:
			p.Body = nil
		}
	}
	return p
}

// Apply returns a copy of d with the patch applied.
func (d Draft) Apply(p DraftPatch) Draft {
	out := d.Clone()
	if p.Name != nil {
		out.Name = *p.Name
	}
	if p.Method != nil {
		out.Method = *p.Method
	}
	if p.URL != nil {
		out.URL = *p.URL
	}
	if p.Headers != nil {
		out.Headers = cloneStringMap(p.Headers)
	}
	if p.QueryParams != nil {
		out.QueryParams = cloneStringMap(p.QueryParams)
	}
	if p.Auth != nil {
		out.Auth = p.Auth
	}
	if p.Body != nil {
		out.Body = cloneBody(p.Body)
	}
	return out
}
