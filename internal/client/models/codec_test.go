package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDecodeAuth(t *testing.T) {
	tests := []struct {
		in   string
		want Auth
	}{
		{"", NoAuth{}},
		{"{}", NoAuth{}},
		{`{"type":"no-auth"}`, NoAuth{}},
		{`{"type":"basic","username":"u","password":"p"}`, BasicAuth{Username: "u", Password: "p"}},
		{`{"type":"bearer","token":"abc"}`, BearerAuth{Token: "abc"}},
		{`{"type":"token","token":"t","header":"X-Key"}`, TokenAuth{Header: "X-Key", Token: "t"}},
		{`{"type":"oauth2"}`, NoAuth{}},
		{`garbage`, NoAuth{}},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, DecodeAuth(tt.in), tt.in)
	}
}

func TestEncodeAuth(t *testing.T) {
	assert.Equal(t, `{"type":"no-auth"}`, EncodeAuth(nil))
	assert.Equal(t, `{"type":"no-auth"}`, EncodeAuth(NoAuth{}))
	assert.Equal(t, `{"type":"bearer","token":"abc"}`, EncodeAuth(BearerAuth{Token: "abc"}))
	assert.Equal(t, `{"type":"bearer","token":""}`, EncodeAuth(BearerAuth{}))
	assert.Equal(t, `{"type":"basic","username":"","password":""}`, EncodeAuth(BasicAuth{}))
}

func TestDecodeBody(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want Body
	}{
		{"null column", "", NoBody{}},
		{"explicit none", `{"type":"none"}`, NoBody{}},
		{"text default content type", `{"type":"text","content":"x"}`, TextBody{Content: "x", ContentType: ContentJSON}},
		{"text yaml", `{"type":"text","content":"a: 1","contentType":"yaml"}`, TextBody{Content: "a: 1", ContentType: ContentYAML}},
		{"text bad content type", `{"type":"text","content":"x","contentType":"toml"}`, TextBody{Content: "x", ContentType: ContentJSON}},
		{"removed file", `{"type":"file"}`, FileBody{}},
		{"form normalizes field type", `{"type":"form","fields":[{"key":"a","value":"1","type":"weird"},{"key":"f","value":"data:,x","type":"file"}]}`,
			FormBody{Fields: []FormField{{Key: "a", Value: "1", Type: FieldText}, {Key: "f", Value: "data:,x", Type: FieldFile}}}},
		{"form without fields", `{"type":"form"}`, FormBody{Fields: []FormField{}}},
		{"unknown type", `{"type":"graphql"}`, NoBody{}},
		{"wrong shape", `{"type":"file","fileSize":"big"}`, NoBody{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DecodeBody(tt.in))
		})
	}
}

func TestEncodeBody(t *testing.T) {
	assert.Equal(t, "", EncodeBody(nil))
	assert.Equal(t, "", EncodeBody(NoBody{}))
	assert.Equal(t, `{"type":"text","content":"","contentType":"json"}`, EncodeBody(TextBody{}))
	assert.Equal(t, `{"type":"form","fields":[]}`, EncodeBody(FormBody{}))
	assert.Equal(t, `{"type":"file","fileName":"","fileType":"","fileSize":0,"fileData":""}`, EncodeBody(FileBody{}))
}

func TestStringMapCodec(t *testing.T) {
	assert.Equal(t, map[string]string{}, decodeStringMap(`{"a":1}`))
	assert.Equal(t, map[string]string{"a": "1"}, decodeStringMap(`{"a":"1"}`))
	assert.Equal(t, "{}", encodeStringMap(nil))
	assert.Equal(t, `{"a":"1","b":"2"}`, encodeStringMap(map[string]string{"b": "2", "a": "1"}))
}

func TestContentTypeMIME(t *testing.T) {
	assert.Equal(t, "application/json", ContentJSON.MIME())
	assert.Equal(t, "application/yaml", ContentYAML.MIME())
	assert.Equal(t, "application/xml", ContentXML.MIME())
}

func TestTab_RequestIDAndClone(t *testing.T) {
	d := LoadDraft(&Request{ID: 5})
	tab := Tab{ID: "t", Type: TabRequest, Draft: &d}

	id, ok := tab.RequestID()
	assert.True(t, ok)
	assert.Equal(t, int64(5), id)

	c := tab.Clone()
	c.Draft.URL = "changed"
	assert.Empty(t, tab.Draft.URL)

	_, ok = Tab{Type: TabHistory}.RequestID()
	assert.False(t, ok)
}
