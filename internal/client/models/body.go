package models

import "encoding/json"

// BodyType names a body variant.
type BodyType string

const (
	BodyNone BodyType = "none"
	BodyText BodyType = "text"
	BodyFile BodyType = "file"
	BodyForm BodyType = "form"
)

// ContentType is the syntax a text body is written in.
type ContentType string

const (
	ContentJSON ContentType = "json"
	ContentYAML ContentType = "yaml"
	ContentXML  ContentType = "xml"
)

func (c ContentType) Valid() bool {
	return c == ContentJSON || c == ContentYAML || c == ContentXML
}

// MIME returns the media type sent for a text body of this syntax.
func (c ContentType) MIME() string {
	switch c {
	case ContentYAML:
		return "application/yaml"
	case ContentXML:
		return "application/xml"
	default:
		return "application/json"
	}
}

// Body is one of NoBody, TextBody, FileBody or FormBody.
type Body interface {
	BodyType() BodyType
}

type NoBody struct{}

type TextBody struct {
	Content     string
	ContentType ContentType
}

// FileBody holds an inline file. FileData is a base64 data URL; a removed
// file has every field zeroed.
type FileBody struct {
	FileName string
	FileType string
	FileSize int64
	FileData string
}

type FormBody struct {
	Fields []FormField
}

type FormFieldType string

const (
	FieldText FormFieldType = "text"
	FieldFile FormFieldType = "file"
)

// FormField is one multipart field. For file fields Value is a data URL.
type FormField struct {
	Key   string        `json:"key"`
	Value string        `json:"value"`
	Type  FormFieldType `json:"type"`
}

func (NoBody) BodyType() BodyType   { return BodyNone }
func (TextBody) BodyType() BodyType { return BodyText }
func (FileBody) BodyType() BodyType { return BodyFile }
func (FormBody) BodyType() BodyType { return BodyForm }

// NewFormBody returns a form with a single empty text field, the state a
// freshly selected form editor starts in.
func NewFormBody() FormBody {
	return FormBody{Fields: []FormField{{Type: FieldText}}}
}

type textJSON struct {
	Type        BodyType    `json:"type"`
	Content     string      `json:"content"`
	ContentType ContentType `json:"contentType"`
}

type fileJSON struct {
	Type     BodyType `json:"type"`
	FileName string   `json:"fileName"`
	FileType string   `json:"fileType"`
	FileSize int64    `json:"fileSize"`
	FileData string   `json:"fileData"`
}

type formJSON struct {
	Type   BodyType    `json:"type"`
	Fields []FormField `json:"fields"`
}

type bodyJSON struct {
	Type        BodyType    `json:"type"`
	Content     string      `json:"content"`
	ContentType ContentType `json:"contentType"`
	FileName    string      `json:"fileName"`
	FileType    string      `json:"fileType"`
	FileSize    int64       `json:"fileSize"`
	FileData    string      `json:"fileData"`
	Fields      []FormField `json:"fields"`
}

// DecodeBody parses the stored body text. Empty, malformed or unknown values
// decode to NoBody. A text body without a valid content type is JSON, and a
// form field with an unknown type is a text field.
func DecodeBody(s string) Body {
	var b bodyJSON
	if s == "" || json.Unmarshal([]byte(s), &b) != nil {
		return NoBody{}
	}
	switch b.Type {
	case BodyText:
		ct := b.ContentType
		if !ct.Valid() {
			ct = ContentJSON
		}
		return TextBody{Content: b.Content, ContentType: ct}
	case BodyFile:
		return FileBody{FileName: b.FileName, FileType: b.FileType, FileSize: b.FileSize, FileData: b.FileData}
	case BodyForm:
		fields := make([]FormField, 0, len(b.Fields))
		for _, f := range b.Fields {
			if f.Type != FieldFile {
				f.Type = FieldText
			}
			fields = append(fields, f)
		}
		return FormBody{Fields: fields}
	default:
		return NoBody{}
	}
}

// EncodeBody writes the canonical text form of b. NoBody (and nil) is
// stored as the empty string, which the repositories write as NULL.
func EncodeBody(b Body) string {
	var v any
	switch x := b.(type) {
	case TextBody:
		ct := x.ContentType
		if !ct.Valid() {
			ct = ContentJSON
		}
		v = textJSON{Type: BodyText, Content: x.Content, ContentType: ct}
	case FileBody:
		v = fileJSON{Type: BodyFile, FileName: x.FileName, FileType: x.FileType, FileSize: x.FileSize, FileData: x.FileData}
	case FormBody:
		fields := x.Fields
		if fields == nil {
			fields = []FormField{}
		}
		v = formJSON{Type: BodyForm, Fields: fields}
	default:
		return ""
	}
	out, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(out)
}

func cloneBody(b Body) Body {
	switch x := b.(type) {
	case nil:
		return NoBody{}
	case FormBody:
		fields := make([]FormField, len(x.Fields))
		copy(fields, x.Fields)
		return FormBody{Fields: fields}
	default:
		return b
	}
}
