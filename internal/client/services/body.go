package services

import (
	"encoding/json"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/dmitrijs2005/fluxapi/internal/client/client"
	"github.com/dmitrijs2005/fluxapi/internal/client/models"
	"gopkg.in/yaml.v3"
)

var errNoRootElement = errors.New("no root element")

// ResolveBody turns a draft body into the payload handed to the transport
// and reports whether the body editor would flag syntax errors.
//
// JSON text that parses is sent as a JSON document; text that does not
// parse is still sent verbatim and the server may reject it. YAML and XML
// are always sent verbatim. Blank text and removed files yield no payload.
func ResolveBody(b models.Body) (payload any, hasErrors bool) {
	switch v := b.(type) {
	case models.TextBody:
		if strings.TrimSpace(v.Content) == "" {
			return nil, false
		}
		ct := v.ContentType
		if !ct.Valid() {
			ct = models.ContentJSON
		}
		err := ValidateText(v.Content, ct)
		if ct == models.ContentJSON && err == nil {
			return client.JSONPayload(v.Content), false
		}
		return client.RawPayload{Data: v.Content, ContentType: ct.MIME()}, err != nil

	case models.FileBody:
		if v.FileData == "" {
			return nil, false
		}
		return client.FilePayload{Name: v.FileName, Type: v.FileType, Data: v.FileData}, false

	case models.FormBody:
		fields := make(client.FormPayload, len(v.Fields))
		copy(fields, v.Fields)
		return fields, false

	default:
		return nil, false
	}
}

// ValidateText checks that content is well-formed in the given syntax.
func ValidateText(content string, ct models.ContentType) error {
	switch ct {
	case models.ContentYAML:
		dec := yaml.NewDecoder(strings.NewReader(content))
		for {
			var v any
			err := dec.Decode(&v)
			if errors.Is(err, io.EOF) {
				return nil
			}
			if err != nil {
				return fmt.Errorf("invalid YAML: %w", err)
			}
		}

	case models.ContentXML:
		dec := xml.NewDecoder(strings.NewReader(content))
		sawElement := false
		for {
			tok, err := dec.Token()
			if errors.Is(err, io.EOF) {
				break
			}
			if err != nil {
				return fmt.Errorf("invalid XML: %w", err)
			}
			if _, ok := tok.(xml.StartElement); ok {
				sawElement = true
			}
		}
		if !sawElement {
			return fmt.Errorf("invalid XML: %w", errNoRootElement)
		}
		return nil

	default:
		var v any
		if err := json.Unmarshal([]byte(content), &v); err != nil {
			return fmt.Errorf("invalid JSON: %w", err)
		}
		return nil
	}
}
