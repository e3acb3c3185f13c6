package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/fluxapi/internal/client/models"
	"github.com/dmitrijs2005/fluxapi/internal/filex"
)

// SetAuth switches the auth of the active request, prompting for its
// credentials. Passwords and tokens are read without echo.
func (a *App) SetAuth(_ context.Context, args []string) error {
	if len(args) != 1 {
		a.println("Usage: auth <none|basic|bearer|token>")
		return nil
	}
	t, err := a.activeRequest()
	if err != nil {
		return a.fail(err)
	}

	var auth models.Auth
	switch args[0] {
	case "none", string(models.AuthNone):
		auth = models.NoAuth{}

	case string(models.AuthBasic):
		user, err := GetSimpleText(a.reader, "Username", a.out)
		if err != nil {
			return a.fail(err)
		}
		pw, err := GetPassword("Password", a.out)
		if err != nil {
			return a.fail(err)
		}
		auth = models.BasicAuth{Username: user, Password: string(pw)}

	case string(models.AuthBearer):
		tok, err := a.readSecret("Token")
		if err != nil {
			return a.fail(err)
		}
		auth = models.BearerAuth{Token: tok}

	case string(models.AuthToken):
		header, err := GetSimpleText(a.reader, "Header name (empty for Authorization)", a.out)
		if err != nil {
			return a.fail(err)
		}
		tok, err := a.readSecret("Token")
		if err != nil {
			return a.fail(err)
		}
		auth = models.TokenAuth{Header: header, Token: tok}

	default:
		return a.fail(fmt.Errorf("unknown auth type %q", args[0]))
	}

	if err := a.ws.OnAuthChange(t.ID, auth); err != nil {
		return a.fail(err)
	}
	return nil
}

func (a *App) readSecret(prompt string) (string, error) {
	b, err := GetPassword(prompt, a.out)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(b)), nil
}

// SetBody replaces the body of the active request.
//
//	body none
//	body json|yaml|xml   multi-line text, empty line to finish
//	body file <path>     inline file
//	body form            key=value lines, key=@path for files
func (a *App) SetBody(_ context.Context, args []string) error {
	if len(args) == 0 {
		a.println("Usage: body <none|json|yaml|xml|file <path>|form>")
		return nil
	}
	t, err := a.activeRequest()
	if err != nil {
		return a.fail(err)
	}

	var body models.Body
	switch kind := args[0]; kind {
	case "none":
		body = models.NoBody{}

	case string(models.ContentJSON), string(models.ContentYAML), string(models.ContentXML):
		text, err := GetMultiline(a.reader, "Enter "+strings.ToUpper(kind)+" body", a.out)
		if err != nil {
			return a.fail(err)
		}
		body = models.TextBody{Content: text, ContentType: models.ContentType(kind)}

	case "file":
		if len(args) != 2 {
			a.println("Usage: body file <path>")
			return nil
		}
		fi, err := filex.ReadDataURL(args[1])
		if err != nil {
			return a.fail(err)
		}
		body = models.FileBody{FileName: fi.Name, FileType: fi.Type, FileSize: fi.Size, FileData: fi.DataURL}

	case "form":
		lines, err := GetKeyValues(a.reader, "Enter form fields as key=value, key=@path for files", a.out)
		if err != nil {
			return a.fail(err)
		}
		fields, err := parseFormLines(lines)
		if err != nil {
			return a.fail(err)
		}
		body = models.FormBody{Fields: fields}

	default:
		return a.fail(fmt.Errorf("unknown body type %q", kind))
	}

	if err := a.ws.OnBodyChange(t.ID, body); err != nil {
		return a.fail(err)
	}
	if a.ws.State(t.ID).BodyErrors {
		a.println(warnStyle.Render("body has syntax errors, it will be sent as is"))
	}
	return nil
}

// parseFormLines turns "key=value" lines into form fields. A value of the
// form "@path" attaches the file at path.
func parseFormLines(lines []string) ([]models.FormField, error) {
	fields := make([]models.FormField, 0, len(lines))
	for _, line := range lines {
		key, value, ok := strings.Cut(line, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid form line %q, want key=value", line)
		}
		if path, isFile := strings.CutPrefix(value, "@"); isFile {
			fi, err := filex.ReadDataURL(strings.TrimSpace(path))
			if err != nil {
				return nil, err
			}
			fields = append(fields, models.FormField{Key: key, Value: fi.DataURL, Type: models.FieldFile})
			continue
		}
		fields = append(fields, models.FormField{Key: key, Value: value, Type: models.FieldText})
	}
	return fields, nil
}
