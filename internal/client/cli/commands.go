package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/aymanbagabas/go-udiff"
	"github.com/dmitrijs2005/fluxapi/internal/client/models"
	"github.com/dmitrijs2005/fluxapi/internal/client/services"
	"github.com/dmitrijs2005/fluxapi/internal/common"
	"github.com/jmespath/go-jmespath"
)

// writeClipboard is a test seam for clipboard.WriteAll.
var writeClipboard = clipboard.WriteAll

var errNoResponse = errors.New("no response yet, use 'send' first")

func (a *App) println(args ...any) {
	fmt.Fprintln(a.out, args...)
}

func (a *App) printf(format string, args ...any) {
	fmt.Fprintf(a.out, format, args...)
}

// fail prints err and returns it, so command handlers stay one-liners.
func (a *App) fail(err error) error {
	a.println(errorStyle.Render(err.Error()))
	return err
}

func (a *App) status() string {
	t, ok := a.ws.ActiveTab()
	if !ok {
		return ""
	}
	marker := ""
	if t.IsDirty {
		marker = "*"
	}
	return fmt.Sprintf("(%s%s)", t.Title, marker)
}

func (a *App) activeRequest() (models.Tab, error) {
	t, ok := a.ws.ActiveTab()
	if !ok {
		return models.Tab{}, errors.New("no open tab, use 'new' or 'open <id>'")
	}
	if t.Type != models.TabRequest || t.Draft == nil {
		return models.Tab{}, common.ErrNotRequestTab
	}
	return t, nil
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return id, nil
}

func (a *App) ListCollections(ctx context.Context, _ []string) error {
	cols, err := a.collections.List(ctx)
	if err != nil {
		return a.fail(err)
	}
	if len(cols) == 0 {
		a.println("no collections")
	}
	for _, c := range cols {
		a.printf("%4d  %s\n", c.ID, c.Name)
	}
	return nil
}

func (a *App) CreateCollection(ctx context.Context, args []string) error {
	id, err := a.collections.Create(ctx, strings.Join(args, " "))
	if err != nil {
		return a.fail(err)
	}
	a.printf("collection %d created\n", id)
	return nil
}

func (a *App) RenameCollection(ctx context.Context, args []string) error {
	if len(args) < 2 {
		a.println("Usage: rencol <id> <name>")
		return nil
	}
	id, err := parseID(args[0])
	if err != nil {
		return a.fail(err)
	}
	if err := a.collections.Rename(ctx, id, strings.Join(args[1:], " ")); err != nil {
		return a.fail(err)
	}
	return nil
}

func (a *App) DeleteCollection(ctx context.Context, args []string) error {
	if len(args) != 1 {
		a.println("Usage: rmcol <id>")
		return nil
	}
	id, err := parseID(args[0])
	if err != nil {
		return a.fail(err)
	}
	if err := a.collections.Delete(ctx, id); err != nil {
		return a.fail(err)
	}
	a.ws.ValidateTabs(ctx)
	return nil
}

func (a *App) ListRequests(ctx context.Context, args []string) error {
	var colID *int64
	if len(args) > 0 {
		id, err := parseID(args[0])
		if err != nil {
			return a.fail(err)
		}
		colID = &id
	}
	reqs, err := a.collections.Requests(ctx, colID)
	if err != nil {
		return a.fail(err)
	}
	if len(reqs) == 0 {
		a.println("no requests")
	}
	for _, r := range reqs {
		a.printf("%4d  %-7s %-24s %s\n", r.ID, r.Method, r.Name, r.URL)
	}
	return nil
}

func (a *App) NewRequest(ctx context.Context, args []string) error {
	var colID *int64
	if len(args) > 0 {
		id, err := parseID(args[0])
		if err != nil {
			return a.fail(err)
		}
		colID = &id
	}
	t, err := a.ws.NewRequest(ctx, colID)
	if err != nil {
		return a.fail(err)
	}
	id, _ := t.RequestID()
	a.printf("request %d opened\n", id)
	return nil
}

func (a *App) OpenRequest(ctx context.Context, args []string) error {
	if len(args) != 1 {
		a.println("Usage: open <request id>")
		return nil
	}
	id, err := parseID(args[0])
	if err != nil {
		return a.fail(err)
	}
	if _, err := a.ws.OpenRequest(ctx, id); err != nil {
		return a.fail(err)
	}
	return nil
}

func (a *App) ListTabs(_ context.Context, _ []string) error {
	tabs := a.ws.Tabs()
	if len(tabs) == 0 {
		a.println("no open tabs")
		return nil
	}
	active, _ := a.ws.ActiveTab()
	for i, t := range tabs {
		a.println(renderTab(i, t, t.ID == active.ID))
	}
	return nil
}

// tabArg resolves a 1-based tab number or a tab id; no args means the
// active tab.
func (a *App) tabArg(args []string) (string, error) {
	if len(args) == 0 {
		t, ok := a.ws.ActiveTab()
		if !ok {
			return "", errors.New("no open tab")
		}
		return t.ID, nil
	}
	tabs := a.ws.Tabs()
	if n, err := strconv.Atoi(args[0]); err == nil {
		if n < 1 || n > len(tabs) {
			return "", fmt.Errorf("no tab %d", n)
		}
		return tabs[n-1].ID, nil
	}
	for _, t := range tabs {
		if t.ID == args[0] {
			return t.ID, nil
		}
	}
	return "", fmt.Errorf("%w: %s", common.ErrTabNotFound, args[0])
}

func (a *App) UseTab(_ context.Context, args []string) error {
	if len(args) != 1 {
		a.println("Usage: use <tab number>")
		return nil
	}
	id, err := a.tabArg(args)
	if err != nil {
		return a.fail(err)
	}
	return a.ws.Activate(id)
}

func (a *App) CloseTab(ctx context.Context, args []string) error {
	id, err := a.tabArg(args)
	if err != nil {
		return a.fail(err)
	}
	if err := a.ws.CloseTab(ctx, id); err != nil {
		return a.fail(err)
	}
	a.mu.Lock()
	delete(a.previous, id)
	a.mu.Unlock()
	return nil
}

func (a *App) CloseOtherTabs(ctx context.Context, args []string) error {
	id, err := a.tabArg(args)
	if err != nil {
		return a.fail(err)
	}
	if err := a.ws.CloseOthers(ctx, id); err != nil {
		return a.fail(err)
	}
	a.mu.Lock()
	for k := range a.previous {
		if k != id {
			delete(a.previous, k)
		}
	}
	a.mu.Unlock()
	return nil
}

func (a *App) CloseAllTabs(ctx context.Context, _ []string) error {
	if err := a.ws.CloseAll(ctx); err != nil {
		return a.fail(err)
	}
	a.forgetResponses()
	return nil
}

// ResetSession closes every tab and wipes the saved session state.
func (a *App) ResetSession(ctx context.Context, _ []string) error {
	if err := a.ws.ResetSession(ctx); err != nil {
		return a.fail(err)
	}
	a.forgetResponses()
	a.println("session reset")
	return nil
}

func (a *App) forgetResponses() {
	a.mu.Lock()
	a.previous = make(map[string]*models.Response)
	a.mu.Unlock()
}

func (a *App) DuplicateTab(ctx context.Context, _ []string) error {
	t, err := a.activeRequest()
	if err != nil {
		return a.fail(err)
	}
	if _, err := a.ws.DuplicateTab(ctx, t.ID); err != nil {
		return a.fail(err)
	}
	return nil
}

// editActive runs fn against the active request tab.
func (a *App) editActive(fn func(tabID string) error) error {
	t, err := a.activeRequest()
	if err != nil {
		return a.fail(err)
	}
	if err := fn(t.ID); err != nil {
		return a.fail(err)
	}
	return nil
}

func (a *App) Rename(_ context.Context, args []string) error {
	if len(args) == 0 {
		a.println("Usage: rename <name>")
		return nil
	}
	return a.editActive(func(id string) error { return a.ws.OnNameChange(id, strings.Join(args, " ")) })
}

func (a *App) SetMethod(_ context.Context, args []string) error {
	if len(args) != 1 {
		a.println("Usage: method <GET|POST|PUT|PATCH|DELETE|HEAD|OPTIONS>")
		return nil
	}
	m, err := models.ParseMethod(args[0])
	if err != nil {
		return a.fail(err)
	}
	return a.editActive(func(id string) error { return a.ws.OnMethodChange(id, m) })
}

func (a *App) SetURL(_ context.Context, args []string) error {
	url := strings.Join(args, "")
	return a.editActive(func(id string) error { return a.ws.OnURLChange(id, url) })
}

func (a *App) SetHeader(_ context.Context, args []string) error {
	if len(args) < 1 {
		a.println("Usage: header <name> [value]")
		return nil
	}
	return a.editActive(func(id string) error {
		return a.ws.OnHeaderEdit(id, strings.TrimSuffix(args[0], ":"), strings.Join(args[1:], " "))
	})
}

func (a *App) RenameHeader(_ context.Context, args []string) error {
	if len(args) != 2 {
		a.println("Usage: mvheader <old> <new>")
		return nil
	}
	return a.editActive(func(id string) error { return a.ws.OnHeaderRename(id, args[0], args[1]) })
}

func (a *App) DeleteHeader(_ context.Context, args []string) error {
	if len(args) != 1 {
		a.println("Usage: unheader <name>")
		return nil
	}
	return a.editActive(func(id string) error { return a.ws.OnHeaderDelete(id, args[0]) })
}

func (a *App) SetParam(_ context.Context, args []string) error {
	if len(args) < 1 {
		a.println("Usage: param <name> [value]")
		return nil
	}
	return a.editActive(func(id string) error {
		return a.ws.OnParamEdit(id, args[0], strings.Join(args[1:], " "))
	})
}

func (a *App) DeleteParam(_ context.Context, args []string) error {
	if len(args) != 1 {
		a.println("Usage: unparam <name>")
		return nil
	}
	return a.editActive(func(id string) error { return a.ws.OnParamDelete(id, args[0]) })
}

func (a *App) Show(_ context.Context, _ []string) error {
	t, err := a.activeRequest()
	if err != nil {
		return a.fail(err)
	}
	d := t.Draft
	id, _ := d.RequestID()
	a.printf("#%d %s\n%s %s\n", id, d.Name, d.Method, d.URL)
	for _, k := range sortedKeys(d.QueryParams) {
		a.printf("  ?%s=%s\n", k, d.QueryParams[k])
	}
	for _, k := range sortedKeys(d.Headers) {
		a.printf("  %s: %s\n", k, d.Headers[k])
	}
	a.printf("auth: %s\n", d.Auth.AuthType())
	if b, ok := d.Auth.(models.BearerAuth); ok {
		if exp, ok := services.TokenExpiry(b.Token); ok {
			a.printf("  token expires %s\n", exp.Local().Format(time.RFC1123))
		}
	}
	switch b := d.Body.(type) {
	case models.TextBody:
		a.printf("body (%s):\n%s\n", b.ContentType, b.Content)
	case models.FileBody:
		a.printf("body: file %s (%s, %s)\n", b.FileName, b.FileType, formatSize(int(b.FileSize)))
	case models.FormBody:
		a.println("body: form")
		for _, f := range b.Fields {
			a.printf("  %s (%s)\n", f.Key, f.Type)
		}
	default:
		a.println("body: none")
	}
	if a.ws.State(t.ID).BodyErrors {
		a.println(warnStyle.Render("body has syntax errors"))
	}
	return nil
}

func (a *App) Send(ctx context.Context, _ []string) error {
	t, err := a.activeRequest()
	if err != nil {
		return a.fail(err)
	}
	before := a.ws.State(t.ID).Outcome

	out, err := a.ws.OnSend(ctx, t.ID)
	if err != nil {
		// already reported through EventValidation
		return err
	}
	if before != nil && before.Response != nil {
		a.mu.Lock()
		a.previous[t.ID] = before.Response
		a.mu.Unlock()
	}
	a.println(renderOutcome(out, false))
	return nil
}

func (a *App) lastResponse() (string, *models.Response, error) {
	t, err := a.activeRequest()
	if err != nil {
		return "", nil, err
	}
	o := a.ws.State(t.ID).Outcome
	if o == nil || o.Response == nil {
		return t.ID, nil, errNoResponse
	}
	return t.ID, o.Response, nil
}

func (a *App) ShowResponse(_ context.Context, _ []string) error {
	t, err := a.activeRequest()
	if err != nil {
		return a.fail(err)
	}
	o := a.ws.State(t.ID).Outcome
	if o == nil {
		return a.fail(errNoResponse)
	}
	a.println(renderOutcome(*o, true))
	return nil
}

// Diff compares the latest response body with the one before it.
func (a *App) Diff(_ context.Context, _ []string) error {
	tabID, cur, err := a.lastResponse()
	if err != nil {
		return a.fail(err)
	}
	a.mu.Lock()
	prev := a.previous[tabID]
	a.mu.Unlock()
	if prev == nil {
		return a.fail(errors.New("only one response so far, send again to compare"))
	}

	d := udiff.Unified(
		fmt.Sprintf("previous (%d)", prev.Status),
		fmt.Sprintf("current (%d)", cur.Status),
		prettyBody(prev.Data)+"\n",
		prettyBody(cur.Data)+"\n",
	)
	if d == "" {
		a.println("responses are identical")
		return nil
	}
	a.println(d)
	return nil
}

func (a *App) Copy(_ context.Context, _ []string) error {
	_, r, err := a.lastResponse()
	if err != nil {
		return a.fail(err)
	}
	if err := writeClipboard(r.Data); err != nil {
		return a.fail(fmt.Errorf("failed to copy: %w", err))
	}
	a.printf("copied %s\n", formatSize(r.Size))
	return nil
}

// Filter evaluates a JMESPath expression against a JSON response body.
func (a *App) Filter(_ context.Context, args []string) error {
	if len(args) == 0 {
		a.println("Usage: filter <jmespath expression>")
		return nil
	}
	_, r, err := a.lastResponse()
	if err != nil {
		return a.fail(err)
	}
	out, err := filterJSON(r.Data, strings.Join(args, " "))
	if err != nil {
		return a.fail(err)
	}
	a.println(out)
	return nil
}

func filterJSON(body, expr string) (string, error) {
	var data any
	if err := json.Unmarshal([]byte(body), &data); err != nil {
		return "", fmt.Errorf("response is not JSON: %w", err)
	}
	res, err := jmespath.Search(expr, data)
	if err != nil {
		return "", fmt.Errorf("invalid expression: %w", err)
	}
	out, err := json.MarshalIndent(res, "", "  ")
	if err != nil {
		return "", err
	}
	return string(out), nil
}

func (a *App) History(ctx context.Context, _ []string) error {
	t, err := a.activeRequest()
	if err != nil {
		return a.fail(err)
	}
	id, ok := t.RequestID()
	if !ok {
		return a.fail(common.ErrNotPersisted)
	}
	entries, err := a.history.List(ctx, id, 20)
	if err != nil {
		return a.fail(err)
	}
	if len(entries) == 0 {
		a.println("no history")
	}
	for _, e := range entries {
		st := bandStyles[services.BandOf(e.StatusCode)].Render(strconv.Itoa(e.StatusCode))
		a.printf("%s  %s  %5d ms  %s\n", e.CreatedAt.Local().Format("2006-01-02 15:04:05"), st, e.ResponseTime, formatSize(len(e.ResponseBody)))
	}
	return nil
}

func (a *App) Reload(ctx context.Context, args []string) error {
	t, err := a.activeRequest()
	if err != nil {
		return a.fail(err)
	}
	facets := make([]models.Facet, 0, len(args))
	for _, s := range args {
		f, err := models.ParseFacet(s)
		if err != nil {
			return a.fail(err)
		}
		facets = append(facets, f)
	}
	if err := a.ws.Reload(ctx, t.ID, facets...); err != nil {
		return a.fail(err)
	}
	return nil
}

func (a *App) Validate(ctx context.Context, _ []string) error {
	if len(a.ws.ValidateTabs(ctx)) == 0 {
		a.println("all tabs are valid")
	}
	return nil
}

// prettyBody indents JSON bodies and leaves anything else as is.
func prettyBody(s string) string {
	var buf bytes.Buffer
	if err := json.Indent(&buf, []byte(s), "", "  "); err != nil {
		return s
	}
	return buf.String()
}
