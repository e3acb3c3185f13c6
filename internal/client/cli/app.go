package cli

import (
	"bufio"
	"context"
	"database/sql"
	"io"
	"os"
	"sync"

	"github.com/dmitrijs2005/fluxapi/internal/client/client"
	"github.com/dmitrijs2005/fluxapi/internal/client/config"
	"github.com/dmitrijs2005/fluxapi/internal/client/models"
	"github.com/dmitrijs2005/fluxapi/internal/client/services"
	"github.com/dmitrijs2005/fluxapi/internal/client/workspace"
	"github.com/dmitrijs2005/fluxapi/internal/logging"
)

type App struct {
	config      *config.Config
	log         logging.Logger
	db          *sql.DB
	ws          *workspace.Workspace
	collections services.CollectionService
	history     services.HistoryService
	reader      *bufio.Reader
	out         io.Writer

	// previous holds, per tab, the response shown before the latest send.
	mu       sync.Mutex
	previous map[string]*models.Response
}

func NewApp(ctx context.Context, c *config.Config, log logging.Logger) (*App, error) {
	db, err := client.InitDatabase(ctx, c.DatabasePath)
	if err != nil {
		log.Error(ctx, "error initializing database", "path", c.DatabasePath, "err", err)
		return nil, err
	}

	repos := client.NewRepositories(db)
	history := services.NewHistoryService(repos.History)
	dispatcher := services.NewDispatcher(client.NewHTTPTransport(nil), c.RequestTimeout, c.OneSendPerDraft, log)

	ws := workspace.New(workspace.Deps{
		Requests:     repos.Requests,
		History:      history,
		Session:      services.NewSessionStore(repos.Metadata),
		Sender:       dispatcher,
		Validator:    services.NewValidator(repos.Requests, log),
		SaveDebounce: c.SaveDebounce,
		Log:          log,
	})

	a := &App{
		config:      c,
		log:         log,
		db:          db,
		ws:          ws,
		collections: services.NewCollectionService(db),
		history:     history,
		reader:      bufio.NewReader(os.Stdin),
		out:         os.Stdout,
		previous:    make(map[string]*models.Response),
	}
	ws.Subscribe(a.onEvent)
	return a, nil
}

// Run restores the last session, starts the tab watcher and blocks in the
// REPL until the user exits. Pending edits and the session are saved on the
// way out.
func (a *App) Run(ctx context.Context) error {
	defer a.db.Close()

	if err := a.ws.RestoreSession(ctx); err != nil {
		a.log.Warn(ctx, "failed to restore session", "err", err)
	}

	watchCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	go a.ws.WatchTabs(watchCtx, a.config.ValidateInterval)

	printlnFn("Welcome to fluxapi (type 'help' for commands)")
	runREPL(ctx, a, a.status, a.reader)

	cancel()
	return a.ws.Shutdown(context.WithoutCancel(ctx))
}

func (a *App) onEvent(e workspace.Event) {
	switch e.Kind {
	case workspace.EventValidation:
		a.println(warnStyle.Render(e.Message))
	case workspace.EventSaveFailed:
		a.println(warnStyle.Render("autosave failed: " + e.Message))
	case workspace.EventTabsEvicted:
		a.printf("closed %d tab(s) whose request was deleted\n", len(e.TabIDs))
	}
}
