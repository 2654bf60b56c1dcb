package cli

import (
	"bufio"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/dmitrijs2005/paperkeeper/internal/client/cache"
	"github.com/dmitrijs2005/paperkeeper/internal/client/catalog"
	"github.com/dmitrijs2005/paperkeeper/internal/client/client"
	"github.com/dmitrijs2005/paperkeeper/internal/client/config"
	"github.com/dmitrijs2005/paperkeeper/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/paperkeeper/internal/client/services"
	"github.com/dmitrijs2005/paperkeeper/internal/client/session"
	"github.com/dmitrijs2005/paperkeeper/internal/client/storage"
	"github.com/dmitrijs2005/paperkeeper/internal/filex"
	"github.com/dmitrijs2005/paperkeeper/internal/logging"
)

// timeNow is a test seam for the clock.
var timeNow = time.Now

type App struct {
	cfg       *config.Config
	log       logging.Logger
	db        *sql.DB
	session   *session.Session
	catalog   *catalog.Controller
	mutations *catalog.MutationManager
	papers    services.PaperService
	auth      services.AuthService
	prefs     *cache.Preferences
	reader    *bufio.Reader
	out       io.Writer
	started   bool
}

// NewApp opens local storage and wires the remote client, session and
// catalog. When cfg carries no ID token the user is asked for one on in.
func NewApp(ctx context.Context, cfg *config.Config, log logging.Logger, in io.Reader, out io.Writer) (*App, error) {
	if err := filex.EnsureParentDir(cfg.DBPath); err != nil {
		return nil, err
	}
	db, err := storage.Open(ctx, cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	repo := metadata.NewSQLiteRepository(db)

	reader := bufio.NewReader(in)
	token := cfg.IDToken
	if token == "" {
		if token, err = GetSecret(reader, "Paste your ID token (empty to continue signed out)", out); err != nil && !errors.Is(err, io.EOF) {
			_ = db.Close()
			return nil, err
		}
	}
	sess, err := session.FromIDToken(token)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	switched, err := cache.BindAccount(ctx, db, sess.Email())
	switch {
	case err != nil:
		log.Warn(ctx, "could not bind local data to account", "error", err)
	case switched:
		log.Info(ctx, "signed in as a different account, local data dropped")
	}

	remote, err := client.NewHTTPClient(cfg.ServerBaseURL, sess, cfg.RequestTimeout,
		client.WithTrustServerOrder(cfg.TrustServerOrder),
		client.WithLogger(log),
	)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	var checker session.Checker
	if cfg.IdentityEndpoint != "" {
		checker = client.NewIdentityClient(cfg.IdentityEndpoint, sess, cfg.RequestTimeout, log)
	}

	ctl := catalog.New(remote, cache.NewStore(repo, log), sess, catalog.Options{
		PageSize:        cfg.PageSize,
		SearchDebounce:  cfg.SearchDebounce,
		RefreshInterval: cfg.RefreshInterval,
		RequestTimeout:  cfg.RequestTimeout,
	}, log)

	return &App{
		cfg:       cfg,
		log:       log,
		db:        db,
		session:   sess,
		catalog:   ctl,
		mutations: catalog.NewMutationManager(ctl, remote, log),
		papers:    services.NewPaperService(remote, ctl, log),
		auth:      services.NewAuthService(sess, checker, session.DefaultSchedule, log),
		prefs:     cache.NewPreferences(repo),
		reader:    reader,
		out:       out,
	}, nil
}

// Run serves the catalog and blocks in the REPL until the user exits or ctx
// is cancelled.
func (a *App) Run(ctx context.Context) error {
	defer a.Close()

	fmt.Fprintln(a.out, "Welcome to paperkeeper (type 'help' for commands)")
	if a.session.Expired(timeNow()) {
		fmt.Fprintln(a.out, "Your ID token has expired; requests may be rejected.")
	}
	if a.session.Verified() {
		a.start(ctx)
	} else {
		fmt.Fprintln(a.out, "Your email is not verified yet. Verify it, then type 'verify'.")
	}

	runREPL(ctx, a, a.getStatus, a.reader)
	return nil
}

// start runs the cold load and prints the first list.
func (a *App) start(ctx context.Context) {
	if a.started {
		return
	}
	err := a.catalog.Start(ctx)
	if err != nil && !errors.Is(err, catalog.ErrAlreadyStarted) {
		fmt.Fprintf(a.out, "Could not reach the server: %v\n", err)
	}
	a.started = true
	a.printList()
}

// Close stops background work and releases the database.
func (a *App) Close() error {
	a.catalog.Stop()
	a.auth.CancelVerification()
	return a.db.Close()
}

func (a *App) getStatus() string {
	s := a.catalog.State()

	parts := ""
	if email := a.session.Email(); email != "" {
		parts = email + " "
	}
	if !a.session.Verified() {
		parts += "unverified "
	}
	if s.Query != "" {
		parts += fmt.Sprintf("search:%q ", s.Query)
	}
	parts += fmt.Sprintf("%d papers", len(s.Items))
	if s.FromCache {
		parts += " cached"
	}
	return "(" + parts + ")"
}
