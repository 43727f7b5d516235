package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/datasetutil/datasetutil/internal/config"
	"github.com/datasetutil/datasetutil/internal/core"
	"github.com/datasetutil/datasetutil/internal/logging"
	"github.com/datasetutil/datasetutil/internal/model"
	"github.com/datasetutil/datasetutil/internal/provider"
)

// Exit codes returned by App.Run.
const (
	ExitOK      = 0
	ExitFailure = -1
)

// App runs one datasetutil invocation.
type App struct {
	Config    *config.Config
	Providers provider.Set
	Prompter  Prompter
	Out       io.Writer

	// Sessions overrides the session store opened from Config.
	Sessions SessionRecorder
}

// NewApp returns an App reading from stdin and writing to stdout.
func NewApp(cfg *config.Config, providers provider.Set) *App {
	return &App{
		Config:    cfg,
		Providers: providers,
		Prompter:  NewConsolePrompter(os.Stdin, os.Stdout),
		Out:       os.Stdout,
	}
}

// Run executes the invocation described by args and returns the exit code.
func (a *App) Run(ctx context.Context, args []string) int {
	printBanner(a.Out)

	inv, err := ParseArgs(args, a.Out)
	if err != nil {
		printUsage(a.Out)
		printError(a.Out, err)
		return ExitFailure
	}
	if inv.HelpRequested {
		printUsage(a.Out)
		return ExitOK
	}

	if err := acceptLicense(a.Config.LicenseFile, inv.Runtime.Server, a.Prompter, a.Out); err != nil {
		if errors.Is(err, ErrLicenseRefused) {
			fmt.Fprintln(a.Out, "You do not have permission to use this software. Please delete it from this computer")
		} else {
			printError(a.Out, err)
		}
		return ExitFailure
	}

	closer := logging.Setup(logging.Options{
		File:  a.Config.LogFile,
		Level: a.Config.LogLevel,
		Debug: inv.Runtime.Debug,
	})
	defer closer.Close()

	if inv.Runtime.Server {
		return a.serve(ctx, args)
	}

	params := inv.Params
	if err := a.resolveCredentials(params); err != nil {
		printError(a.Out, err)
		return ExitFailure
	}
	if err := a.resolveEndpoint(params); err != nil {
		printError(a.Out, err)
		return ExitFailure
	}

	sessions, closeSessions := a.openSessions(ctx)
	defer closeSessions()

	d := &Dispatcher{
		Providers: a.Providers,
		Connect:   a.connector(params, inv.Runtime),
		Sessions:  sessions,
		Runtime:   inv.Runtime,
		Out:       a.Out,
	}

	if params.Action == model.ActionUnset {
		return a.interactive(ctx, d)
	}

	if err := d.Dispatch(ctx, params); err != nil {
		printError(a.Out, err)
		return ExitFailure
	}
	return ExitOK
}

func (a *App) serve(ctx context.Context, args []string) int {
	fmt.Fprintln(a.Out)
	fmt.Fprintln(a.Out, "\n"+rule)
	if err := a.Providers.Server.Serve(ctx, args); err != nil {
		printError(a.Out, err)
	}
	fmt.Fprintln(a.Out, "Server ended, exiting.....")
	printEndBanner(a.Out)
	fmt.Fprintln(a.Out, "QUITAPP")
	return ExitOK
}

// resolveCredentials prompts for the login inputs that were not given.
// Answering -1 to the username prompt switches to a session id.
func (a *App) resolveCredentials(p *model.Params) error {
	if p.SessionID != "" {
		return nil
	}
	var err error
	if strings.TrimSpace(p.Username) == "" {
		if p.Username, err = ask(a.Prompter, "Enter salesforce username: ", true); err != nil {
			return err
		}
	}
	if p.Username == "-1" {
		if p.SessionID, err = ask(a.Prompter, "Enter salesforce sessionId: ", true); err != nil {
			return err
		}
		p.Username = ""
		p.Password = ""
		return nil
	}
	if strings.TrimSpace(p.Password) == "" && p.JKSFile == "" {
		if p.Password, err = askPassword(a.Prompter, "Enter salesforce password: ", true); err != nil {
			return err
		}
	}
	return nil
}

// resolveEndpoint settles and normalizes the service endpoint.
// Prompted endpoints are asked again when invalid; a flag value is final.
func (a *App) resolveEndpoint(p *model.Params) error {
	prompted := false
	if p.Endpoint == "" || (p.SessionID != "" && core.CheckSessionEndpoint(p.Endpoint) != nil) {
		if err := a.promptEndpoint(p); err != nil {
			return err
		}
		prompted = true
	}

	for {
		endpoint, err := core.NormalizeEndpoint(p.Endpoint)
		if err == nil {
			p.Endpoint = endpoint
			return nil
		}
		if !prompted {
			return err
		}
		printError(a.Out, err)
		p.Endpoint = ""
		if err := a.promptEndpoint(p); err != nil {
			return err
		}
	}
}

func (a *App) promptEndpoint(p *model.Params) error {
	if p.SessionID == "" {
		answer, err := ask(a.Prompter, "Enter salesforce instance url (default=prod): ", false)
		if err != nil {
			return err
		}
		p.Endpoint = answer
		if p.Endpoint == "" {
			p.Endpoint = core.DefaultEndpoint
		}
		return nil
	}

	for {
		if p.Endpoint == "" {
			answer, err := ask(a.Prompter, "Enter salesforce instance url: ", true)
			if err != nil {
				return err
			}
			p.Endpoint = answer
		}
		err := core.CheckSessionEndpoint(p.Endpoint)
		if err == nil {
			return nil
		}
		printError(a.Out, err)
		p.Endpoint = ""
	}
}

// connector logs in on first use and keeps the connection for the invocation.
func (a *App) connector(p *model.Params, rt config.Runtime) ConnectFunc {
	creds := provider.Credentials{
		Username:    p.Username,
		Password:    p.Password,
		Token:       p.Token,
		SessionID:   p.SessionID,
		JKSFile:     p.JKSFile,
		JKSPassword: p.JKSPassword,
		ClientID:    p.ClientID,
		Endpoint:    p.Endpoint,
		Debug:       rt.Debug,
	}
	var (
		conn provider.Connection
		err  error
		done bool
	)
	return func(ctx context.Context) (provider.Connection, error) {
		if !done {
			slog.Info("logging in", "endpoint", creds.Endpoint, "username", creds.Username)
			conn, err = a.Providers.Auth.Login(ctx, creds)
			if err != nil {
				err = fmt.Errorf("%w: %w", ErrLoginFailed, err)
			} else {
				slog.Info("logged in", "endpoint", conn.Endpoint())
			}
			done = true
		}
		return conn, err
	}
}

// openSessions returns the session recorder for this invocation.
// A store that cannot be opened disables session recording.
func (a *App) openSessions(ctx context.Context) (SessionRecorder, func()) {
	if a.Sessions != nil {
		return a.Sessions, func() {}
	}
	if err := os.MkdirAll(a.Config.HomeDir, 0o700); err != nil {
		slog.Warn("session log disabled", "error", err)
		return nil, func() {}
	}
	db, err := core.OpenEncryptedDB(a.Config.SessionDBPath(), a.Config.Passphrase)
	if err != nil {
		slog.Warn("session log disabled", "error", err)
		return nil, func() {}
	}
	sessionLog := core.NewSessionLog(db.DB())
	if err := sessionLog.EnsureSchema(ctx); err != nil {
		slog.Warn("session log disabled", "error", err)
		db.Close()
		return nil, func() {}
	}
	slog.Debug("session log opened", "path", db.Path(), "encrypted", db.IsEncrypted())
	return sessionLog, func() { db.Close() }
}

// interactive runs the action menu until the user exits.
func (a *App) interactive(ctx context.Context, d *Dispatcher) int {
	resolver := NewResolver(a.Prompter, a.Out)
	for {
		action, err := a.chooseAction()
		if errors.Is(err, ErrInputClosed) {
			return ExitOK
		}
		if err != nil {
			printError(a.Out, err)
			return ExitFailure
		}
		if action == model.ActionUnset {
			return ExitOK
		}

		params := &model.Params{}
		if err := resolver.Resolve(ctx, action, params); err != nil {
			if errors.Is(err, ErrInputClosed) {
				return ExitOK
			}
			printError(a.Out, err)
			return ExitFailure
		}

		if err := d.Dispatch(ctx, params); err != nil {
			printError(a.Out, err)
			if errors.Is(err, ErrLoginFailed) {
				return ExitFailure
			}
		}
	}
}

// chooseAction shows the action menu. ActionUnset means exit.
func (a *App) chooseAction() (model.Action, error) {
	actions := model.Actions()
	fmt.Fprintln(a.Out)
	fmt.Fprintln(a.Out, "Available Datasetutil Actions: ")
	for i, action := range actions {
		fmt.Fprintf(a.Out, " %3d. %s\n", i+1, action.Description())
	}
	fmt.Fprintln(a.Out)

	for {
		answer, err := a.Prompter.Prompt("Enter Action number (0  = Exit): ")
		if err != nil {
			return model.ActionUnset, err
		}
		if answer == "" {
			continue
		}
		choice, err := strconv.Atoi(answer)
		if err != nil {
			continue
		}
		if choice == 0 {
			return model.ActionUnset, nil
		}
		if choice > 0 && choice <= len(actions) {
			return actions[choice-1], nil
		}
	}
}
