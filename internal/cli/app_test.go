package cli

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/datasetutil/datasetutil/internal/config"
	"github.com/datasetutil/datasetutil/internal/core"
)

type appFixture struct {
	app      *App
	fakes    *fakeProviders
	sessions *fakeSessions
	prompter *scriptedPrompter
	out      *bytes.Buffer
	cfg      *config.Config
}

// newAppFixture returns an App whose license was already accepted.
func newAppFixture(t *testing.T, answers ...string) *appFixture {
	t.Helper()
	home := t.TempDir()
	cfg := &config.Config{
		HomeDir:     home,
		LogLevel:    "info",
		LicenseFile: filepath.Join(home, "license.lic"),
	}
	require.NoError(t, os.WriteFile(cfg.LicenseFile, []byte("accepted"), 0o644))

	f := &appFixture{
		fakes:    &fakeProviders{uploadOK: true},
		sessions: &fakeSessions{},
		prompter: newScriptedPrompter(answers...),
		out:      &bytes.Buffer{},
		cfg:      cfg,
	}
	f.app = &App{
		Config:    cfg,
		Providers: f.fakes.set(),
		Prompter:  f.prompter,
		Out:       f.out,
		Sessions:  f.sessions,
	}
	return f
}

func (f *appFixture) run(args ...string) int {
	return f.app.Run(context.Background(), args)
}

func TestRunLoadWithoutInputFileFails(t *testing.T) {
	f := newAppFixture(t)
	code := f.run("--action", "load", "--u", "user@example.com", "--p", "secret", "--dataset", "sales")

	assert.Equal(t, ExitFailure, code)
	assert.Empty(t, f.fakes.calls)
	assert.Empty(t, f.prompter.prompts)
	assert.Contains(t, f.out.String(), "ERROR: load failed: required parameter missing: inputFile must be specified")
}

func TestRunUnknownFlagFailsBeforeAnyCollaborator(t *testing.T) {
	f := newAppFixture(t)
	code := f.run("--action", "load", "--bogus", "x", "--u", "user@example.com")

	assert.Equal(t, ExitFailure, code)
	assert.Empty(t, f.fakes.calls)
	assert.Empty(t, f.prompter.prompts)
	text := f.out.String()
	assert.Contains(t, text, "Usage:")
	assert.Contains(t, text, "ERROR: Invalid argument: --bogus")
}

func TestRunHelp(t *testing.T) {
	f := newAppFixture(t)
	assert.Equal(t, ExitOK, f.run("--help"))
	assert.Contains(t, f.out.String(), "Usage Example 1")
	assert.Empty(t, f.fakes.calls)
}

func TestRunLoad(t *testing.T) {
	f := newAppFixture(t)
	input := writeFile(t, "sales.csv", "a,b\n1,2\n")

	code := f.run("--action", "load", "--u", "user@example.com", "--p", "secret",
		"--inputFile", input, "--dataset", "My Dataset!", "--codingErrorAction", "ignore", "--ext", "true")

	require.Equal(t, ExitOK, code, f.out.String())
	assert.Equal(t, []string{"login", "uploadDataset"}, f.fakes.calls)
	require.Len(t, f.fakes.creds, 1)
	assert.Equal(t, core.DefaultEndpoint, f.fakes.creds[0].Endpoint)
	assert.Equal(t, "secret", f.fakes.creds[0].Password)

	require.Len(t, f.fakes.uploads, 1)
	assert.Equal(t, "My_Dataset", f.fakes.uploads[0].Dataset)
	assert.EqualValues(t, "IGNORE", f.fakes.uploads[0].CodingErrorAction)
	assert.True(t, f.fakes.uploads[0].Ext)
	assert.Equal(t, []string{"session-1"}, f.sessions.ended)
}

func TestRunLoginFailure(t *testing.T) {
	f := newAppFixture(t)
	f.fakes.loginErr = errors.New("INVALID_LOGIN")

	code := f.run("--action", "downloadXMD", "--u", "user@example.com", "--p", "secret", "--dataset", "sales")
	assert.Equal(t, ExitFailure, code)
	assert.Equal(t, []string{"login"}, f.fakes.calls)
	assert.Contains(t, f.out.String(), "login failed: INVALID_LOGIN")
}

func TestRunInsecureEndpointFlagFails(t *testing.T) {
	f := newAppFixture(t)
	code := f.run("--action", "downloadXMD", "--u", "user@example.com", "--p", "secret",
		"--endpoint", "http://example.com", "--dataset", "sales")

	assert.Equal(t, ExitFailure, code)
	assert.Empty(t, f.fakes.calls)
	assert.Contains(t, f.out.String(), "ERROR:")
}

func TestRunPromptsForCredentials(t *testing.T) {
	f := newAppFixture(t, "user@example.com", "", "secret", "test")

	code := f.run("--action", "downloadXMD", "--dataset", "sales")
	require.Equal(t, ExitOK, code, f.out.String())

	assert.Equal(t, []string{
		"Enter salesforce username: ",
		"Enter salesforce password: ",
		"Enter salesforce password: ",
		"Enter salesforce instance url (default=prod): ",
	}, f.prompter.prompts)
	require.Len(t, f.fakes.creds, 1)
	assert.Equal(t, "user@example.com", f.fakes.creds[0].Username)
	assert.Equal(t, core.SandboxEndpoint(), f.fakes.creds[0].Endpoint)
}

func TestRunSessionIDEndpoint(t *testing.T) {
	f := newAppFixture(t,
		"-1",
		"00Dsession",
		"https://login.salesforce.com",
		"https://na1.my.salesforce.com",
	)

	code := f.run("--action", "downloadErrorFile", "--dataset", "sales")
	require.Equal(t, ExitOK, code, f.out.String())

	require.Len(t, f.fakes.creds, 1)
	creds := f.fakes.creds[0]
	assert.Empty(t, creds.Username)
	assert.Equal(t, "00Dsession", creds.SessionID)
	assert.Equal(t, "https://na1.my.salesforce.com/services/Soap/u/31.0", creds.Endpoint)
	assert.Contains(t, f.out.String(), "ERROR:")
	assert.Equal(t, []string{"login", "downloadErrorFile:sales"}, f.fakes.calls)
}

func TestRunSessionIDLoginEndpointFlagPrompts(t *testing.T) {
	f := newAppFixture(t, "https://na2.my.salesforce.com")

	code := f.run("--action", "downloadXMD", "--dataset", "sales",
		"--sessionId", "00Dsession", "--endpoint", "https://login.salesforce.com")
	require.Equal(t, ExitOK, code, f.out.String())

	assert.Equal(t, []string{"Enter salesforce instance url: "}, f.prompter.prompts)
	assert.Contains(t, f.out.String(), "ERROR:")
	require.Len(t, f.fakes.creds, 1)
	assert.Equal(t, "https://na2.my.salesforce.com/services/Soap/u/31.0", f.fakes.creds[0].Endpoint)
}

func TestRunInteractiveSurvivesCollaboratorPanic(t *testing.T) {
	input := writeFile(t, "sales.csv", "a\n1\n")
	f := newAppFixture(t, "4", input, "0")
	f.fakes.panics = "detectEncoding"

	code := f.run("--u", "user@example.com", "--p", "secret")
	assert.Equal(t, ExitOK, code)
	assert.Equal(t, []string{"detectEncoding:sales.csv"}, f.fakes.calls)
	assert.Contains(t, f.out.String(), "ERROR: detectEncoding failed: unexpected failure")
}

func TestRunInteractiveMenu(t *testing.T) {
	input := writeFile(t, "sales.csv", "a\n1\n")
	f := newAppFixture(t,
		"",    // menu: blank is ignored
		"9",   // out of range
		"4",   // detectEncoding
		input, // inputFile
		"3",   // uploadXMD
		input,
		"sales",
		"0",
	)

	code := f.run("--u", "user@example.com", "--p", "secret")
	require.Equal(t, ExitOK, code, f.out.String())

	assert.Equal(t, []string{"detectEncoding:sales.csv", "login", "uploadXMD:sales"}, f.fakes.calls)
	assert.Contains(t, f.out.String(), "Available Datasetutil Actions: ")
	assert.Contains(t, f.out.String(), "   4. Detect file encoding")
}

func TestRunInteractiveEndOfInput(t *testing.T) {
	f := newAppFixture(t)
	code := f.run("--u", "user@example.com", "--p", "secret")
	assert.Equal(t, ExitOK, code)
	assert.Empty(t, f.fakes.calls)
}

func TestRunServerMode(t *testing.T) {
	f := newAppFixture(t)
	code := f.run("--server", "true")
	assert.Equal(t, ExitOK, code)
	assert.Equal(t, []string{"serve"}, f.fakes.calls)
	assert.Contains(t, f.out.String(), "QUITAPP")
}

func TestRunLicense(t *testing.T) {
	t.Run("refused", func(t *testing.T) {
		f := newAppFixture(t, "later", "no")
		require.NoError(t, os.Remove(f.cfg.LicenseFile))

		code := f.run("--action", "detectEncoding")
		assert.Equal(t, ExitFailure, code)
		assert.Contains(t, f.out.String(), "You do not have permission to use this software")
		assert.NoFileExists(t, f.cfg.LicenseFile)
		assert.Len(t, f.prompter.prompts, 2)
	})

	t.Run("accepted", func(t *testing.T) {
		input := writeFile(t, "sales.csv", "a\n1\n")
		f := newAppFixture(t, "Yes")
		require.NoError(t, os.Remove(f.cfg.LicenseFile))

		code := f.run("--action", "detectEncoding", "--inputFile", input, "--u", "user@example.com", "--p", "secret")
		assert.Equal(t, ExitOK, code)
		assert.FileExists(t, f.cfg.LicenseFile)
		assert.Equal(t, []string{"detectEncoding:sales.csv"}, f.fakes.calls)
	})

	t.Run("implied in server mode", func(t *testing.T) {
		f := newAppFixture(t)
		require.NoError(t, os.Remove(f.cfg.LicenseFile))

		assert.Equal(t, ExitOK, f.run("--server", "true"))
		assert.FileExists(t, f.cfg.LicenseFile)
		assert.Empty(t, f.prompter.prompts)
	})
}
