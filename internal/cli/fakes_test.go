package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/datasetutil/datasetutil/internal/core"
	"github.com/datasetutil/datasetutil/internal/provider"
)

// scriptedPrompter answers prompts from a fixed list.
type scriptedPrompter struct {
	answers []string
	prompts []string
}

func newScriptedPrompter(answers ...string) *scriptedPrompter {
	return &scriptedPrompter{answers: answers}
}

func (s *scriptedPrompter) Prompt(message string) (string, error) {
	s.prompts = append(s.prompts, message)
	if len(s.answers) == 0 {
		return "", ErrInputClosed
	}
	answer := s.answers[0]
	s.answers = s.answers[1:]
	return answer, nil
}

func (s *scriptedPrompter) PromptPassword(message string) (string, error) {
	return s.Prompt(message)
}

type fakeConn struct {
	endpoint string
}

func (c *fakeConn) Endpoint() string { return c.endpoint }

func (c *fakeConn) OrganizationID(ctx context.Context) (string, error) {
	return "00D000000000001", nil
}

// fakeProviders implements every collaborator and records what it was asked to do.
type fakeProviders struct {
	calls   []string
	creds   []provider.Credentials
	uploads []provider.UploadRequest

	loginErr  error
	uploadOK  bool
	uploadErr error
	serveErr  error
	// panics makes the named collaborator call write to a nil map.
	panics string
}

func (f *fakeProviders) maybePanic(call string) {
	if f.panics == call {
		var counts map[string]int
		counts[call]++
	}
}

func (f *fakeProviders) set() provider.Set {
	return provider.Set{
		Auth:     f,
		Loader:   f,
		XMDUp:    f,
		XMDDown:  f,
		Errors:   f,
		Detector: f,
		Server:   f,
	}
}

func (f *fakeProviders) Login(ctx context.Context, creds provider.Credentials) (provider.Connection, error) {
	f.calls = append(f.calls, "login")
	f.creds = append(f.creds, creds)
	if f.loginErr != nil {
		return nil, f.loginErr
	}
	return &fakeConn{endpoint: creds.Endpoint}, nil
}

func (f *fakeProviders) UploadDataset(ctx context.Context, conn provider.Connection, req provider.UploadRequest, out io.Writer) (bool, error) {
	f.calls = append(f.calls, "uploadDataset")
	f.uploads = append(f.uploads, req)
	f.maybePanic("uploadDataset")
	return f.uploadOK, f.uploadErr
}

func (f *fakeProviders) UploadXMD(ctx context.Context, conn provider.Connection, file, dataset string) error {
	f.calls = append(f.calls, "uploadXMD:"+dataset)
	return nil
}

func (f *fakeProviders) DownloadXMD(ctx context.Context, conn provider.Connection, dataset string) error {
	f.calls = append(f.calls, "downloadXMD:"+dataset)
	return nil
}

func (f *fakeProviders) FetchJobsAndErrorFiles(ctx context.Context, conn provider.Connection, dataset string) error {
	f.calls = append(f.calls, "downloadErrorFile:"+dataset)
	return nil
}

func (f *fakeProviders) DetectCharset(ctx context.Context, file string, out io.Writer) error {
	f.calls = append(f.calls, "detectEncoding:"+filepath.Base(file))
	f.maybePanic("detectEncoding")
	return nil
}

func (f *fakeProviders) Serve(ctx context.Context, args []string) error {
	f.calls = append(f.calls, "serve")
	return f.serveErr
}

// fakeSessions is an in-memory SessionRecorder.
type fakeSessions struct {
	started []string
	ended   []string
	failed  map[string]string
	next    int
}

func (s *fakeSessions) Start(ctx context.Context, orgID, dataset string) (*core.Session, error) {
	s.next++
	s.started = append(s.started, dataset)
	return &core.Session{ID: fmt.Sprintf("session-%d", s.next), OrgID: orgID, Dataset: dataset, State: core.SessionRunning}, nil
}

func (s *fakeSessions) End(ctx context.Context, id string) error {
	s.ended = append(s.ended, id)
	return nil
}

func (s *fakeSessions) Fail(ctx context.Context, id, message string) error {
	if s.failed == nil {
		s.failed = make(map[string]string)
	}
	s.failed[id] = message
	return nil
}

// writeFile creates name in a temp dir with content and returns its path.
func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
	return path
}
