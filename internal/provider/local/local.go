// Package local provides the collaborators that need no remote client.
// Charset detection runs on the local file; every remote operation
// reports provider.ErrNotConfigured until a platform client is linked in.
package local

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/datasetutil/datasetutil/internal/core"
	"github.com/datasetutil/datasetutil/internal/provider"
)

// Provider implements every collaborator interface.
type Provider struct{}

// New returns a provider.Set backed by the local provider.
func New() provider.Set {
	p := &Provider{}
	return provider.Set{
		Auth:     p,
		Loader:   p,
		XMDUp:    p,
		XMDDown:  p,
		Errors:   p,
		Detector: p,
		Server:   p,
	}
}

// Login always fails: there is no platform client in this build.
func (p *Provider) Login(ctx context.Context, creds provider.Credentials) (provider.Connection, error) {
	return nil, fmt.Errorf("login to %s: %w", creds.Endpoint, provider.ErrNotConfigured)
}

// UploadDataset is not available locally.
func (p *Provider) UploadDataset(ctx context.Context, conn provider.Connection, req provider.UploadRequest, out io.Writer) (bool, error) {
	return false, fmt.Errorf("upload dataset %s: %w", req.Dataset, provider.ErrNotConfigured)
}

// UploadXMD is not available locally.
func (p *Provider) UploadXMD(ctx context.Context, conn provider.Connection, file, dataset string) error {
	return fmt.Errorf("upload xmd for %s: %w", dataset, provider.ErrNotConfigured)
}

// DownloadXMD is not available locally.
func (p *Provider) DownloadXMD(ctx context.Context, conn provider.Connection, dataset string) error {
	return fmt.Errorf("download xmd for %s: %w", dataset, provider.ErrNotConfigured)
}

// FetchJobsAndErrorFiles is not available locally.
func (p *Provider) FetchJobsAndErrorFiles(ctx context.Context, conn provider.Connection, dataset string) error {
	return fmt.Errorf("fetch error files for %s: %w", dataset, provider.ErrNotConfigured)
}

// Serve is not available locally.
func (p *Provider) Serve(ctx context.Context, args []string) error {
	return fmt.Errorf("server mode: %w", provider.ErrNotConfigured)
}

// DetectCharset prints the detected encoding of file to out.
func (p *Provider) DetectCharset(ctx context.Context, file string, out io.Writer) error {
	f, err := os.Open(file)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", file, err)
	}
	defer f.Close()

	guess, err := core.DetectCharset(f)
	if err != nil {
		return err
	}

	confidence := "probable"
	if guess.Certain {
		confidence = "certain"
	}
	fmt.Fprintf(out, "Detected encoding of {%s}: %s (%s)\n", file, guess.Name, confidence)
	return nil
}
