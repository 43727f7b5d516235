// Package provider defines the boundary to the analytics platform.
// The CLI core only talks to these interfaces; it does not interpret
// collaborator internals beyond success, failure and returned errors.
package provider

import (
	"context"
	"errors"
	"io"

	"github.com/datasetutil/datasetutil/internal/model"
)

// ErrNotConfigured is returned by collaborators that have no backing client.
var ErrNotConfigured = errors.New("platform client not configured")

// Credentials are the login inputs resolved from flags and prompts.
// Either SessionID or Username must be set.
type Credentials struct {
	Username    string
	Password    string
	Token       string
	SessionID   string
	JKSFile     string
	JKSPassword string
	ClientID    string
	Endpoint    string
	Debug       bool
}

// Connection is an authenticated handle to one org.
// It is owned by the caller for the whole invocation.
type Connection interface {
	// Endpoint returns the service endpoint the connection was opened against.
	Endpoint() string

	// OrganizationID returns the id of the org the user logged into.
	OrganizationID(ctx context.Context) (string, error)
}

// Authenticator opens connections.
type Authenticator interface {
	Login(ctx context.Context, creds Credentials) (Connection, error)
}

// UploadRequest carries everything the dataset loader needs.
type UploadRequest struct {
	InputFile         string
	SchemaFile        string
	Format            model.UploadFormat
	CodingErrorAction model.CodingErrorAction
	// Charset is empty when the file encoding should be detected.
	Charset           string
	Dataset           string
	App               string
	Label             string
	Operation         model.Operation
	UseBulkAPI        bool
	ChunkSizeMulti    int
	NotificationLevel model.NotificationLevel
	NotificationEmail string
	Mode              model.Mode
	// Ext enables the loader's extended upload behaviour.
	Ext bool
}

// DatasetLoader uploads a file into a dataset.
// A false result without error means the upload ran but did not succeed.
type DatasetLoader interface {
	UploadDataset(ctx context.Context, conn Connection, req UploadRequest, out io.Writer) (bool, error)
}

// XMDUploader uploads a user XMD json file for a dataset.
type XMDUploader interface {
	UploadXMD(ctx context.Context, conn Connection, file, dataset string) error
}

// XMDDownloader downloads all XMD json files of a dataset.
type XMDDownloader interface {
	DownloadXMD(ctx context.Context, conn Connection, dataset string) error
}

// ErrorReportFetcher fetches the jobs and error files of a dataset.
type ErrorReportFetcher interface {
	FetchJobsAndErrorFiles(ctx context.Context, conn Connection, dataset string) error
}

// CharsetDetector reports the likely encoding of a local file.
type CharsetDetector interface {
	DetectCharset(ctx context.Context, file string, out io.Writer) error
}

// Server runs the long-running server mode.
type Server interface {
	Serve(ctx context.Context, args []string) error
}

// Set bundles the collaborators one invocation needs.
type Set struct {
	Auth     Authenticator
	Loader   DatasetLoader
	XMDUp    XMDUploader
	XMDDown  XMDDownloader
	Errors   ErrorReportFetcher
	Detector CharsetDetector
	Server   Server
}
