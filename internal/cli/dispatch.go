package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/datasetutil/datasetutil/internal/config"
	"github.com/datasetutil/datasetutil/internal/core"
	"github.com/datasetutil/datasetutil/internal/model"
	"github.com/datasetutil/datasetutil/internal/provider"
)

// SessionRecorder records load sessions. *core.SessionLog implements it.
type SessionRecorder interface {
	Start(ctx context.Context, orgID, dataset string) (*core.Session, error)
	End(ctx context.Context, id string) error
	Fail(ctx context.Context, id, message string) error
}

// ConnectFunc returns the invocation's connection, logging in on first use.
type ConnectFunc func(ctx context.Context) (provider.Connection, error)

// Dispatcher runs one resolved action against its collaborator.
type Dispatcher struct {
	Providers provider.Set
	Connect   ConnectFunc
	// Sessions may be nil, in which case loads are not recorded.
	Sessions SessionRecorder
	Runtime  config.Runtime
	Out      io.Writer
}

// Dispatch validates p and performs its action. A nil error means success.
// p is not modified.
func (d *Dispatcher) Dispatch(ctx context.Context, p *model.Params) error {
	if !p.Action.Known() {
		printUsage(d.Out)
		return fmt.Errorf("%w: %q", ErrInvalidAction, p.ActionName)
	}
	if err := checkRequired(p); err != nil {
		return err
	}

	if p.InputFile != "" {
		if _, err := core.ProbeFile(p.InputFile, p.Action); err != nil {
			return &ActionError{Action: p.Action, Err: fmt.Errorf("Inputfile {%s} is not valid: %w", p.InputFile, err)}
		}
	}

	charset := ""
	if !p.AutoDetectEncoding() {
		name, err := core.CanonicalCharsetName(p.FileEncoding)
		if err != nil {
			return &ActionError{Action: p.Action, Err: err}
		}
		charset = name
	}

	slog.Debug("dispatching action", "action", p.Action.String(), "dataset", p.Dataset, "input_file", p.InputFile)

	err := recoverPanic(func() error {
		return d.run(ctx, p, charset)
	})
	if err != nil {
		var actionErr *ActionError
		if errors.As(err, &actionErr) {
			return err
		}
		return &ActionError{Action: p.Action, Err: err}
	}
	return nil
}

func (d *Dispatcher) run(ctx context.Context, p *model.Params, charset string) error {
	var err error
	switch p.Action {
	case model.ActionLoad:
		err = d.load(ctx, p, charset)
	case model.ActionDetectEncoding:
		err = d.Providers.Detector.DetectCharset(ctx, p.InputFile, d.Out)
	case model.ActionUploadXMD:
		err = d.withConnection(ctx, func(conn provider.Connection) error {
			return d.Providers.XMDUp.UploadXMD(ctx, conn, p.InputFile, p.Dataset)
		})
	case model.ActionDownloadXMD:
		err = d.withConnection(ctx, func(conn provider.Connection) error {
			return d.Providers.XMDDown.DownloadXMD(ctx, conn, p.Dataset)
		})
	case model.ActionDownloadErrorFile:
		err = d.withConnection(ctx, func(conn provider.Connection) error {
			return d.Providers.Errors.FetchJobsAndErrorFiles(ctx, conn, p.Dataset)
		})
	}
	return err
}

// recoverPanic runs fn and turns a panic into an ErrCollaboratorPanic error.
func recoverPanic(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("recovered panic", "panic", r)
			err = fmt.Errorf("%w: %v", ErrCollaboratorPanic, r)
		}
	}()
	return fn()
}

func checkRequired(p *model.Params) error {
	switch p.Action {
	case model.ActionLoad, model.ActionUploadXMD:
		if p.InputFile == "" {
			return missingField(p.Action, "inputFile")
		}
		if p.Dataset == "" {
			return missingField(p.Action, "dataset")
		}
	case model.ActionDetectEncoding:
		if p.InputFile == "" {
			return missingField(p.Action, "inputFile")
		}
	case model.ActionDownloadXMD, model.ActionDownloadErrorFile:
		if p.Dataset == "" {
			return missingField(p.Action, "dataset")
		}
	}
	return nil
}

func (d *Dispatcher) withConnection(ctx context.Context, fn func(provider.Connection) error) error {
	conn, err := d.Connect(ctx)
	if err != nil {
		return err
	}
	return fn(conn)
}

func (d *Dispatcher) load(ctx context.Context, p *model.Params, charset string) error {
	dataset, changed := core.SanitizeDatasetName(p.Dataset)
	if changed {
		printWarning(d.Out, "dataset name can only contain alpha-numeric or '_', must start with alpha, and cannot end in '__c'")
		printWarning(d.Out, "changing dataset name to: {%s}", dataset)
	}

	label := p.DatasetLabel
	if label == "" {
		label = p.Dataset
	}

	conn, err := d.Connect(ctx)
	if err != nil {
		return err
	}

	var session *core.Session
	if d.Sessions != nil {
		orgID, err := conn.OrganizationID(ctx)
		if err != nil {
			return fmt.Errorf("failed to get organization id: %w", err)
		}
		session, err = d.Sessions.Start(ctx, orgID, dataset)
		if err != nil {
			return fmt.Errorf("failed to start session: %w", err)
		}
	}

	req := provider.UploadRequest{
		InputFile:         p.InputFile,
		SchemaFile:        p.SchemaFile,
		Format:            p.UploadFormat,
		CodingErrorAction: d.Runtime.CodingErrorAction,
		Charset:           charset,
		Dataset:           dataset,
		App:               p.App,
		Label:             label,
		Operation:         p.Operation,
		UseBulkAPI:        p.UseBulkAPI,
		ChunkSizeMulti:    p.ChunkSizeMulti,
		NotificationLevel: p.NotificationLevel,
		NotificationEmail: p.NotificationEmail,
		Mode:              p.Mode,
		Ext:               d.Runtime.Ext,
	}
	var ok bool
	err = recoverPanic(func() error {
		var uploadErr error
		ok, uploadErr = d.Providers.Loader.UploadDataset(ctx, conn, req, d.Out)
		return uploadErr
	})
	switch {
	case err != nil:
		d.finishSession(ctx, session, err.Error())
		return err
	case !ok:
		d.finishSession(ctx, session, "Check sessionLog for details")
		return ErrUploadFailed
	}
	d.finishSession(ctx, session, "")
	printSuccess(d.Out, "Successfully uploaded {%s} to Dataset {%s}", p.InputFile, dataset)
	return nil
}

// finishSession ends the session, or fails it when message is set.
func (d *Dispatcher) finishSession(ctx context.Context, session *core.Session, message string) {
	if session == nil {
		return
	}
	var err error
	if message == "" {
		err = d.Sessions.End(ctx, session.ID)
	} else {
		err = d.Sessions.Fail(ctx, session.ID, message)
	}
	if err != nil {
		slog.Warn("failed to update session", "session", session.ID, "error", err)
	}
}
