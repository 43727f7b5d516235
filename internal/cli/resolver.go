package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/datasetutil/datasetutil/internal/core"
	"github.com/datasetutil/datasetutil/internal/model"
)

// Resolver fills in the parameters an action needs by prompting the user.
// Invalid answers are reported and asked again; there is no retry bound.
type Resolver struct {
	Prompter Prompter
	Out      io.Writer
}

// NewResolver returns a Resolver prompting through p.
func NewResolver(p Prompter, out io.Writer) *Resolver {
	return &Resolver{Prompter: p, Out: out}
}

// Resolve prompts for every field of the action's table that is still empty.
func (r *Resolver) Resolve(ctx context.Context, action model.Action, p *model.Params) error {
	var steps []func(context.Context, *model.Params) error
	switch action {
	case model.ActionLoad:
		steps = []func(context.Context, *model.Params) error{
			r.inputFile(action),
			r.dataset,
			r.datasetLabel,
			r.app,
			r.operation,
			r.fileEncoding,
			r.uploadFormat,
			r.mode,
		}
	case model.ActionDownloadXMD, model.ActionDownloadErrorFile:
		steps = []func(context.Context, *model.Params) error{r.dataset}
	case model.ActionUploadXMD:
		steps = []func(context.Context, *model.Params) error{r.inputFile(action), r.dataset}
	case model.ActionDetectEncoding:
		steps = []func(context.Context, *model.Params) error{r.inputFile(action)}
	default:
		return fmt.Errorf("%w: %q", ErrInvalidAction, p.ActionName)
	}

	p.Action = action
	if p.ActionName == "" {
		p.ActionName = action.String()
	}
	for _, step := range steps {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := step(ctx, p); err != nil {
			return err
		}
	}
	return nil
}

func (r *Resolver) inputFile(action model.Action) func(context.Context, *model.Params) error {
	return func(ctx context.Context, p *model.Params) error {
		for p.InputFile == "" {
			if err := ctx.Err(); err != nil {
				return err
			}
			answer, err := ask(r.Prompter, "Enter inputFile: ", true)
			if err != nil {
				return err
			}
			if _, err := core.ProbeFile(answer, action); err != nil {
				printErrorf(r.Out, "Inputfile {%s} is not valid: %v", answer, err)
				printBlank(r.Out)
				continue
			}
			p.InputFile = answer
		}
		return nil
	}
}

func (r *Resolver) dataset(_ context.Context, p *model.Params) error {
	if p.Dataset != "" {
		return nil
	}
	answer, err := ask(r.Prompter, "Enter dataset name: ", true)
	if err != nil {
		return err
	}
	p.Dataset = answer
	return nil
}

func (r *Resolver) datasetLabel(_ context.Context, p *model.Params) error {
	if p.DatasetLabel != "" {
		return nil
	}
	answer, err := ask(r.Prompter, "Enter datasetLabel (Optional): ", false)
	if err != nil {
		return err
	}
	p.DatasetLabel = answer
	return nil
}

func (r *Resolver) app(_ context.Context, p *model.Params) error {
	if p.App != "" {
		return nil
	}
	answer, err := ask(r.Prompter, "Enter datasetFolder (Optional): ", false)
	if err != nil {
		return err
	}
	p.App = answer
	return nil
}

func (r *Resolver) operation(ctx context.Context, p *model.Params) error {
	for p.Operation == "" {
		if err := ctx.Err(); err != nil {
			return err
		}
		answer, err := ask(r.Prompter, "Enter Operation (Default=Overwrite): ", false)
		if err != nil {
			return err
		}
		if answer == "" {
			p.Operation = model.OperationOverwrite
			break
		}
		op, ok := model.ParseOperation(answer)
		if !ok {
			printErrorf(r.Out, "Invalid Operation {%s} Must be Overwrite or Upsert or Append or Delete", answer)
			continue
		}
		p.Operation = op
	}
	return nil
}

func (r *Resolver) fileEncoding(ctx context.Context, p *model.Params) error {
	if p.FileEncoding != "" {
		return nil
	}
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		answer, err := ask(r.Prompter, "Enter fileEncoding (Optional): ", false)
		if err != nil {
			return err
		}
		if answer == "" || strings.EqualFold(answer, "auto") {
			p.FileEncoding = answer
			return nil
		}
		if _, err := core.LookupCharset(answer); err != nil {
			printErrorf(r.Out, "Invalid fileEncoding {%s}", answer)
			continue
		}
		p.FileEncoding = answer
		return nil
	}
}

func (r *Resolver) uploadFormat(ctx context.Context, p *model.Params) error {
	for p.UploadFormat == "" {
		if err := ctx.Err(); err != nil {
			return err
		}
		answer, err := ask(r.Prompter, "Parse file before uploading (Yes/No): ", false)
		if err != nil {
			return err
		}
		if answer == "" {
			p.UploadFormat = model.UploadFormatBinary
			break
		}
		if yes, ok := answerYesNo(answer); ok {
			if yes {
				p.UploadFormat = model.UploadFormatBinary
			} else {
				p.UploadFormat = model.UploadFormatCSV
			}
			break
		}
		if format, ok := model.ParseUploadFormat(answer); ok {
			p.UploadFormat = format
			break
		}
		printErrorf(r.Out, "Invalid answer {%s} Must be Yes or No", answer)
	}
	return nil
}

func (r *Resolver) mode(ctx context.Context, p *model.Params) error {
	for p.Mode == "" {
		if err := ctx.Err(); err != nil {
			return err
		}
		answer, err := ask(r.Prompter, "Enter mode (Default=None): ", false)
		if err != nil {
			return err
		}
		if answer == "" {
			p.Mode = model.ModeNone
			break
		}
		mode, ok := model.ParseMode(answer)
		if !ok {
			printErrorf(r.Out, "Invalid mode {%s} Must be 'incremental' or 'none'", answer)
			continue
		}
		p.Mode = mode
	}
	return nil
}
