// Package core provides the validation engine for datasetutil:
// input file probing, endpoint normalization, dataset-name sanitizing,
// charset lookup and the session log.
package core

import (
	"errors"
	"fmt"
)

// File validation kinds. Test with errors.Is against a *FileError.
var (
	ErrNotFound             = errors.New("file not found")
	ErrUnsupportedExtension = errors.New("unsupported file extension")
	ErrTruncatedFile        = errors.New("file is too short")
	ErrInvalidBinaryFormat  = errors.New("not a valid binary file")
	ErrInvalidJSON          = errors.New("not valid json")
)

// Endpoint validation kinds. Test with errors.Is against an *EndpointError.
var (
	ErrMalformedURL     = errors.New("endpoint is not a valid URL")
	ErrInsecureEndpoint = errors.New("UNSUPPORTED_CLIENT: HTTPS Required in endpoint")
	ErrLoginEndpoint    = errors.New("endpoint must be the actual serviceURL and not the login url")
)

// ErrInvalidCharset is returned for an unrecognized character-set name.
var ErrInvalidCharset = errors.New("invalid fileEncoding")

// FileError reports why an input file was rejected.
type FileError struct {
	Path string
	Kind error
	Err  error
}

func (e *FileError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("inputFile {%s}: %v: %v", e.Path, e.Kind, e.Err)
	}
	return fmt.Sprintf("inputFile {%s}: %v", e.Path, e.Kind)
}

func (e *FileError) Unwrap() []error {
	if e.Err != nil {
		return []error{e.Kind, e.Err}
	}
	return []error{e.Kind}
}

// EndpointError reports why an endpoint was rejected.
type EndpointError struct {
	Endpoint string
	Kind     error
	Err      error
}

func (e *EndpointError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("invalid endpoint {%s}: %v: %v", e.Endpoint, e.Kind, e.Err)
	}
	return fmt.Sprintf("invalid endpoint {%s}: %v", e.Endpoint, e.Kind)
}

func (e *EndpointError) Unwrap() []error {
	if e.Err != nil {
		return []error{e.Kind, e.Err}
	}
	return []error{e.Kind}
}
