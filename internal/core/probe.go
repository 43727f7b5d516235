package core

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"

	"github.com/datasetutil/datasetutil/internal/model"
)

// BinaryMagic is the header every pre-encoded binary dataset file starts with.
var BinaryMagic = []byte{'E', 'B', 'I', 'N', 0x01}

// binaryHeaderLen is the number of bytes sniffed from bin and gz payloads.
const binaryHeaderLen = 5

// SupportedExtensions lists the input file extensions accepted by ProbeFile.
var SupportedExtensions = []string{"csv", "txt", "bin", "gz", "json"}

// ProbedFile describes an input file that passed validation.
type ProbedFile struct {
	Path string
	Ext  string
	Size int64
	// Binary is set when the (decompressed) content carries BinaryMagic.
	Binary bool
}

// ProbeFile validates path as an input file for action.
//
// Every load of a bin or gz file sniffs the first bytes of the payload;
// json files are parsed as a generic document regardless of action.
// The file is never left open.
func ProbeFile(path string, action model.Action) (*ProbedFile, error) {
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return nil, &FileError{Path: path, Kind: ErrNotFound, Err: err}
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, &FileError{Path: path, Kind: ErrNotFound, Err: err}
	}
	f.Close()

	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	if !isSupportedExtension(ext) {
		return nil, &FileError{Path: path, Kind: ErrUnsupportedExtension}
	}

	probed := &ProbedFile{Path: path, Ext: ext, Size: info.Size()}

	if action == model.ActionLoad && (ext == "bin" || ext == "gz") {
		header, err := readHeader(path, ext == "gz")
		if err != nil {
			return nil, err
		}
		probed.Binary = bytes.Equal(header, BinaryMagic)
		if !probed.Binary && ext == "bin" {
			return nil, &FileError{Path: path, Kind: ErrInvalidBinaryFormat}
		}
	}

	if ext == "json" {
		if err := checkJSON(path); err != nil {
			return nil, err
		}
	}

	slog.Debug("input file validated", "path", path, "ext", ext, "size", probed.Size, "binary", probed.Binary)
	return probed, nil
}

func isSupportedExtension(ext string) bool {
	for _, e := range SupportedExtensions {
		if e == ext {
			return true
		}
	}
	return false
}

// readHeader returns the first binaryHeaderLen bytes of the file content,
// decompressing first when gzipped.
func readHeader(path string, gzipped bool) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &FileError{Path: path, Kind: ErrNotFound, Err: err}
	}
	defer f.Close()

	var r io.Reader = f
	if gzipped {
		zr, err := gzip.NewReader(f)
		if err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
				return nil, &FileError{Path: path, Kind: ErrTruncatedFile, Err: err}
			}
			return nil, &FileError{Path: path, Kind: ErrInvalidBinaryFormat, Err: err}
		}
		defer zr.Close()
		r = zr
	}

	header := make([]byte, binaryHeaderLen)
	if _, err := io.ReadFull(r, header); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, &FileError{Path: path, Kind: ErrTruncatedFile}
		}
		return nil, &FileError{Path: path, Kind: ErrTruncatedFile, Err: err}
	}
	return header, nil
}

// checkJSON decodes the file as a generic JSON document.
func checkJSON(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return &FileError{Path: path, Kind: ErrNotFound, Err: err}
	}
	defer f.Close()

	var doc any
	if err := json.NewDecoder(f).Decode(&doc); err != nil {
		return &FileError{Path: path, Kind: ErrInvalidJSON, Err: err}
	}
	return nil
}
