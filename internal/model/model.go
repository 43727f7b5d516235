// Package model defines the domain models for datasetutil.
// Params is the per-invocation parameter store; the enums below are the
// closed value sets the parser and resolver validate against.
package model

import (
	"strings"
)

// Action identifies one of the operations datasetutil can drive.
// The zero value means the action has not been resolved yet.
type Action int

const (
	ActionUnset Action = iota
	ActionLoad
	ActionDownloadXMD
	ActionUploadXMD
	ActionDetectEncoding
	ActionDownloadErrorFile
	// ActionUnknown is a name that matched none of the known actions.
	ActionUnknown
)

// actionInfo is the static action table, in menu order.
var actionInfo = []struct {
	action      Action
	name        string
	description string
}{
	{ActionLoad, "load", "Load CSV"},
	{ActionDownloadXMD, "downloadXMD", "Download All XMD Json Files"},
	{ActionUploadXMD, "uploadXMD", "Upload User XMD Json File"},
	{ActionDetectEncoding, "detectEncoding", "Detect file encoding"},
	{ActionDownloadErrorFile, "downloadErrorFile", "Fetch CSV Upload Error Report"},
}

// Actions returns the known actions in menu order.
func Actions() []Action {
	out := make([]Action, 0, len(actionInfo))
	for _, a := range actionInfo {
		out = append(out, a.action)
	}
	return out
}

// ParseAction maps a name to an Action, ignoring case.
// Unrecognized names yield ActionUnknown.
func ParseAction(name string) Action {
	name = strings.TrimSpace(name)
	if name == "" {
		return ActionUnset
	}
	for _, a := range actionInfo {
		if strings.EqualFold(a.name, name) {
			return a.action
		}
	}
	return ActionUnknown
}

// String returns the canonical action name.
func (a Action) String() string {
	for _, info := range actionInfo {
		if info.action == a {
			return info.name
		}
	}
	if a == ActionUnknown {
		return "unknown"
	}
	return ""
}

// Description returns the menu label for the action.
func (a Action) Description() string {
	for _, info := range actionInfo {
		if info.action == a {
			return info.description
		}
	}
	return ""
}

// Known reports whether a is one of the five dispatchable actions.
func (a Action) Known() bool {
	return a > ActionUnset && a < ActionUnknown
}

// Operation is the dataset write operation.
type Operation string

const (
	OperationOverwrite Operation = "overwrite"
	OperationUpsert    Operation = "upsert"
	OperationAppend    Operation = "append"
	OperationDelete    Operation = "delete"
)

// ParseOperation matches s case-insensitively against the operation set.
func ParseOperation(s string) (Operation, bool) {
	return matchEnum(s, OperationOverwrite, OperationUpsert, OperationAppend, OperationDelete)
}

// Mode is the incremental-load mode.
type Mode string

const (
	ModeIncremental Mode = "incremental"
	ModeNone        Mode = "none"
)

// ParseMode matches s case-insensitively against the mode set.
func ParseMode(s string) (Mode, bool) {
	return matchEnum(s, ModeIncremental, ModeNone)
}

// UploadFormat selects whether the file is parsed locally before upload.
type UploadFormat string

const (
	UploadFormatBinary UploadFormat = "binary"
	UploadFormatCSV    UploadFormat = "csv"
)

// ParseUploadFormat matches s case-insensitively against the upload formats.
func ParseUploadFormat(s string) (UploadFormat, bool) {
	return matchEnum(s, UploadFormatBinary, UploadFormatCSV)
}

// NotificationLevel controls when the platform sends job notifications.
type NotificationLevel string

const (
	NotifyAlways   NotificationLevel = "always"
	NotifyFailures NotificationLevel = "failures"
	NotifyWarnings NotificationLevel = "warnings"
	NotifyNever    NotificationLevel = "never"
)

// ParseNotificationLevel matches s case-insensitively against the levels.
func ParseNotificationLevel(s string) (NotificationLevel, bool) {
	return matchEnum(s, NotifyAlways, NotifyFailures, NotifyWarnings, NotifyNever)
}

// CodingErrorAction is the policy for malformed input while decoding text.
type CodingErrorAction string

const (
	CodingErrorIgnore  CodingErrorAction = "IGNORE"
	CodingErrorReport  CodingErrorAction = "REPORT"
	CodingErrorReplace CodingErrorAction = "REPLACE"
)

// ParseCodingErrorAction matches s case-insensitively against the policies.
func ParseCodingErrorAction(s string) (CodingErrorAction, bool) {
	return matchEnum(s, CodingErrorIgnore, CodingErrorReport, CodingErrorReplace)
}

func matchEnum[T ~string](s string, values ...T) (T, bool) {
	s = strings.TrimSpace(s)
	for _, v := range values {
		if strings.EqualFold(s, string(v)) {
			return v, true
		}
	}
	var zero T
	return zero, false
}

// Params holds every resolved setting for one invocation.
// A fresh Params is created per invocation and per interactive-loop iteration.
type Params struct {
	Action     Action `json:"-"`
	ActionName string `json:"action,omitempty"` // raw name as supplied

	// Credentials
	Username    string `json:"username,omitempty"`
	Password    string `json:"-"`
	SessionID   string `json:"-"`
	Token       string `json:"-"`
	JKSFile     string `json:"jks_file,omitempty"`
	JKSPassword string `json:"-"`
	ClientID    string `json:"client_id,omitempty"`
	Endpoint    string `json:"endpoint,omitempty"`

	// Dataset load
	InputFile    string       `json:"input_file,omitempty"`
	SchemaFile   string       `json:"schema_file,omitempty"`
	Dataset      string       `json:"dataset,omitempty"`
	DatasetLabel string       `json:"dataset_label,omitempty"`
	App          string       `json:"app,omitempty"`
	Operation    Operation    `json:"operation,omitempty"`
	Mode         Mode         `json:"mode,omitempty"`
	UploadFormat UploadFormat `json:"upload_format,omitempty"`
	FileEncoding string       `json:"file_encoding,omitempty"`
	UseBulkAPI   bool         `json:"use_bulk_api,omitempty"`
	RootObject   string       `json:"root_object,omitempty"`

	RowLimit       int `json:"row_limit,omitempty"`
	ChunkSizeMulti int `json:"chunk_size_multi,omitempty"`

	NotificationLevel NotificationLevel `json:"notification_level,omitempty"`
	NotificationEmail string            `json:"notification_email,omitempty"`
}

// ApplyDefaults fills the fields that have declared defaults and are unset.
func (p *Params) ApplyDefaults() {
	if p.Operation == "" {
		p.Operation = OperationOverwrite
	}
	if p.Mode == "" {
		p.Mode = ModeNone
	}
	if p.UploadFormat == "" {
		p.UploadFormat = UploadFormatBinary
	}
}

// Label returns DatasetLabel, falling back to Dataset.
func (p *Params) Label() string {
	if p.DatasetLabel != "" {
		return p.DatasetLabel
	}
	return p.Dataset
}

// AutoDetectEncoding reports whether the file encoding should be detected.
func (p *Params) AutoDetectEncoding() bool {
	enc := strings.TrimSpace(p.FileEncoding)
	return enc == "" || strings.EqualFold(enc, "auto")
}
