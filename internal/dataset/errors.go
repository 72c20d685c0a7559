package dataset

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorCode categorizes dataset errors. Every code is fatal for the run
// that produced it and needs a fix in the source data.
type ErrorCode string

const (
	// ErrCodeParse indicates a file that could not be read as JSON.
	ErrCodeParse ErrorCode = "PARSE_ERROR"

	// ErrCodeSchema indicates a document that does not match the schema.
	ErrCodeSchema ErrorCode = "SCHEMA_ERROR"

	// ErrCodeDuplicateName indicates two entries with the same display
	// name under one category path.
	ErrCodeDuplicateName ErrorCode = "DUPLICATE_NAME"

	// ErrCodeLocation indicates a location set the resolver rejected.
	ErrCodeLocation ErrorCode = "LOCATION_ERROR"

	// ErrCodeMissingName indicates an entry with neither a name tag nor
	// the tree's fallback tag.
	ErrCodeMissingName ErrorCode = "MISSING_NAME"

	// ErrCodeDuplicateID indicates two entries that derive the same id.
	ErrCodeDuplicateID ErrorCode = "DUPLICATE_ID"

	// ErrCodeNoData indicates a tree with nothing to write.
	ErrCodeNoData ErrorCode = "NO_DATA"

	// ErrCodeIO indicates a file system failure.
	ErrCodeIO ErrorCode = "IO_ERROR"
)

// Error is the single error type returned by the pipelines and the cache.
// Context fields are filled when known.
type Error struct {
	Code    ErrorCode
	Message string

	// File is the dataset file involved.
	File string

	// Path is the category path involved.
	Path string

	// Name is the display name of the entry involved.
	Name string

	// ID is the generated id involved (duplicate ids).
	ID string

	// Err is the underlying cause, if any.
	Err error
}

func (e *Error) Error() string {
	var ctx []string
	if e.File != "" {
		ctx = append(ctx, "file="+e.File)
	}
	if e.Path != "" {
		ctx = append(ctx, "path="+e.Path)
	}
	if e.Name != "" {
		ctx = append(ctx, fmt.Sprintf("name=%q", e.Name))
	}
	if e.ID != "" {
		ctx = append(ctx, "id="+e.ID)
	}

	msg := fmt.Sprintf("%s: %s", e.Code, e.Message)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	if len(ctx) > 0 {
		msg += " (" + strings.Join(ctx, ", ") + ")"
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// CodeOf returns the code of the first *Error in err's chain, or "" if
// there is none.
func CodeOf(err error) ErrorCode {
	var de *Error
	if errors.As(err, &de) {
		return de.Code
	}
	return ""
}

// IsDuplicateID reports whether err is a duplicate id error.
func IsDuplicateID(err error) bool {
	return CodeOf(err) == ErrCodeDuplicateID
}

// IsDuplicateName reports whether err is a duplicate display name error.
func IsDuplicateName(err error) bool {
	return CodeOf(err) == ErrCodeDuplicateName
}

// IsMissingName reports whether err is a missing name error.
func IsMissingName(err error) bool {
	return CodeOf(err) == ErrCodeMissingName
}

// IsLocationError reports whether err is a location set error.
func IsLocationError(err error) bool {
	return CodeOf(err) == ErrCodeLocation
}

// IsNoData reports whether err is a nothing-to-write error.
func IsNoData(err error) bool {
	return CodeOf(err) == ErrCodeNoData
}

func newDuplicateIDError(path CategoryPath, e *Entry, owner *Entry) *Error {
	return &Error{
		Code:    ErrCodeDuplicateID,
		Message: fmt.Sprintf("id already taken by %q", owner.DisplayName),
		Path:    path.String(),
		Name:    e.DisplayName,
		ID:      e.ID,
	}
}

func newDuplicateNameError(path CategoryPath, name string) *Error {
	return &Error{
		Code:    ErrCodeDuplicateName,
		Message: "display name is not unique within its category path",
		Path:    path.String(),
		Name:    name,
	}
}

func newIOError(file, message string, err error) *Error {
	return &Error{
		Code:    ErrCodeIO,
		Message: message,
		File:    file,
		Err:     err,
	}
}
