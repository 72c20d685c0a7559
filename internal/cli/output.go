package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/1-Byte/name-suggestion-index/internal/dataset"
)

// Process exit codes. A dataset that needs fixing exits 1; a command that
// could not run at all exits 2.
const (
	ExitSuccess      = 0
	ExitFailure      = 1
	ExitCommandError = 2
)

// Command-level error codes. Data errors use the dataset codes.
const (
	ErrCodeConfig  = "CONFIG_ERROR"
	ErrCodeUsage   = "USAGE_ERROR"
	ErrCodeLedger  = "LEDGER_ERROR"
	ErrCodeGeneric = "ERROR"
)

// ExitError carries the exit code a command failed with.
type ExitError struct {
	Code    int
	Message string
	Err     error
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// NewExitError returns an ExitError without a cause.
func NewExitError(code int, message string) *ExitError {
	return &ExitError{Code: code, Message: message}
}

// WrapExitError attaches an exit code to err.
func WrapExitError(code int, message string, err error) *ExitError {
	return &ExitError{Code: code, Message: message, Err: err}
}

// GetExitCode maps the error returned by a command to the process exit
// code: nil is ExitSuccess, an error without an ExitError is ExitFailure.
func GetExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitFailure
}

// OutputFormatter renders command results as text or as one JSON
// document per run.
type OutputFormatter struct {
	Format    string
	Writer    io.Writer
	ErrWriter io.Writer // Text errors and verbose output (defaults to Writer)
	Verbose   bool
}

// CLIResponse is the JSON envelope of every command.
type CLIResponse struct {
	Status string    `json:"status"` // "ok" or "error"
	Data   any       `json:"data,omitempty"`
	Error  *CLIError `json:"error,omitempty"`
}

// CLIError is the error part of a CLIResponse.
type CLIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// Success renders data: a CLIResponse in json mode, data's String form
// otherwise.
func (f *OutputFormatter) Success(data any) error {
	if f.Format == "json" {
		return json.NewEncoder(f.Writer).Encode(CLIResponse{
			Status: "ok",
			Data:   data,
		})
	}

	fmt.Fprintln(f.Writer, data)
	return nil
}

// Error outputs an error in the configured format. JSON goes to Writer so
// the output stays one document; text goes to the error writer.
func (f *OutputFormatter) Error(code, message string, details any) error {
	if f.Format == "json" {
		return json.NewEncoder(f.Writer).Encode(CLIResponse{
			Status: "error",
			Error: &CLIError{
				Code:    code,
				Message: message,
				Details: details,
			},
		})
	}

	w := f.GetErrWriter()
	fmt.Fprintf(w, "Error [%s]: %s\n", code, message)
	if f.Verbose && details != nil {
		fmt.Fprintf(w, "Details: %v\n", details)
	}
	return nil
}

// Fail reports err and returns the ExitError the command should return.
// Dataset errors exit with ExitFailure under their own code; anything else
// is a command error reported under code.
func (f *OutputFormatter) Fail(code string, err error) error {
	var de *dataset.Error
	if errors.As(err, &de) {
		_ = f.Error(string(de.Code), err.Error(), errorDetails(de))
		return WrapExitError(ExitFailure, "data error", err)
	}
	_ = f.Error(code, err.Error(), nil)
	return WrapExitError(ExitCommandError, code, err)
}

// errorDetails lists the context fields of a dataset error that are set.
func errorDetails(de *dataset.Error) map[string]string {
	details := map[string]string{}
	for k, v := range map[string]string{
		"file": de.File,
		"path": de.Path,
		"name": de.Name,
		"id":   de.ID,
	} {
		if v != "" {
			details[k] = v
		}
	}
	if len(details) == 0 {
		return nil
	}
	return details
}

// VerboseLog prints to the error writer under --verbose.
func (f *OutputFormatter) VerboseLog(format string, args ...any) {
	if !f.Verbose {
		return
	}
	fmt.Fprintf(f.GetErrWriter(), format+"\n", args...)
}

// GetErrWriter is where text errors and verbose lines go.
func (f *OutputFormatter) GetErrWriter() io.Writer {
	if f.ErrWriter != nil {
		return f.ErrWriter
	}
	return f.Writer
}
