package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/opal-lang/rawline/runtime/decoder"
)

// CLIError is a user-facing error with optional detail and a hint on how
// to fix it.
type CLIError struct {
	Message string
	Details string
	Hint    string
}

func (e *CLIError) Error() string {
	var b strings.Builder
	b.WriteString(e.Message)
	if e.Details != "" {
		b.WriteString("\n")
		b.WriteString(e.Details)
	}
	if e.Hint != "" {
		b.WriteString("\n")
		b.WriteString(e.Hint)
	}
	return b.String()
}

// FormatError writes err for a terminal. Joined record errors are listed
// one per line.
func FormatError(w io.Writer, err error, useColor bool) {
	if err == nil {
		return
	}

	var cliErr *CLIError
	if errors.As(err, &cliErr) {
		_, _ = fmt.Fprintf(w, "%s%s\n", Colorize("Error: ", ColorRed, useColor), cliErr.Message)
		if cliErr.Details != "" {
			_, _ = fmt.Fprintf(w, "\n%s\n", cliErr.Details)
		}
		if cliErr.Hint != "" {
			_, _ = fmt.Fprintf(w, "%s%s\n", Colorize("Hint: ", ColorYellow, useColor), cliErr.Hint)
		}
		return
	}

	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		errs := joined.Unwrap()
		_, _ = fmt.Fprintf(w, "%s%d records failed to decode\n", Colorize("Error: ", ColorRed, useColor), len(errs))
		for _, e := range errs {
			formatRecordError(w, e, useColor)
		}
		return
	}

	var recErr *decoder.RecordError
	if errors.As(err, &recErr) {
		_, _ = fmt.Fprint(w, Colorize("Error: ", ColorRed, useColor))
		formatRecordError(w, err, useColor)
		return
	}

	_, _ = fmt.Fprintf(w, "%s%s\n", Colorize("Error: ", ColorRed, useColor), err.Error())
}

func formatRecordError(w io.Writer, err error, useColor bool) {
	var recErr *decoder.RecordError
	var decErr *decoder.Error
	if errors.As(err, &recErr) && errors.As(err, &decErr) {
		_, _ = fmt.Fprintf(w, "  #%d %s %v\n", recErr.ID,
			Colorize(fmt.Sprintf("(line %d, column %d)", decErr.Pos.Line, decErr.Pos.Column), ColorGray, useColor),
			decErr.Err)
		return
	}
	_, _ = fmt.Fprintf(w, "  %v\n", err)
}
