package cmd

import (
	"encoding/json"
	"fmt"
	"io"
)

// Values accepted by --output.
const (
	outputText = "text"
	outputJSON = "json"
)

// outputFormat holds the global output format flag value.
var outputFormat string

// isJSONOutput returns true when the user has requested JSON output.
func isJSONOutput() bool {
	return outputFormat == outputJSON
}

func validateOutputFormat(format string) error {
	switch format {
	case outputText, outputJSON:
		return nil
	}
	return fmt.Errorf("invalid output format %q: must be one of: %s, %s", format, outputText, outputJSON)
}

// writeJSON encodes data as indented JSON to the given writer. HTML is not
// escaped, so asset names like "Sales & Ops" come through unchanged.
func writeJSON(w io.Writer, data any) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}
