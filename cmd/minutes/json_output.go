package main

import (
	"encoding/json"

	"github.com/spf13/cobra"
)

// writeJSON renders a --json response on the command's stdout. Transcript
// text and screenshot data URLs pass through unescaped.
func writeJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}
