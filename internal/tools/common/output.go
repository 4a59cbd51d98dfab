package common

import (
	"encoding/json"
	"os"
)

type ciResult struct {
	OK      bool     `json:"ok"`
	Title   string   `json:"title"`
	Details []string `json:"details,omitempty"`
	Error   string   `json:"error,omitempty"`
}

// PrintCIResult writes a machine-readable summary line for CI pipelines.
func PrintCIResult(ok bool, title string, details []string, err error) {
	out := ciResult{OK: ok, Title: title, Details: details}
	if err != nil {
		out.Error = err.Error()
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(out)
}
