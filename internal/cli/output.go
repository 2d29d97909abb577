package cli

import (
	"encoding/json"
	"fmt"
	"io"
)

// Output formats one-shot command results
type Output struct {
	format string
	w      io.Writer
	errW   io.Writer
}

// NewOutput creates a new Output formatter
func NewOutput(format string, w, errW io.Writer) *Output {
	return &Output{format: format, w: w, errW: errW}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintError outputs an error
func (o *Output) PrintError(err error) {
	if o.format == "json" {
		data, _ := json.Marshal(map[string]any{
			"error": map[string]string{"message": err.Error()},
		})
		_, _ = fmt.Fprintln(o.errW, string(data))
		return
	}
	_, _ = fmt.Fprintf(o.errW, "Error: %s\n", err)
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(o.w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case CategoriesResult:
		for _, c := range v.Categories {
			_, _ = fmt.Fprintln(o.w, c)
		}
	case VersionResult:
		_, _ = fmt.Fprintf(o.w, "Server version: %s\n", v.Version)
	case DeviceResult:
		_, _ = fmt.Fprintln(o.w, v.DeviceID)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

// CategoriesResult is the output of the categories command
type CategoriesResult struct {
	Categories []string `json:"categories"`
}

// VersionResult is the output of the version command
type VersionResult struct {
	Version string `json:"version"`
}

// DeviceResult is the output of the device-id command
type DeviceResult struct {
	DeviceID string `json:"device_id"`
}
