package codemod

import (
	"beamlint/internal/diag"
)

// Options mirrors the lint CLI surface of the driver.
type Options struct {
	// Module restricts the run to one module name.
	Module string
	// File restricts the run to one file path.
	File string

	// Filter is the single diagnostic code to act on. CLI требует его
	// для каждого запуска lint, включая чистую диагностику.
	Filter    diag.Code
	HasFilter bool

	// LineFrom / LineTo bound the diagnostic's start line, inclusive.
	LineFrom *uint32
	LineTo   *uint32

	ApplyFix  bool
	Recursive bool
	InPlace   bool
	// To is the output directory for out-of-place mode.
	To string

	IncludeGenerated bool
	IgnoreApps       []string

	// FormatJSON selects the JSON output channel.
	FormatJSON bool
	// PrintDiags echoes every diagnostic to the output channel.
	PrintDiags bool
	// Pretty renders diagnostics with source excerpts and underlines.
	Pretty bool
	// Color enables ANSI colors in pretty output.
	Color bool
	// WithProgress shows a progress bar during the parallel parse.
	WithProgress bool
	// Jobs bounds parse parallelism; 0 использует все ядра.
	Jobs int
	// Timings prints per-phase durations after the run.
	Timings bool
}

// FormatNormal reports whether the text channel is selected.
func (o *Options) FormatNormal() bool { return !o.FormatJSON }
