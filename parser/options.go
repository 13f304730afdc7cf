package parser

import (
	"github.com/imdario/mergo"
)

const (
	DefaultMaxDepth = 32
)

type Options struct {
	// Creator metadata copied into the document.
	Program     string
	Version     string
	CommandLine string

	// Maximum number of simultaneously open levels. Deeper reports
	// are rejected.
	MaxDepth int

	// Sizes of El Torito emulated floppies keyed by the label
	// printed in the report.
	FloppySizes map[string]uint64
}

func GetDefaultOptions() Options {
	return Options{
		Program:  "godisktype",
		Version:  "0.1.0",
		MaxDepth: DefaultMaxDepth,
		FloppySizes: map[string]uint64{
			"1.2M":  1228800,
			"1.44M": 1474560,
			"2.88M": 2949120,
		},
	}
}

// Fills every unset field from the defaults.
func completeOptions(options Options) Options {
	defaults := GetDefaultOptions()
	err := mergo.Merge(&options, defaults)
	if err != nil {
		return defaults
	}
	return options
}
