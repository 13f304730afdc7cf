// Implement some easy APIs.
package disktype

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/afero"
	"www.velocidex.com/golang/go-disktype/parser"
)

// ParseReport parses a disktype report already in memory or on a
// stream.
func ParseReport(reader io.Reader, options parser.Options) (*parser.Document, error) {
	return parser.NewParser(options).Parse(reader)
}

// ParseFile parses a saved report.
func ParseFile(fs afero.Fs, path string, options parser.Options) (
	*parser.Document, error) {
	fd, err := fs.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "opening report %v", path)
	}
	defer fd.Close()

	return ParseReport(fd, options)
}

// ParseImage runs disktype on an image and parses its report. The
// command line is recorded in the document.
func ParseImage(ctx context.Context, runner Runner, image string,
	options parser.Options) (*parser.Document, error) {
	report, err := runner.Run(ctx, image)
	if err != nil {
		return nil, err
	}

	if options.CommandLine == "" {
		options.CommandLine = strings.Join(runner.CommandLine(image), " ")
	}
	return ParseReport(bytes.NewReader(report), options)
}

// DescribeJSON renders the document as indented JSON.
func DescribeJSON(doc *parser.Document) ([]byte, error) {
	serialized, err := json.MarshalIndent(parser.Describe(doc), "", " ")
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return serialized, nil
}

// StatsJSON renders parser statistics as indented JSON.
func StatsJSON(stats *parser.Stats) ([]byte, error) {
	serialized, err := json.MarshalIndent(stats.ToDict(), "", " ")
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return serialized, nil
}
