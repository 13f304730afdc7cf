package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/afero"
	kingpin "gopkg.in/alecthomas/kingpin.v2"
	disktype "www.velocidex.com/golang/go-disktype"
	"www.velocidex.com/golang/go-disktype/parser"
)

func getOptions() parser.Options {
	options := parser.GetDefaultOptions()
	options.CommandLine = strings.Join(os.Args, " ")
	return options
}

// Parses a saved report, or stdin when the path is "-".
func getDocument(path string) *parser.Document {
	var doc *parser.Document
	var err error

	if path == "-" {
		doc, err = disktype.ParseReport(os.Stdin, getOptions())
	} else {
		doc, err = disktype.ParseFile(afero.NewOsFs(), path, getOptions())
	}
	kingpin.FatalIfError(err, "Can not parse report")

	return doc
}

// Same as getDocument but keeps the parser around for its stats.
func getDocumentWithParser(p *parser.Parser, path string) *parser.Document {
	var reader io.Reader = os.Stdin
	if path != "-" {
		fd, err := afero.NewOsFs().Open(path)
		kingpin.FatalIfError(err, "Can not open report")
		defer fd.Close()

		reader = fd
	}

	doc, err := p.Parse(reader)
	kingpin.FatalIfError(err, "Can not parse report")

	return doc
}

func formatOptional(value *uint64) string {
	if value == nil {
		return ""
	}
	return fmt.Sprintf("%d", *value)
}
