package main

import (
	"os"

	kingpin "gopkg.in/alecthomas/kingpin.v2"
	"www.velocidex.com/golang/go-disktype/dfxml"
)

var (
	dfxml_command = app.Command(
		"dfxml", "Convert a report to DFXML.")

	dfxml_command_report_arg = dfxml_command.Arg(
		"report", "The disktype report to convert (- for stdin)",
	).Required().String()
)

func doDFXML() {
	doc := getDocument(*dfxml_command_report_arg)

	err := dfxml.Write(os.Stdout, doc)
	kingpin.FatalIfError(err, "Can not write DFXML")
}

func init() {
	command_handlers = append(command_handlers, func(command string) bool {
		switch command {
		case "dfxml":
			doDFXML()
		default:
			return false
		}
		return true
	})
}
