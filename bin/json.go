package main

import (
	"fmt"

	kingpin "gopkg.in/alecthomas/kingpin.v2"
	disktype "www.velocidex.com/golang/go-disktype"
	"www.velocidex.com/golang/go-disktype/parser"
)

var (
	json_command = app.Command(
		"json", "Convert a report to JSON.")

	json_command_stats = json_command.Flag(
		"stats", "Also show parser statistics").Bool()

	json_command_report_arg = json_command.Arg(
		"report", "The disktype report to convert (- for stdin)",
	).Required().String()
)

func doJSON() {
	p := parser.NewParser(getOptions())
	doc := getDocumentWithParser(p, *json_command_report_arg)

	serialized, err := disktype.DescribeJSON(doc)
	kingpin.FatalIfError(err, "Marshal")

	fmt.Println(string(serialized))

	if *json_command_stats {
		serialized, err := disktype.StatsJSON(p.Stats())
		kingpin.FatalIfError(err, "Marshal")

		fmt.Println(string(serialized))
	}
}

func init() {
	command_handlers = append(command_handlers, func(command string) bool {
		switch command {
		case "json":
			doJSON()
		default:
			return false
		}
		return true
	})
}
