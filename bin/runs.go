package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/olekukonko/tablewriter"
	"www.velocidex.com/golang/go-disktype/parser"
)

var (
	runs_command = app.Command(
		"runs", "Display the byte runs of every entity.")

	runs_command_report_arg = runs_command.Arg(
		"report", "The disktype report to inspect (- for stdin)",
	).Required().String()

	runs_command_raw = runs_command.Flag(
		"raw", "Print runs one per line instead of a table.",
	).Bool()
)

func doRuns() {
	doc := getDocument(*runs_command_report_arg)
	runs := parser.DebugRuns(doc)

	if *runs_command_raw {
		for idx, r := range runs {
			fmt.Printf("%d %v\n", idx, r)
		}
		return
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{
		"Type",
		"Offset",
		"Length",
		"End",
		"Description",
	})
	defer table.Render()

	for _, r := range runs {
		end := ""
		value, ok := r.End()
		if ok {
			end = fmt.Sprintf("%d", value)
		}

		length := formatOptional(r.Length)
		if r.Provisional {
			length += "*"
		}

		table.Append([]string{
			strings.Repeat(" ", r.Level) + r.Type.String(),
			formatOptional(r.Offset),
			length,
			end,
			r.Description,
		})
	}
}

func init() {
	command_handlers = append(command_handlers, func(command string) bool {
		switch command {
		case "runs":
			doRuns()
		default:
			return false
		}
		return true
	})
}
