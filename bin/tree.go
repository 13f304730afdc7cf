package main

import (
	"fmt"

	"www.velocidex.com/golang/go-disktype/parser"
)

var (
	tree_command = app.Command(
		"tree", "Print the parsed tree as an outline.")

	tree_command_report_arg = tree_command.Arg(
		"report", "The disktype report to inspect (- for stdin)",
	).Required().String()
)

func doTree() {
	doc := getDocument(*tree_command_report_arg)
	fmt.Println(parser.DebugTree(doc))
}

func init() {
	command_handlers = append(command_handlers, func(command string) bool {
		switch command {
		case "tree":
			doTree()
		default:
			return false
		}
		return true
	})
}
