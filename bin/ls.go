package main

import (
	"fmt"
	"os"

	"github.com/olekukonko/tablewriter"
	"www.velocidex.com/golang/go-disktype/parser"
)

var (
	ls_command = app.Command(
		"ls", "List the volumes found in a report.")

	ls_command_report_arg = ls_command.Arg(
		"report", "The disktype report to inspect (- for stdin)",
	).Required().String()
)

func doLS() {
	doc := getDocument(*ls_command_report_arg)

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{
		"#",
		"File System",
		"Name",
		"Offset",
		"Length",
		"Block Size",
		"Blocks",
		"Partition Type",
		"Flags",
	})
	table.SetCaption(true, fmt.Sprintf(
		"Volumes in %v", *ls_command_report_arg))
	defer table.Render()

	for idx, volume := range doc.Volumes() {
		flags := ""
		if volume.Wrapped {
			flags += "wrapped "
		}
		if volume.Run.Provisional() {
			flags += "provisional"
		}

		table.Append([]string{
			fmt.Sprintf("%d", idx),
			volume.FileSystemType,
			volume.Name,
			formatOptional(volume.Run.Offset),
			formatOptional(volume.Run.Length),
			formatOptional(volume.BlockSize),
			formatOptional(volume.BlockCount),
			partitionTypeOf(volume),
			flags,
		})
	}
}

// The partition type label copied onto the volume, if any.
func partitionTypeOf(volume *parser.Volume) string {
	for _, ext := range volume.Extensions {
		label, ok := ext.(*parser.PartitionTypeLabel)
		if ok {
			return label.Label
		}
	}
	return ""
}

func init() {
	command_handlers = append(command_handlers, func(command string) bool {
		switch command {
		case "ls":
			doLS()
		default:
			return false
		}
		return true
	})
}
