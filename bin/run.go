package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/afero"
	kingpin "gopkg.in/alecthomas/kingpin.v2"
	disktype "www.velocidex.com/golang/go-disktype"
	"www.velocidex.com/golang/go-disktype/dfxml"
	"www.velocidex.com/golang/go-disktype/parser"
)

var (
	run_command = app.Command(
		"run", "Run disktype on an image and convert its report.")

	run_command_image_arg = run_command.Arg(
		"image", "The image file to inspect",
	).Required().String()

	run_command_format = run_command.Flag(
		"format", "Output format.",
	).Default("dfxml").Enum("dfxml", "json", "tree")

	run_command_disktype = run_command.Flag(
		"disktype", "Path to the disktype binary (default from config).",
	).Default("").String()

	run_command_record = run_command.Flag(
		"record", "Directory to read/write recorded reports.",
	).Default("").String()
)

func getRunner() disktype.Runner {
	binary := *run_command_disktype
	if binary == "" {
		binary = config.DisktypePath
	}

	var runner disktype.Runner = disktype.NewDisktypeRunner(binary)

	record_dir := *run_command_record
	if record_dir == "" {
		record_dir = config.RecordDir
	}

	if record_dir != "" {
		disktype.DebugPrint("Will record to dir %v\n", record_dir)
		runner = disktype.NewRecorder(afero.NewOsFs(), record_dir, runner)
	}

	return runner
}

func doRun() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	doc, err := disktype.ParseImage(ctx, getRunner(),
		*run_command_image_arg, parser.GetDefaultOptions())
	kingpin.FatalIfError(err, "Can not inspect image")

	switch *run_command_format {
	case "json":
		serialized, err := disktype.DescribeJSON(doc)
		kingpin.FatalIfError(err, "Marshal")
		fmt.Println(string(serialized))

	case "tree":
		fmt.Println(parser.DebugTree(doc))

	default:
		err = dfxml.Write(os.Stdout, doc)
		kingpin.FatalIfError(err, "Can not write DFXML")
	}
}

func init() {
	command_handlers = append(command_handlers, func(command string) bool {
		switch command {
		case "run":
			doRun()
		default:
			return false
		}
		return true
	})
}
