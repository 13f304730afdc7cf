package main

import (
	"os"

	kingpin "gopkg.in/alecthomas/kingpin.v2"
	disktype "www.velocidex.com/golang/go-disktype"
)

type CommandHandler func(command string) bool

var (
	app = kingpin.New("godisktype",
		"A tool for converting disktype reports to forensic metadata.")

	debug_flag = app.Flag("debug", "Trace the parser.").Bool()

	config_flag = app.Flag("config", "Path to a config file.").
			Default("").String()

	command_handlers []CommandHandler

	config *Config
)

func main() {
	app.HelpFlag.Short('h')
	app.UsageTemplate(kingpin.CompactUsageTemplate)
	command := kingpin.MustParse(app.Parse(os.Args[1:]))

	var err error
	config, err = LoadConfig(*config_flag)
	kingpin.FatalIfError(err, "Can not load config")

	if *debug_flag || config.Debug {
		disktype.SetDebug(true)
	}

	for _, command_handler := range command_handlers {
		if command_handler(command) {
			break
		}
	}
}
