package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/fatih/structs"
	"github.com/olekukonko/tablewriter"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
	disktype "www.velocidex.com/golang/go-disktype"
)

type Config struct {
	DisktypePath string `mapstructure:"disktype_path"`
	RecordDir    string `mapstructure:"record_dir"`
	Debug        bool   `mapstructure:"debug"`
}

// LoadConfig reads godisktype.yaml from the usual places unless a
// path is given. Every key may be overridden by a DISKTYPE_ variable.
func LoadConfig(path string) (*Config, error) {
	if path != "" {
		viper.SetConfigFile(path)
	} else {
		viper.SetConfigName("godisktype")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		viper.AddConfigPath("$HOME/.godisktype")
		viper.AddConfigPath("/etc/godisktype")
	}

	viper.SetDefault("disktype_path", disktype.DefaultDisktypePath)
	viper.SetDefault("record_dir", "")
	viper.SetDefault("debug", false)

	viper.SetEnvPrefix("DISKTYPE")
	viper.AutomaticEnv()

	err := viper.ReadInConfig()
	if err != nil {
		_, ok := err.(viper.ConfigFileNotFoundError)
		if !ok || path != "" {
			return nil, errors.Wrap(err, "reading config file")
		}
	}

	result := &Config{}
	err = viper.Unmarshal(result)
	if err != nil {
		return nil, errors.Wrap(err, "unmarshaling config")
	}
	return result, nil
}

var (
	config_command = app.Command(
		"config", "Show the effective configuration.")
)

func doConfig() {
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Key", "Value", "Environment"})
	defer table.Render()

	for _, field := range structs.New(config).Fields() {
		key := field.Tag("mapstructure")
		table.Append([]string{
			key,
			fmt.Sprintf("%v", field.Value()),
			"DISKTYPE_" + strings.ToUpper(key),
		})
	}
}

func init() {
	command_handlers = append(command_handlers, func(command string) bool {
		switch command {
		case "config":
			doConfig()
		default:
			return false
		}
		return true
	})
}
