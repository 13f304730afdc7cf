package parser

import (
	"fmt"
	"os"
	"strings"
)

var (
	debug = false

	DISKTYPE_DEBUG *bool
)

func SetDebug(value bool) {
	debug = value
}

func DebugPrint(fmt_str string, v ...interface{}) {
	if debugEnabled() {
		fmt.Printf(fmt_str, v...)
	}
}

func envDebug() bool {
	if DISKTYPE_DEBUG == nil {
		// os.Environ() seems very expensive in Go so we cache
		// it.
		for _, x := range os.Environ() {
			if strings.HasPrefix(x, "DISKTYPE_DEBUG=") {
				value := true
				DISKTYPE_DEBUG = &value
				break
			}
		}
	}

	if DISKTYPE_DEBUG == nil {
		value := false
		DISKTYPE_DEBUG = &value
	}

	return *DISKTYPE_DEBUG
}

func debugEnabled() bool {
	return debug || envDebug()
}
