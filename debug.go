package disktype

import (
	"fmt"
	"os"
	"strings"

	"www.velocidex.com/golang/go-disktype/parser"
)

var (
	debug = false
)

// SetDebug traces this package and the parser.
func SetDebug(value bool) {
	debug = value
	parser.SetDebug(value)
}

func DebugPrint(fmt_str string, v ...interface{}) {
	if debug {
		fmt.Printf(fmt_str, v...)
		return
	}

	for _, x := range os.Environ() {
		if strings.HasPrefix(x, "DISKTYPE_DEBUG=") {
			fmt.Printf(fmt_str, v...)
			return
		}
	}
}
