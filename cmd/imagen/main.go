// Package main (in imagen-subfolder) is the offline CLI: load a picture within a display budget, stamp it and save it
package main

import (
	"os"

	"github.com/wb-go/wbf/zlog"
)

func main() {
	zlog.InitConsole()
	if err := zlog.SetLevel("warn"); err != nil {
		os.Exit(1)
	}

	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
