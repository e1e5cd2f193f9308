//go:build !gui

package main

import (
	"context"
	"fmt"
	"os"

	"imepaste/config"
)

func runGUI(context.Context, *config.Config, **app) int {
	fmt.Fprintln(os.Stderr, "imepaste: built without GUI support (rebuild with -tags gui)")
	return 1
}
