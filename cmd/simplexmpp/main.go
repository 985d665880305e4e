/*
 * Copyright (c) 2018 Miguel Ángel Ortuño.
 * See the LICENSE file for more information.
 */

package main

import (
	"fmt"
	"os"

	"github.com/simplexmpp/simplexmpp/app"
)

func main() {
	if err := app.New(os.Stdout, os.Args).Run(); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "simplexmpp: %v\n", err)
		os.Exit(-1)
	}
}
