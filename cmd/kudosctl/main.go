// Command kudosctl runs race-log and championship maintenance against the
// same store the server uses.
package main

import (
	"os"
)

func main() {
	if err := newRootCmd(&cli{}).Execute(); err != nil {
		os.Exit(1)
	}
}
