// Command formstate browses the form gallery, runs forms interactively in the
// terminal and renders them as HTML or text.
package main

import (
	"os"
)

func main() {
	if err := Execute(); err != nil {
		os.Exit(1)
	}
}
