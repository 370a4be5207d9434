// The main package for the newswire executable.
package main

import (
	"github.com/newswire-dev/collector/cmd"
)

// main is the entry point of the application.
// It defers all execution to the Cobra CLI library.
func main() {
	cmd.Execute()
}
