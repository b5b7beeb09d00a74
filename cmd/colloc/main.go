// Command colloc ranks the collocates of a keyword in text files by their
// mutual-information score.
//
// Usage:
//
//	colloc --file_input corpus/ --search_term whale --window 5 --output_type gathered
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
)

func main() {
	cmd := newRootCommand(os.Stdout, os.Stderr)
	if err := cmd.Execute(); err != nil {
		if !errors.Is(err, context.Canceled) {
			fmt.Fprintln(os.Stderr, "[ERROR]", err)
		}
		os.Exit(1)
	}
}
