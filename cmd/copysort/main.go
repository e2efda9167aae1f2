// copysort checks that the d (directory) and f (file) copy commands of
// shell scripts are grouped and sorted.
//
// Usage:
//
//	copysort lint [--path PATH] [--format text|json|yaml] [--watch]
//	copysort serve
//	copysort version
//
// Examples:
//
//	copysort lint --path ./scripts
//	copysort lint --path build.sh --format json
//	copysort serve --log-level debug
package main

import (
	"fmt"
	"os"
)

func main() {
	root := newApp().command()
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
