// Command proptree builds paint property trees for HTML documents and
// dumps, measures or renders them.
//
// Usage:
//
//	proptree dump [--format text|toml] FILE
//	proptree rects [--include-viewport-clip] FILE
//	proptree render [-o out.png] FILE
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
