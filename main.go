// storyscrape fetches Reddit post text through a multi-strategy anti-bot
// pipeline and serves it over HTTP for the story generation product.
package main

import (
	"fmt"
	"os"

	"github.com/JONGYYY/storyscrape/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
