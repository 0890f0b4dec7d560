// Command codelime uploads and manages survey answers on the Codelime
// coding platform.
package main

import (
	"fmt"
	"os"

	"github.com/codelime/codelime-cli/internal/adapters/driving/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
