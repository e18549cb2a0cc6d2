// Command schemaui renders a JSON Schema as an interactive terminal form.
package main

import (
	"os"

	"github.com/reoring/schemaui/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
