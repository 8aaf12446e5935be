// Command quixo plays, serves and inspects games of Quixo.
package main

import (
	"os"

	"github.com/roach88/quixo/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
