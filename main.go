package main

import (
    "os"

    "tmap-export/src/cli"
)

func main() {
    os.Exit(cli.Execute())
}
