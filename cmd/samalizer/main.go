package main

import (
	"os"

	"github.com/yutawtr1214/youtube-samalizer/internal/cli"
)

var version = "0.1.0"

func main() {
	os.Exit(cli.Execute(version))
}
