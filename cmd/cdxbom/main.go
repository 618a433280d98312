package main

import (
	"os"

	"github.com/mattermost/cdxbom/commands"

	_ "github.com/mattermost/cdxbom/sources" // default sources
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
