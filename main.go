package main

import (
	"spawnc/cmd"

	_ "github.com/joho/godotenv/autoload"
)

var (
	version string
	commit  string
	date    string
)

func main() {
	cmd.ExecuteCLI(version, commit, date)
}
