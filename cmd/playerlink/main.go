package main

import "github.com/partydeck/playerlink/internal/cli"

func main() {
	cli.Execute()
}
