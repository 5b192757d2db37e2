package main

import "github.com/danmuck/fieldctl/internal/cli"

func main() {
	cli.Execute()
}
