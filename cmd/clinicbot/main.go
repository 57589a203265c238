package main

import "clinicbot/internal/cli"

func main() {
	cli.Execute()
}
