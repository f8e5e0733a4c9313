package main

import "github.com/explorastur/explorastur/internal/cli"

func main() {
	cli.Execute()
}
