// Package main is the jd command.
package main

import "github.com/mesh-intelligence/jd/internal/cli"

func main() {
	cli.Execute()
}
