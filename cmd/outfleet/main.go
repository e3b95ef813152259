// Package main implements the outfleet CLI tool.
// It provides commands for provisioning and inspecting relay servers.
package main

import "github.com/outfleet/outfleet/cmd/outfleet/cmd"

func main() {
	cmd.Execute()
}
