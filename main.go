// Package main is the entry point for the dotametrics CLI tool, which
// fetches Dota 2 match histories from OpenDota and computes player
// performance analytics.
package main

import "github.com/pable/go-dota-metrics/cmd"

func main() {
	cmd.Execute()
}
