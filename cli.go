//go:build cli
// +build cli

package main

import (
	_ "github.com/jhkimon/crimson-erp-sub000/custom"

	"github.com/jhkimon/crimson-erp-sub000/cmd"
	"github.com/jhkimon/crimson-erp-sub000/config"
)

func main() {
	config.LoadEnv()
	cmd.Execute()
}
