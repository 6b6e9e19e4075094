//go:build cli

package main

import (
	"github.com/NguyenNhatCP/cuttingsync/cmd"
	"github.com/NguyenNhatCP/cuttingsync/config"
)

func main() {
	config.LoadEnv()
	cmd.Execute()
}
