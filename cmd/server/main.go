package main // Entry point package

import (
	"os"
	_ "time/tzdata" // facility zones resolve without a system zoneinfo

	"github.com/iliyamo/room-reservation/internal/cli"
)

func main() {
	if err := cli.NewRoot().Execute(); err != nil {
		os.Exit(1)
	}
}
