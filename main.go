// Package main is the entry point of the lootlens CLI.
package main

import (
	"github.com/lootlens/lootlens/cmd"
	"github.com/lootlens/lootlens/internal/contract"
	"github.com/lootlens/lootlens/internal/iocache"
)

func main() {
	cmd.SetStoreManager(iocache.Manager)

	err := cmd.Execute()
	if stopErr := cmd.StopProfiling(); stopErr != nil {
		contract.LogWarn("Cannot stop profiling", stopErr)
	}
	iocache.CloseStores()

	if err != nil {
		contract.LogFatal("Cannot run lootlens", err)
	}
}
