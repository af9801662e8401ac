package main

import (
	"os"

	"github.com/Pvlck8888/telegram-casino-mini-app-sub001/cmd/pokeradmin/cmd"
)

func main() {
	if err := cmd.NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
