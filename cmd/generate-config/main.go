package main

import (
	"os"

	"github.com/Pvlck8888/telegram-casino-mini-app-sub001/internal/config"
	"gopkg.in/yaml.v2"
)

func main() {
	if err := yaml.NewEncoder(os.Stdout).Encode(config.DefaultConfig()); err != nil {
		panic(err)
	}
}
