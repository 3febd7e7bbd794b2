package service

import (
	"fmt"
	"strings"

	"contentservice/app/config"
)

// Database path override. Empty means BADGER_PATH from the configuration.
var dbPath = ""

// Directory that backup writes into.
var backupDir = "data/backups"

var loadConfig = config.Load

// badgerDir resolves the Badger directory the admin commands act on.
func badgerDir(cfg *config.Config) string {
	if dbPath != "" {
		return dbPath
	}
	return cfg.DB.BadgerPath
}

// confirm asks a yes/no question on stdin; anything but y/Y is no.
func confirm(question string) bool {
	fmt.Printf("%s [y/N] ", question)
	var response string
	fmt.Scanln(&response)
	return strings.EqualFold(strings.TrimSpace(response), "y")
}
