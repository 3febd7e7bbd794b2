package main

import (
	"fmt"
	"os"
	"strings"

	"contentservice/service"
)

// CliVersion is the released version of the contentservice binary.
const CliVersion = "1.0.0"

var exit = os.Exit

func main() {
	RealMain()
}

// RealMain dispatches os.Args to the matching command.
func RealMain() {
	if len(os.Args) < 2 {
		printHelp()
		exit(1)
		return
	}

	cmd := strings.ToLower(os.Args[1])
	switch cmd {
	case "help", "-h", "--help":
		printHelp()
	case "version":
		fmt.Printf("contentservice version %s\n", CliVersion)
	case "serve", "seed", "init", "clean", "backup", "restore":
		if code := service.HandleCommand(append([]string{cmd}, os.Args[2:]...)); code != 0 {
			exit(code)
		}
	default:
		fmt.Printf("Unknown command: %s\n\n", os.Args[1])
		printHelp()
		exit(1)
	}
}

func printHelp() {
	fmt.Println(`Usage: contentservice <command> [options]
Commands:
  help                           Display this help message.
  version                        Show version information.`)
	service.PrintCommandHelp()
	fmt.Println(`Configuration is read from the environment and an optional .env file
(APP_ADDR, DB_DRIVER, BADGER_PATH, SQLITE_PATH, DB_HOST, KAFKA_BROKERS,
REDIS_ADDR, OTEL_EXPORTER_OTLP_ENDPOINT, ...).`)
}
