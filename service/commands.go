package service

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"contentservice/app/config"
	"contentservice/app/repositories"
)

// HandleCommand runs a service subcommand and returns an exit code.
func HandleCommand(args []string) int {
	if len(args) < 1 {
		PrintCommandHelp()
		return 1
	}

	cmd := args[0]
	switch cmd {
	case "serve":
		if err := RunAppServer(args[1:]); err != nil {
			fmt.Printf("Server error: %v\n", err)
			return 1
		}
		return 0
	case "seed":
		return seed(args[1:])
	case "clean":
		return clean()
	case "init":
		return initDb()
	case "backup":
		return backup()
	case "restore":
		if len(args) < 2 {
			fmt.Println("Error: backup file path required for restore")
			return 1
		}
		return restore(args[1])
	case "help":
		PrintCommandHelp()
		return 0
	default:
		fmt.Printf("Unknown command: %s\n\n", cmd)
		PrintCommandHelp()
		return 1
	}
}

// PrintCommandHelp prints help for the service subcommands.
func PrintCommandHelp() {
	helpText := `Service commands:
  serve [--addr <host:port>]      Run the content service HTTP API
  seed [--count N]                Insert N generated posts (default 10)
  init                            Initialize a new empty Badger database
  clean                           Delete the Badger database
  backup                          Create a backup of the Badger database
  restore <file>                  Restore the Badger database from a backup
  help                            Display this help message
`
	fmt.Println(helpText)
}

// badgerOnly reports whether the admin commands apply to cfg, printing a
// notice when they do not.
func badgerOnly(cfg *config.Config) bool {
	if cfg.DB.Driver != config.DriverBadger {
		fmt.Printf("This command only applies to the badger driver (DB_DRIVER=%s)\n", cfg.DB.Driver)
		return false
	}
	return true
}

// clean removes the database.
func clean() int {
	cfg := loadConfig()
	if !badgerOnly(cfg) {
		return 1
	}
	path := badgerDir(cfg)

	if _, err := os.Stat(path); os.IsNotExist(err) {
		fmt.Println("Database is already clean (does not exist)")
		return 0
	}

	if !confirm("Are you sure you want to clean the database? This cannot be undone.") {
		fmt.Println("Operation cancelled")
		return 1
	}

	if err := os.RemoveAll(path); err != nil {
		fmt.Printf("Failed to clean database: %v\n", err)
		return 1
	}
	fmt.Println("Database cleaned successfully")
	return 0
}

// initDb initializes a new empty database.
func initDb() int {
	cfg := loadConfig()
	if !badgerOnly(cfg) {
		return 1
	}
	path := badgerDir(cfg)

	if _, err := os.Stat(path); err == nil {
		fmt.Println("Database already exists. Use 'clean' first if you want to reinitialize.")
		return 0
	}

	db, err := repositories.OpenBadger(path)
	if err != nil {
		fmt.Printf("Failed to initialize database: %v\n", err)
		return 1
	}
	defer db.Close()

	fmt.Println("Database initialized successfully")
	return 0
}

// backup writes a full Badger backup into backupDir.
func backup() int {
	cfg := loadConfig()
	if !badgerOnly(cfg) {
		return 1
	}
	path := badgerDir(cfg)

	if _, err := os.Stat(path); os.IsNotExist(err) {
		fmt.Println("No database exists to backup")
		return 1
	}

	if err := os.MkdirAll(backupDir, 0755); err != nil {
		fmt.Printf("Failed to create backup directory: %v\n", err)
		return 1
	}

	db, err := repositories.OpenBadger(path)
	if err != nil {
		fmt.Printf("Failed to open database: %v\n", err)
		return 1
	}
	defer db.Close()

	backupFile := filepath.Join(backupDir, fmt.Sprintf("backup_%d.db", time.Now().UnixNano()))
	f, err := os.Create(backupFile)
	if err != nil {
		fmt.Printf("Failed to create backup file: %v\n", err)
		return 1
	}
	defer f.Close()

	if _, err := db.Backup(f, 0); err != nil {
		fmt.Printf("Failed to backup database: %v\n", err)
		return 1
	}

	fmt.Printf("Database backed up successfully to %s\n", backupFile)
	return 0
}

// restore restores the database from a backup.
func restore(backupFile string) int {
	cfg := loadConfig()
	if !badgerOnly(cfg) {
		return 1
	}
	path := badgerDir(cfg)

	fi, err := os.Stat(backupFile)
	if os.IsNotExist(err) {
		fmt.Printf("Backup file does not exist: %s\n", backupFile)
		return 1
	}
	if err != nil {
		fmt.Printf("Failed to stat backup file: %v\n", err)
		return 1
	}
	if fi.Size() == 0 {
		fmt.Printf("Backup file is empty: %s\n", backupFile)
		return 1
	}

	if _, err := os.Stat(path); err == nil {
		if !confirm("Existing database found. Do you want to replace it?") {
			fmt.Println("Operation cancelled")
			return 1
		}
		if err := os.RemoveAll(path); err != nil {
			fmt.Printf("Failed to remove existing database: %v\n", err)
			return 1
		}
	}

	db, err := repositories.OpenBadger(path)
	if err != nil {
		fmt.Printf("Failed to open database: %v\n", err)
		return 1
	}
	defer db.Close()

	f, err := os.Open(backupFile)
	if err != nil {
		fmt.Printf("Failed to open backup file: %v\n", err)
		return 1
	}
	defer f.Close()

	err = func() (err error) {
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("panic occurred during restore: %v", r)
			}
		}()
		return db.Load(f, 256)
	}()
	if err != nil {
		fmt.Printf("Failed to restore database: %v\n", err)
		return 1
	}

	fmt.Println("Database restored successfully")
	return 0
}

// seed inserts generated posts through the post service.
func seed(args []string) int {
	fs := flag.NewFlagSet("seed", flag.ContinueOnError)
	count := fs.Int("count", 10, "number of posts to create")
	if err := fs.Parse(args); err != nil {
		return 1
	}
	if *count < 1 {
		fmt.Println("Error: --count must be positive")
		return 1
	}

	cfg := loadConfig()
	cfg.DB.BadgerPath = badgerDir(cfg)

	created, err := seedPosts(context.Background(), cfg, *count)
	if err != nil {
		fmt.Printf("Failed to seed database: %v\n", err)
		return 1
	}
	fmt.Printf("Seeded %d posts\n", created)
	return 0
}
