package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/eringen/atelier"
)

// version is set at build time via ldflags.
var version = "dev"

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	var err error
	switch os.Args[1] {
	case "serve":
		err = runServe()
	case "export":
		err = runExport(os.Args[2:])
	case "import":
		err = runImport(os.Args[2:])
	case "sync":
		err = runSync()
	case "audit":
		err = runAudit()
	case "create-admin":
		err = runCreateAdmin(os.Args[2:])
	case "version":
		fmt.Printf("atelier %s\n", version)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`atelier - website and back-office of a painter's gallery

Usage:
  atelier <command> [arguments]

Commands:
  serve                      Start the web server
  export [file]              Write a backup archive (default atelier-backup-<date>.zip)
  import <file>              Replace all content and uploads with a backup archive
  sync                       Register image files that have no database row
  audit                      List paintings whose image file is missing
  create-admin <user>        Create an admin user or reset its password (reads ADMIN_PASSWORD)
  version                    Print the atelier version
  help                       Show this help message

Configuration is read from the environment and from a .env file:
  SITE_NAME, SITE_URL, DATABASE_PATH, ASSET_DIR, SESSION_SECRET, ...`)
}

func runServe() error {
	app := atelier.New(atelier.LoadConfig())
	defer app.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errc := make(chan error, 1)
	go func() { errc <- app.Start() }()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.Echo.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
