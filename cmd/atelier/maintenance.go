package main

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"

	"github.com/eringen/atelier"
	"github.com/eringen/atelier/admin"
	"github.com/eringen/atelier/content"
	"github.com/eringen/atelier/reconcile"
)

// openApp opens the stores without starting the web server.
func openApp() (*atelier.App, error) {
	app := atelier.New(atelier.LoadConfig())
	if err := app.Open(); err != nil {
		return nil, err
	}
	return app, nil
}

func runExport(args []string) error {
	app, err := openApp()
	if err != nil {
		return err
	}
	defer app.Close()

	arc, res := app.Admin.ExportBackup(context.Background())
	if !res.Success {
		return errors.New(res.Message)
	}
	name := arc.Filename
	if len(args) > 0 {
		name = args[0]
	}
	if err := os.WriteFile(name, arc.Data, 0o644); err != nil {
		return err
	}
	fmt.Printf("Wrote %s (%d bytes)\n", name, len(arc.Data))
	return nil
}

func runImport(args []string) error {
	if len(args) < 1 {
		return errors.New("usage: atelier import <file>")
	}
	f, err := os.Open(args[0])
	if err != nil {
		return err
	}
	defer f.Close()
	info, err := f.Stat()
	if err != nil {
		return err
	}

	app, err := openApp()
	if err != nil {
		return err
	}
	defer app.Close()

	confirm := url.Values{"confirm": {admin.ImportConfirmation}}
	res := app.Admin.ImportBackup(context.Background(), confirm, &admin.File{
		Name:    info.Name(),
		Size:    info.Size(),
		Content: f,
	})
	if !res.Success {
		return errors.New(res.Message)
	}
	fmt.Println(res.Message)
	return nil
}

func runSync() error {
	app, err := openApp()
	if err != nil {
		return err
	}
	defer app.Close()

	res := app.Admin.SyncFromFiles(context.Background())
	if !res.Success {
		return errors.New(res.Message)
	}
	fmt.Println(res.Message)
	return nil
}

func runAudit() error {
	app, err := openApp()
	if err != nil {
		return err
	}
	defer app.Close()

	res := app.Admin.Audit(context.Background())
	if !res.Success {
		return errors.New(res.Message)
	}
	fmt.Println(res.Message)
	if report, ok := res.Data.(reconcile.AuditReport); ok {
		for _, d := range report.Missing {
			fmt.Printf("  missing  #%d %s (%s)\n", d.PaintingID, d.Title, d.ImageURL)
		}
		for _, name := range report.Orphaned {
			fmt.Printf("  orphaned %s\n", name)
		}
	}
	return nil
}

func runCreateAdmin(args []string) error {
	if len(args) < 1 {
		return errors.New("usage: ADMIN_PASSWORD=... atelier create-admin <user>")
	}
	password := os.Getenv("ADMIN_PASSWORD")
	if password == "" {
		return errors.New("ADMIN_PASSWORD is not set")
	}

	app, err := openApp()
	if err != nil {
		return err
	}
	defer app.Close()

	ctx := context.Background()
	username := args[0]
	_, err = app.Store.GetUser(ctx, username)
	switch {
	case errors.Is(err, content.ErrNotFound):
		if err := app.Store.CreateUser(ctx, username, password); err != nil {
			return err
		}
		fmt.Printf("Created admin %q\n", username)
	case err != nil:
		return err
	default:
		if err := app.Store.SetPassword(ctx, username, password); err != nil {
			return err
		}
		fmt.Printf("Updated the password of %q\n", username)
	}
	return nil
}
