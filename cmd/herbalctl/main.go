package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"syscall"

	"github.com/docopt/docopt-go"
	"github.com/golang/glog"
	"golang.org/x/term"
	"gorm.io/gorm"

	"herbal/config"
	"herbal/database"
	authRepoImp "herbal/pkg/auth/repositoryImp"
	authSvcImp "herbal/pkg/auth/serviceImp"
	"herbal/pkg/live"
	plantRepo "herbal/pkg/plant/repository"
	plantRepoImp "herbal/pkg/plant/repositoryImp"
	"herbal/pkg/plant/service"
	plantSvcImp "herbal/pkg/plant/serviceImp"
	"herbal/pkg/sheet"
)

const version = "0.1.0"

func main() {
	usage := `Herbal Pedia admin tool.

Usage:
    herbalctl admin create <email> [--password=<password>]
    herbalctl import <xlsx>
    herbalctl export <xlsx>
    herbalctl -h | --help
    herbalctl --version

Options:
    -h --help                Show this screen.
    --version                Show version.
    --password=<password>    Admin password. Prompted for when omitted.

With the default sqlite store a running server's live views pick up imported
plants on its next write. Set DATABASE_URL to share changes immediately.`

	opts, err := docopt.ParseArgs(usage, os.Args[1:], version)
	if err != nil {
		panic(err)
	}
	// glog flags are not part of the usage; log to stderr
	flag.Set("logtostderr", "true")
	defer glog.Flush()

	ctx := context.Background()
	cfg := config.Load()
	db, err := database.Open(cfg.DBPath)
	if err != nil {
		fail("open db: %v", err)
	}

	if admin_, _ := opts.Bool("admin"); admin_ {
		createAdmin(ctx, cfg, db, opts)
		return
	}

	plants := plantService(ctx, cfg, db)
	if import_, _ := opts.Bool("import"); import_ {
		importSheet(ctx, plants, opts)
	} else if export_, _ := opts.Bool("export"); export_ {
		exportSheet(ctx, plants, opts)
	}
}

func createAdmin(ctx context.Context, cfg config.AppConfig, db *gorm.DB, opts docopt.Opts) {
	email, _ := opts.String("<email>")

	var password string
	if passwordAny := opts["--password"]; passwordAny != nil {
		password = passwordAny.(string)
	} else {
		fmt.Print("Enter password: ")
		passwordBytes, err := term.ReadPassword(int(syscall.Stdin))
		if err != nil {
			fail("read password: %v", err)
		}
		password = string(passwordBytes)
		fmt.Printf("\n")
	}

	auth := authSvcImp.New(authRepoImp.New(db), cfg.JWTSecret, cfg.SessionTTL)
	if err := auth.EnsureAdmin(ctx, email, password); err != nil {
		fail("create admin: %v", err)
	}
	fmt.Printf("admin %s ready\n", email)
}

func plantService(ctx context.Context, cfg config.AppConfig, db *gorm.DB) service.PlantService {
	var repo plantRepo.PlantRepository = plantRepoImp.New(db)
	if cfg.DatabaseURL != "" {
		pg, err := plantRepoImp.NewPostgres(ctx, cfg.DatabaseURL)
		if err != nil {
			fail("postgres: %v", err)
		}
		repo = pg
	}
	// no live views in this process; the feed only satisfies the service.
	// Postgres writes reach running servers through pg_notify.
	return plantSvcImp.New(repo, live.NewFeed(repo))
}

func importSheet(ctx context.Context, plants service.PlantService, opts docopt.Opts) {
	path, _ := opts.String("<xlsx>")
	f, err := os.Open(path)
	if err != nil {
		fail("%v", err)
	}
	defer f.Close()

	rows, err := sheet.Import(f)
	if err != nil {
		fail("%v", err)
	}
	created := 0
	for _, r := range rows {
		if _, err := plants.Create(ctx, r.Plant); err != nil {
			fmt.Fprintf(os.Stderr, "row %d: %v\n", r.Line, err)
			continue
		}
		created++
	}
	fmt.Printf("imported %d of %d rows\n", created, len(rows))
}

func exportSheet(ctx context.Context, plants service.PlantService, opts docopt.Opts) {
	path, _ := opts.String("<xlsx>")
	all, err := plants.List(ctx, "")
	if err != nil {
		fail("list plants: %v", err)
	}
	f, err := os.Create(path)
	if err != nil {
		fail("%v", err)
	}
	if err := sheet.Export(f, all); err != nil {
		f.Close()
		fail("%v", err)
	}
	if err := f.Close(); err != nil {
		fail("%v", err)
	}
	fmt.Printf("exported %d plants to %s\n", len(all), path)
}

func fail(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "herbalctl: "+format+"\n", args...)
	glog.Flush()
	os.Exit(1)
}
