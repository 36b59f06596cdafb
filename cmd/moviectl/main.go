// Command moviectl runs maintenance tasks against the catalog database.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/alecthomas/kingpin/v2"

	"moviecatalog"
	"moviecatalog/internal/auth"
	"moviecatalog/internal/config"
	"moviecatalog/internal/database"
	"moviecatalog/internal/logging"
	"moviecatalog/internal/services"
)

func main() {
	var (
		app        = kingpin.New("moviectl", "Movie catalog maintenance tool.")
		configPath = app.Flag("config", "YAML config file").Envar(config.ConfigPathEnvVar).String()
		dbPath     = app.Flag("db", "SQLite database path, overrides the configuration").String()

		migrateCmd = app.Command("migrate", "Apply pending database migrations.")

		importCmd  = app.Command("import", "Replace the catalog with a dataset. Defaults to the bundled dataset.")
		importFile = importCmd.Flag("file", "JSON file with an array of movies").ExistingFile()
		importPlex = importCmd.Flag("plex", "Import the configured Plex library").Bool()

		adminCmd    = app.Command("admin", "Manage admin rights.")
		grantCmd    = adminCmd.Command("grant", "Grant admin rights to a user.")
		grantEmail  = grantCmd.Arg("email", "user email").Required().String()
		revokeCmd   = adminCmd.Command("revoke", "Revoke admin rights from a user.")
		revokeEmail = revokeCmd.Arg("email", "user email").Required().String()
	)

	command := kingpin.MustParse(app.Parse(os.Args[1:]))

	cfg, err := loadConfig(*configPath)
	app.FatalIfError(err, "load configuration")
	if *dbPath != "" {
		cfg.Database.Path = *dbPath
	}
	logging.Init(logging.Config{Level: cfg.Logging.Level, Format: "console", Output: os.Stderr})

	store, err := openStore(cfg)
	app.FatalIfError(err, "open database")
	defer store.Close()

	ctx := context.Background()
	switch command {
	case migrateCmd.FullCommand():
		fmt.Println("migrations applied")

	case importCmd.FullCommand():
		if *importFile != "" && *importPlex {
			app.Fatalf("--file and --plex are mutually exclusive")
		}
		var src services.Source = services.NewSeedSource(moviecatalog.SeedMovies())
		switch {
		case *importFile != "":
			src = services.NewFileSource(*importFile)
		case *importPlex:
			src, err = services.NewPlexSource(cfg.Plex)
			app.FatalIfError(err, "plex")
		}

		// catalog.import_enabled only gates the HTTP endpoint.
		catalogCfg := cfg.Catalog
		catalogCfg.ImportEnabled = true
		movies, err := services.NewCatalogService(store, catalogCfg).Import(ctx, src)
		app.FatalIfError(err, "import")
		fmt.Printf("imported %d movies from %s\n", len(movies), src.Name())

	case grantCmd.FullCommand(), revokeCmd.FullCommand():
		email, admin := *grantEmail, true
		if command == revokeCmd.FullCommand() {
			email, admin = *revokeEmail, false
		}
		tokens, err := auth.NewTokenManager(cfg.Security)
		app.FatalIfError(err, "token manager")
		u, err := services.NewAccountService(store, tokens, cfg.Security).SetAdmin(ctx, email, admin)
		app.FatalIfError(err, "update %s", email)
		fmt.Printf("%s admin=%t\n", u.Email, u.IsAdmin)
	}
}

func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.LoadFile(path)
	}
	return config.Load()
}

// openStore connects and migrates, so every command runs on a current schema.
func openStore(cfg *config.Config) (*database.Store, error) {
	db, err := database.Connect(cfg.Database.Path)
	if err != nil {
		return nil, err
	}
	migrations, err := moviecatalog.MigrationsFS()
	if err != nil {
		db.Close()
		return nil, err
	}
	if err := database.RunMigrations(db, migrations); err != nil {
		db.Close()
		return nil, err
	}
	return database.NewStore(db), nil
}
