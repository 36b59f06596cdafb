package moviecatalog

import (
	"embed"
	"io/fs"
)

//go:embed db/migrations/*.sql
var migrationFiles embed.FS

//go:embed data/movies.json
var seedMovies []byte

// MigrationsFS returns the embedded SQL migrations rooted at their directory.
func MigrationsFS() (fs.FS, error) {
	return fs.Sub(migrationFiles, "db/migrations")
}

// SeedMovies returns the bundled catalog dataset as a JSON array.
func SeedMovies() []byte {
	return seedMovies
}
