// Command migrate-create scaffolds a timestamped up/down migration pair for
// golang-migrate.
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"material-mastery/internal/logging"
)

const versionLayout = "20060102150405"

var migrationName = regexp.MustCompile(`^[a-z][a-z0-9]*(_[a-z0-9]+)*$`)

func main() {
	name := flag.String("name", "", "migration name in snake_case, e.g. add_card_weights")
	dir := flag.String("dir", filepath.Join("db", "migrations"), "migrations directory")
	flag.Parse()
	logger := logging.Setup("info")

	up, down, err := createMigration(*dir, *name, time.Now().UTC())
	if err != nil {
		logger.Error("create migration failed", "name", *name, "error", err)
		os.Exit(1)
	}
	logger.Info("migration created", "up", up, "down", down)
}

// createMigration writes <version>_<name>.up.sql and .down.sql into dir.
// Neither file is written if either already exists.
func createMigration(dir, name string, now time.Time) (string, string, error) {
	if !migrationName.MatchString(name) {
		return "", "", fmt.Errorf("migration name %q must be snake_case", name)
	}
	base := now.Format(versionLayout) + "_" + name
	up := filepath.Join(dir, base+".up.sql")
	down := filepath.Join(dir, base+".down.sql")
	for _, path := range []string{up, down} {
		if _, err := os.Stat(path); err == nil {
			return "", "", fmt.Errorf("file already exists: %s", path)
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", "", err
		}
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", "", fmt.Errorf("create migrations dir: %w", err)
	}
	if err := os.WriteFile(up, []byte(migrationBody(name, "up")), 0o644); err != nil {
		return "", "", err
	}
	if err := os.WriteFile(down, []byte(migrationBody(name, "down")), 0o644); err != nil {
		_ = os.Remove(up)
		return "", "", err
	}
	return up, down, nil
}

func migrationBody(name, direction string) string {
	return fmt.Sprintf("-- %s: %s\nBEGIN;\n\nCOMMIT;\n", name, direction)
}
