package main

import (
	"errors"
	"flag"
	"log"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"

	"splitledger/internal/config"
)

func main() {
	direction := flag.String("direction", "up", "migration direction (up/down)")
	steps := flag.Int("steps", 0, "number of steps (0 means all)")
	flag.Parse()

	cfg := config.Load()
	migrator, err := migrate.New("file://"+cfg.MigrationsDir, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to initialize migrator: %v", err)
	}
	defer migrator.Close()

	switch *direction {
	case "up":
		if *steps > 0 {
			err = migrator.Steps(*steps)
		} else {
			err = migrator.Up()
		}
	case "down":
		if *steps > 0 {
			err = migrator.Steps(-*steps)
		} else {
			err = migrator.Down()
		}
	default:
		log.Fatalf("unknown direction %q", *direction)
	}
	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		log.Fatalf("migration failed: %v", err)
	}
	log.Println("migrations applied")
}
