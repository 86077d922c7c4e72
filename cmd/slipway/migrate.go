package main

import (
	"log"

	"github.com/voidshard/slipway/pkg/database"
)

const (
	docMigrate = `Apply database migrations`
)

type optsMigrate struct {
	optsDatabase
}

func (c *optsMigrate) Execute(args []string) error {
	err := database.Migrate(&database.Options{URL: c.DatabaseURL})
	if err != nil {
		return err
	}
	log.Println("migrations applied")
	return nil
}
