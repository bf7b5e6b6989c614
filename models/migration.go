package models

import (
	"github.com/bluetecpy/storefront_backend/config"
)

// MigrateTables keeps the schema in sync for the CLIs and dev setups.
func MigrateTables() error {
	db := config.GetDB()
	return db.AutoMigrate(
		&ExchangeRate{},
		&Product{},
		&Document{},
		&DocumentItem{},
	)
}
