package database

import (
	"go-inventory-api/internal/model"

	"gorm.io/gorm"
)

// Models lists every table in dependency order
func Models() []any {
	return []any{
		&model.Supplier{},
		&model.Product{},
		&model.User{},
		&model.Order{},
		&model.Sale{},
		&model.ProfitRecord{},
	}
}

// AutoMigrate creates or alters the schema to match the models
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(Models()...)
}
