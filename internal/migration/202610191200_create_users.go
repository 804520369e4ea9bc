package migration

import (
	"github.com/PayRam/go-collection/models"
	"github.com/go-gormigrate/gormigrate/v2"
	"gorm.io/gorm"
)

var CreateUsers = &gormigrate.Migration{
	ID: "202610191200-gc-create-users",
	Migrate: func(db *gorm.DB) error {
		return db.AutoMigrate(&models.User{})
	},
	Rollback: func(db *gorm.DB) error {
		return db.Migrator().DropTable(&models.User{})
	},
}
