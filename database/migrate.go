package database

import (
	"hradmin/domain"

	"gorm.io/gorm"
)

func MigrateDB(db *gorm.DB) error {
	// Join tables are registered first so gorm uses the structs with
	// their created_at columns instead of implicit join tables.
	if err := db.SetupJoinTable(&domain.Role{}, "Permissions", &domain.RolePermission{}); err != nil {
		return err
	}
	if err := db.SetupJoinTable(&domain.User{}, "Permissions", &domain.UserPermission{}); err != nil {
		return err
	}

	return db.AutoMigrate(
		&domain.Permission{},
		&domain.Role{},
		&domain.Department{},
		&domain.Employee{},
		&domain.User{},
		&domain.UserSession{},
	)
}
