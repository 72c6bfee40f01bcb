package dao

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

func InitTables(db *gorm.DB) error {
	return db.AutoMigrate(
		&User{},
		&RegistryConfig{},
		&AcceptedToken{},
		&Card{},
		&Balance{},
		&Allowance{},
		&Event{},
	)
}

// lockForUpdate adds a row lock on dialects that support it. SQLite (tests)
// serializes writers on its own, so the clause is skipped there.
func lockForUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "postgres" {
		return tx.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return tx
}
