package database

import (
	"fmt"

	"github.com/Siam456/flowtrance-finance-backend/internal/models"

	"gorm.io/gorm"
)

// AutoMigrate runs database schema migrations for all models.
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.User{},
		&models.Account{},
		&models.Transaction{},
		&models.TargetSavings{},
		&models.Borrowing{},
		&models.Budget{},
		&models.FixedExpense{},
		&models.PossibleExpense{},
		&models.AuditLog{},
	); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}
