package services

import (
	"academic-registry-api/models"
	"errors"

	"gorm.io/gorm"
)

// Credit balance helpers shared by the paid paths (citations, dataset access).
// All mutations run inside the caller's transaction.

func debitBalance(tx *gorm.DB, userID int, amount int64) error {
	var user models.User
	if err := tx.Where("user_id = ? AND delete_at IS NULL", userID).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return notFoundError("User not found")
		}
		return err
	}
	if user.Balance < amount {
		return paymentError("Insufficient balance")
	}
	return tx.Model(&models.User{}).
		Where("user_id = ?", userID).
		Update("balance", gorm.Expr("balance - ?", amount)).Error
}

func creditBalance(tx *gorm.DB, userID int, amount int64) error {
	return tx.Model(&models.User{}).
		Where("user_id = ?", userID).
		Update("balance", gorm.Expr("balance + ?", amount)).Error
}

func addRegistryEarning(tx *gorm.DB, registry string, amount int64) error {
	var earning models.RegistryEarning
	err := tx.Where("registry = ?", registry).First(&earning).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		earning = models.RegistryEarning{Registry: registry, TotalRetained: amount}
		return tx.Create(&earning).Error
	}
	if err != nil {
		return err
	}
	return tx.Model(&models.RegistryEarning{}).
		Where("registry = ?", registry).
		Update("total_retained", gorm.Expr("total_retained + ?", amount)).Error
}

// WalletService funds caller accounts; citation and access payments are
// debited from these balances.
type WalletService struct {
	db *gorm.DB
}

func NewWalletService(db *gorm.DB) *WalletService {
	return &WalletService{db: db}
}

// Deposit credits the caller's own balance.
func (s *WalletService) Deposit(caller Caller, amount int64) (int64, error) {
	if amount <= 0 {
		return 0, stateError("Deposit amount must be positive")
	}
	var balance int64
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := creditBalance(tx, caller.UserID, amount); err != nil {
			return err
		}
		var user models.User
		if err := tx.Where("user_id = ?", caller.UserID).First(&user).Error; err != nil {
			return err
		}
		balance = user.Balance
		return nil
	})
	if err != nil {
		return 0, err
	}
	return balance, nil
}

// Balance returns the caller's current balance.
func (s *WalletService) Balance(caller Caller) (int64, error) {
	var user models.User
	if err := s.db.Where("user_id = ?", caller.UserID).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, notFoundError("User not found")
		}
		return 0, err
	}
	return user.Balance, nil
}
