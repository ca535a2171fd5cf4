package repositories

import (
	"fmt"

	"github.com/kidwild/coinarena/internal/models"
	"github.com/kidwild/coinarena/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// CreateUser creates a new user
func (r *UserRepository) CreateUser(user *models.User) error {
	result := r.db.Create(user)
	if result.Error != nil {
		return errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to create user")
	}
	return nil
}

// GetUserByID retrieves a user by platform user id
func (r *UserRepository) GetUserByID(userID string) (*models.User, error) {
	var user models.User
	result := r.db.Where("user_id = ?", userID).First(&user)

	if result.Error == gorm.ErrRecordNotFound {
		return nil, errors.New(errors.ErrCodeNotFound, "user not found")
	}
	if result.Error != nil {
		return nil, errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to get user")
	}

	return &user, nil
}

// UpdateUser updates user information
func (r *UserRepository) UpdateUser(user *models.User) error {
	result := r.db.Save(user)
	if result.Error != nil {
		return errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to update user")
	}
	return nil
}

// GetBalance retrieves user's coin balance
func (r *UserRepository) GetBalance(userID string) (int64, error) {
	var user models.User
	result := r.db.Select("coins").Where("user_id = ?", userID).First(&user)

	if result.Error == gorm.ErrRecordNotFound {
		return 0, errors.New(errors.ErrCodeNotFound, "user not found")
	}
	if result.Error != nil {
		return 0, errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to get balance")
	}

	return user.Coins, nil
}

// AddCoins credits coins to the user's balance and lifetime earnings
func (r *UserRepository) AddCoins(userID string, amount int64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("user_id = ?", userID).First(&user).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return errors.New(errors.ErrCodeNotFound, "user not found")
			}
			return errors.Wrap(err, errors.ErrCodeInternalError, "failed to get user")
		}

		updates := map[string]interface{}{
			"coins":        user.Coins + amount,
			"total_earned": user.TotalEarned + amount,
		}
		if err := tx.Model(&user).Updates(updates).Error; err != nil {
			return errors.Wrap(err, errors.ErrCodeInternalError, "failed to update balance")
		}

		return nil
	})
}

// SpendCoins debits coins from the user's balance and lifetime spending
func (r *UserRepository) SpendCoins(userID string, amount int64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("user_id = ?", userID).First(&user).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return errors.New(errors.ErrCodeNotFound, "user not found")
			}
			return errors.Wrap(err, errors.ErrCodeInternalError, "failed to get user")
		}

		// Check sufficient balance
		if user.Coins < amount {
			return errors.New(errors.ErrCodeInsufficientFunds, fmt.Sprintf("insufficient coins: have %d, need %d", user.Coins, amount))
		}

		updates := map[string]interface{}{
			"coins":       user.Coins - amount,
			"total_spent": user.TotalSpent + amount,
		}
		if err := tx.Model(&user).Updates(updates).Error; err != nil {
			return errors.Wrap(err, errors.ErrCodeInternalError, "failed to update balance")
		}

		return nil
	})
}

// TransferCoins moves coins between two users in one transaction
func (r *UserRepository) TransferCoins(fromID, toID string, amount int64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		// Lock both rows in sorted id order so concurrent transfers
		// cannot deadlock
		var users []models.User
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("user_id IN ?", []string{fromID, toID}).
			Order("user_id").
			Find(&users).Error; err != nil {
			return errors.Wrap(err, errors.ErrCodeInternalError, "failed to lock users")
		}

		var from, to *models.User
		for i := range users {
			switch users[i].UserID {
			case fromID:
				from = &users[i]
			case toID:
				to = &users[i]
			}
		}
		if from == nil || to == nil {
			return errors.New(errors.ErrCodeNotFound, "user not found")
		}

		if from.Coins < amount {
			return errors.New(errors.ErrCodeInsufficientFunds, fmt.Sprintf("insufficient coins: have %d, need %d", from.Coins, amount))
		}

		if err := tx.Model(from).Updates(map[string]interface{}{
			"coins":       from.Coins - amount,
			"total_spent": from.TotalSpent + amount,
		}).Error; err != nil {
			return errors.Wrap(err, errors.ErrCodeInternalError, "failed to debit sender")
		}

		if err := tx.Model(to).Updates(map[string]interface{}{
			"coins":        to.Coins + amount,
			"total_earned": to.TotalEarned + amount,
		}).Error; err != nil {
			return errors.Wrap(err, errors.ErrCodeInternalError, "failed to credit receiver")
		}

		return nil
	})
}

// GetLeaderboard returns top users by coin balance
func (r *UserRepository) GetLeaderboard(limit, offset int) ([]models.User, error) {
	var users []models.User
	result := r.db.Order("coins DESC").
		Limit(limit).
		Offset(offset).
		Find(&users)

	if result.Error != nil {
		return nil, errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to get leaderboard")
	}

	return users, nil
}

// GetUserRank returns user's rank based on coin balance
func (r *UserRepository) GetUserRank(userID string) (int, error) {
	user, err := r.GetUserByID(userID)
	if err != nil {
		return 0, err
	}

	var rank int64
	result := r.db.Model(&models.User{}).Where("coins > ?", user.Coins).Count(&rank)
	if result.Error != nil {
		return 0, errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to count rank")
	}

	return int(rank) + 1, nil
}

// CountUsers returns the total number of registered users
func (r *UserRepository) CountUsers() (int64, error) {
	var count int64
	result := r.db.Model(&models.User{}).Count(&count)
	if result.Error != nil {
		return 0, errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to count users")
	}
	return count, nil
}
