// internal/store/local.go
package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/natask/faibricator/internal/apperrors"
	"github.com/natask/faibricator/internal/models"
)

// LocalStore is the device-local database of dashboard entities. It stays
// usable with no network and is the fallback of record when the remote
// mirror is unreachable.
type LocalStore struct {
	db *gorm.DB
}

// Open initializes the sqlite-backed store at path. An open or migration
// failure is a StorageUnavailableError: every dependent operation for the
// call scope is dead and callers must fall back to the seed catalog path.
func Open(path string) (*LocalStore, error) {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, &apperrors.StorageUnavailableError{Err: err}
		}
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, &apperrors.StorageUnavailableError{Err: err}
	}

	if err := db.AutoMigrate(&models.User{}, &models.Product{}, &models.Vote{}); err != nil {
		return nil, &apperrors.StorageUnavailableError{Err: fmt.Errorf("migrate: %w", err)}
	}

	return &LocalStore{db: db}, nil
}

// DB exposes the underlying handle so the vote aggregator can run against
// the local store with the same code path it uses for the remote mirror.
func (s *LocalStore) DB() *gorm.DB {
	return s.db
}

func (s *LocalStore) Close() {
	if sqlDB, err := s.db.DB(); err == nil {
		sqlDB.Close()
	}
}

// SaveProduct inserts or fully replaces a product by primary key.
func (s *LocalStore) SaveProduct(ctx context.Context, product *models.Product) error {
	return s.db.WithContext(ctx).Save(product).Error
}

// Products returns all live products ordered by creation time descending.
func (s *LocalStore) Products(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	err := s.db.WithContext(ctx).
		Preload("Creator").
		Order("created_at DESC").
		Find(&products).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch products: %w", err)
	}
	return products, nil
}

// ProductByID returns the product or a NotFoundError; absence is a normal
// negative result, not a storage failure.
func (s *LocalStore) ProductByID(ctx context.Context, id string) (*models.Product, error) {
	var product models.Product
	err := s.db.WithContext(ctx).Preload("Creator").First(&product, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.NewNotFoundError("product", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch product: %w", err)
	}
	return &product, nil
}

// DeleteProduct is idempotent; deleting an absent key is a no-op.
func (s *LocalStore) DeleteProduct(ctx context.Context, id string) error {
	return s.db.WithContext(ctx).Delete(&models.Product{}, "id = ?", id).Error
}

func (s *LocalStore) SaveUser(ctx context.Context, user *models.User) error {
	return s.db.WithContext(ctx).Save(user).Error
}

func (s *LocalStore) UserByID(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).First(&user, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.NewNotFoundError("user", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch user: %w", err)
	}
	return &user, nil
}

// VotesByUser returns every vote the user holds, newest first.
func (s *LocalStore) VotesByUser(ctx context.Context, userID string) ([]models.Vote, error) {
	var votes []models.Vote
	err := s.db.WithContext(ctx).
		Preload("Product").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&votes).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch votes: %w", err)
	}
	return votes, nil
}

// CountProducts backs the reseed presence check.
func (s *LocalStore) CountProducts(ctx context.Context) (int64, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.Product{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count products: %w", err)
	}
	return count, nil
}

// ClearAll resets every entity kind to empty. Used only by the reseed path.
func (s *LocalStore) ClearAll(ctx context.Context) error {
	for _, model := range []interface{}{&models.Vote{}, &models.Product{}, &models.User{}} {
		if err := s.db.WithContext(ctx).Where("1 = 1").Delete(model).Error; err != nil {
			return fmt.Errorf("failed to clear store: %w", err)
		}
	}
	return nil
}
