// internal/services/seed.go
package services

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/natask/faibricator/internal/models"
	"github.com/natask/faibricator/internal/store"
)

// Seeder guarantees the dashboard is never empty on a fresh device. It
// writes a fixed catalog through the local store exactly once; re-invocation
// is a no-op once the store holds any product.
type Seeder struct {
	store *store.LocalStore
}

func NewSeeder(localStore *store.LocalStore) *Seeder {
	return &Seeder{store: localStore}
}

// EnsureSeeded writes the fallback catalog unless the store already has at
// least one product. Returns true when a seed actually happened.
func (s *Seeder) EnsureSeeded(ctx context.Context) (bool, error) {
	count, err := s.store.CountProducts(ctx)
	if err != nil {
		return false, err
	}
	if count > 0 {
		return false, nil
	}

	if err := s.Seed(ctx); err != nil {
		return false, err
	}
	return true, nil
}

// Seed writes the fixed catalog unconditionally. Callers wanting the
// guarded path use EnsureSeeded; the reseed endpoint clears first.
func (s *Seeder) Seed(ctx context.Context) error {
	for _, user := range fallbackUsers() {
		u := user
		if err := s.store.SaveUser(ctx, &u); err != nil {
			return fmt.Errorf("failed to seed user %s: %w", u.ID, err)
		}
	}

	for _, product := range fallbackCatalog() {
		p := product
		if err := s.store.SaveProduct(ctx, &p); err != nil {
			return fmt.Errorf("failed to seed product %s: %w", p.ID, err)
		}
	}

	logrus.Info("Seeded fallback product catalog")
	return nil
}

func seedTime(value string) time.Time {
	t, _ := time.Parse(time.RFC3339, value)
	return t
}

func fallbackUsers() []models.User {
	return []models.User{
		{ID: "user_1", Name: "John Smith", Email: "john@example.com", CreatedAt: seedTime("2025-08-01T00:00:00Z")},
		{ID: "user_2", Name: "Sarah Johnson", Email: "sarah@example.com", CreatedAt: seedTime("2025-08-01T00:00:00Z")},
		{ID: "user_3", Name: "Mike Chen", Email: "mike@example.com", CreatedAt: seedTime("2025-08-01T00:00:00Z")},
	}
}

func fallbackCatalog() []models.Product {
	return []models.Product{
		{
			ID:               "mock_1",
			Title:            "Smart Home Hub",
			Description:      "A centralized control system for all your smart home devices with voice control and mobile app integration.",
			ProductImage:     "https://images.unsplash.com/photo-1558618666-fcd25c85cd64?w=400&h=300&fit=crop&crop=center",
			CreatorID:        "user_1",
			MinOrderQuantity: 50,
			CurrentVotes:     127,
			ProductsOrdered:  45,
			CreatedAt:        seedTime("2025-08-10T00:00:00Z"),
			UpdatedAt:        seedTime("2025-08-10T00:00:00Z"),
		},
		{
			ID:               "mock_2",
			Title:            "IoT Weather Station",
			Description:      "Compact weather monitoring device with sensors for temperature, humidity, pressure, and air quality.",
			ProductImage:     "https://images.unsplash.com/photo-1581091226825-a6a2a5aee158?w=400&h=300&fit=crop&crop=center",
			CreatorID:        "user_2",
			MinOrderQuantity: 25,
			CurrentVotes:     203,
			ProductsOrdered:  156,
			CreatedAt:        seedTime("2025-08-11T00:00:00Z"),
			UpdatedAt:        seedTime("2025-08-11T00:00:00Z"),
		},
		{
			ID:               "mock_3",
			Title:            "Portable Bluetooth Speaker",
			Description:      "Waterproof portable speaker with 360-degree sound and 12-hour battery life.",
			ProductImage:     "https://images.unsplash.com/photo-1608043152269-423dbba4e7e1?w=400&h=300&fit=crop&crop=center",
			CreatorID:        "user_3",
			MinOrderQuantity: 200,
			CurrentVotes:     156,
			ProductsOrdered:  89,
			CreatedAt:        seedTime("2025-08-31T00:00:00Z"),
			UpdatedAt:        seedTime("2025-08-31T00:00:00Z"),
		},
		{
			ID:               "mock_4",
			Title:            "Smart Plant Monitor",
			Description:      "Automated plant care device that monitors soil moisture, light levels, and nutrients.",
			ProductImage:     "https://images.unsplash.com/photo-1416879595882-3373a0480b5b?w=400&h=300&fit=crop&crop=center",
			CreatorID:        "user_1",
			MinOrderQuantity: 30,
			CurrentVotes:     94,
			ProductsOrdered:  34,
			CreatedAt:        seedTime("2025-08-23T00:00:00Z"),
			UpdatedAt:        seedTime("2025-08-23T00:00:00Z"),
		},
		{
			ID:               "mock_5",
			Title:            "LED Desk Lamp",
			Description:      "Adjustable LED desk lamp with color temperature control and USB charging port.",
			ProductImage:     "https://images.unsplash.com/photo-1586023492125-27b2c045efd7?w=400&h=300&fit=crop&crop=center",
			CreatorID:        "user_2",
			MinOrderQuantity: 100,
			CurrentVotes:     78,
			ProductsOrdered:  23,
			CreatedAt:        seedTime("2025-08-11T00:00:00Z"),
			UpdatedAt:        seedTime("2025-08-11T00:00:00Z"),
		},
	}
}
