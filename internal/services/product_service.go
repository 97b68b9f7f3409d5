// internal/services/product_service.go
package services

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/natask/faibricator/internal/apperrors"
	"github.com/natask/faibricator/internal/models"
	"github.com/natask/faibricator/internal/store"
)

const productCacheKey = "fabricator:products:v1"

// ProductRepository is the single capability both backends implement. The
// selector in ProductService tries the remote mirror first and falls back
// to the local store instead of branching in handler code.
type ProductRepository interface {
	FetchProducts(ctx context.Context) ([]models.Product, error)
	Vote(ctx context.Context, productID, userID string, quantity int) (*models.Product, error)
	UserVotes(ctx context.Context, userID string) ([]models.Vote, error)
	SaveProduct(ctx context.Context, product *models.Product) error
	SaveUser(ctx context.Context, user *models.User) error
}

// RemoteRepository mirrors mutations against the hosted postgres store.
type RemoteRepository struct {
	db    *gorm.DB
	votes *VoteService
}

func NewRemoteRepository(db *gorm.DB) *RemoteRepository {
	return &RemoteRepository{db: db, votes: NewVoteService(db)}
}

func (r *RemoteRepository) FetchProducts(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	err := r.db.WithContext(ctx).
		Preload("Creator").
		Order("created_at DESC").
		Find(&products).Error
	if err != nil {
		return nil, err
	}
	return products, nil
}

func (r *RemoteRepository) Vote(ctx context.Context, productID, userID string, quantity int) (*models.Product, error) {
	return r.votes.Vote(ctx, productID, userID, quantity)
}

func (r *RemoteRepository) UserVotes(ctx context.Context, userID string) ([]models.Vote, error) {
	return r.votes.UserVotes(ctx, userID)
}

func (r *RemoteRepository) SaveProduct(ctx context.Context, product *models.Product) error {
	return r.db.WithContext(ctx).Save(product).Error
}

func (r *RemoteRepository) SaveUser(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Save(user).Error
}

// LocalRepository adapts the local object store to the repository
// capability; it is the fallback of record.
type LocalRepository struct {
	store *store.LocalStore
	votes *VoteService
}

func NewLocalRepository(localStore *store.LocalStore) *LocalRepository {
	return &LocalRepository{store: localStore, votes: NewVoteService(localStore.DB())}
}

func (r *LocalRepository) FetchProducts(ctx context.Context) ([]models.Product, error) {
	return r.store.Products(ctx)
}

func (r *LocalRepository) Vote(ctx context.Context, productID, userID string, quantity int) (*models.Product, error) {
	return r.votes.Vote(ctx, productID, userID, quantity)
}

func (r *LocalRepository) UserVotes(ctx context.Context, userID string) ([]models.Vote, error) {
	return r.votes.UserVotes(ctx, userID)
}

func (r *LocalRepository) SaveProduct(ctx context.Context, product *models.Product) error {
	return r.store.SaveProduct(ctx, product)
}

func (r *LocalRepository) SaveUser(ctx context.Context, user *models.User) error {
	return r.store.SaveUser(ctx, user)
}

// ProductService is the remote-or-local selector. Remote reads/writes get
// one attempt under a bounded timeout; on failure or empty result control
// passes to the local store, and the seed catalog backs the very first run.
type ProductService struct {
	remote        ProductRepository // nil when no remote mirror is configured
	local         *LocalRepository
	seeder        *Seeder
	cache         *redis.Client // nil when redis is not configured
	cacheTTL      time.Duration
	remoteTimeout time.Duration
}

func NewProductService(remote ProductRepository, local *LocalRepository, seeder *Seeder, cache *redis.Client, cacheTTL, remoteTimeout time.Duration) *ProductService {
	if remoteTimeout <= 0 {
		remoteTimeout = 3 * time.Second
	}
	return &ProductService{
		remote:        remote,
		local:         local,
		seeder:        seeder,
		cache:         cache,
		cacheTTL:      cacheTTL,
		remoteTimeout: remoteTimeout,
	}
}

// FetchProducts resolves the product list: cache, then remote (authoritative
// when it returns at least one record), then local store, then the seeded
// fallback catalog. The grid is never left empty and silent.
func (s *ProductService) FetchProducts(ctx context.Context) ([]models.Product, error) {
	if cached := s.cachedProducts(ctx); cached != nil {
		return cached, nil
	}

	if s.remote != nil {
		rctx, cancel := context.WithTimeout(ctx, s.remoteTimeout)
		products, err := s.remote.FetchProducts(rctx)
		cancel()
		switch {
		case err != nil:
			logrus.WithError(err).Warn("Remote product fetch failed, falling back to local store")
		case len(products) > 0:
			s.cacheProducts(ctx, products)
			return products, nil
		}
	}

	products, err := s.local.FetchProducts(ctx)
	if err != nil {
		return nil, err
	}
	if len(products) > 0 {
		return products, nil
	}

	if _, err := s.seeder.EnsureSeeded(ctx); err != nil {
		return nil, err
	}
	return s.local.FetchProducts(ctx)
}

// Vote attempts the remote mutation once. On success the remote counters
// are the reply and the vote is mirrored into the local store best-effort;
// a remote-only product must not 404 after its vote durably committed. Only
// when the remote attempt fails (or no mirror is configured) does the local
// aggregator become authoritative.
func (s *ProductService) Vote(ctx context.Context, productID, userID string, quantity int) (*models.Product, error) {
	if quantity <= 0 {
		return nil, apperrors.NewValidationError("quantity", "must be a positive integer")
	}

	if s.remote != nil {
		rctx, cancel := context.WithTimeout(ctx, s.remoteTimeout)
		product, err := s.remote.Vote(rctx, productID, userID, quantity)
		cancel()
		if err == nil {
			if _, localErr := s.local.Vote(ctx, productID, userID, quantity); localErr != nil {
				logrus.WithError(localErr).WithField("product_id", productID).
					Warn("Local vote mirror failed, remote copy is authoritative")
			}
			s.invalidateCache(ctx)
			return product, nil
		}
		logrus.WithError(err).WithField("product_id", productID).
			Warn("Remote vote failed, keeping local copy authoritative")
	}

	product, err := s.local.Vote(ctx, productID, userID, quantity)
	s.invalidateCache(ctx)
	return product, err
}

// UserVotes reads from the local store; every vote is applied there whether
// or not the remote write succeeded, so it is the complete record.
func (s *ProductService) UserVotes(ctx context.Context, userID string) ([]models.Vote, error) {
	return s.local.UserVotes(ctx, userID)
}

// CreateProduct persists a published product (and its creator) locally, and
// mirrors it remotely best-effort.
func (s *ProductService) CreateProduct(ctx context.Context, product *models.Product, creator *models.User) error {
	if creator != nil {
		if err := s.local.SaveUser(ctx, creator); err != nil {
			return err
		}
	}
	if err := s.local.SaveProduct(ctx, product); err != nil {
		return err
	}

	if s.remote != nil {
		rctx, cancel := context.WithTimeout(ctx, s.remoteTimeout)
		defer cancel()
		if creator != nil {
			if err := s.remote.SaveUser(rctx, creator); err != nil {
				logrus.WithError(err).Warn("Remote user mirror failed")
			}
		}
		if err := s.remote.SaveProduct(rctx, product); err != nil {
			logrus.WithError(err).WithField("product_id", product.ID).
				Warn("Remote product mirror failed")
		}
	}

	s.invalidateCache(ctx)
	return nil
}

// Reseed clears the local store and rewrites the fallback catalog.
func (s *ProductService) Reseed(ctx context.Context) error {
	if err := s.local.store.ClearAll(ctx); err != nil {
		return err
	}
	if err := s.seeder.Seed(ctx); err != nil {
		return err
	}
	s.invalidateCache(ctx)
	return nil
}

func (s *ProductService) cachedProducts(ctx context.Context) []models.Product {
	if s.cache == nil {
		return nil
	}
	data, err := s.cache.Get(ctx, productCacheKey).Bytes()
	if err != nil {
		return nil
	}
	var products []models.Product
	if err := json.Unmarshal(data, &products); err != nil {
		return nil
	}
	return products
}

func (s *ProductService) cacheProducts(ctx context.Context, products []models.Product) {
	if s.cache == nil {
		return
	}
	data, err := json.Marshal(products)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, productCacheKey, data, s.cacheTTL).Err(); err != nil {
		logrus.WithError(err).Debug("Product cache write failed")
	}
}

func (s *ProductService) invalidateCache(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Del(ctx, productCacheKey).Err(); err != nil {
		logrus.WithError(err).Debug("Product cache invalidation failed")
	}
}
