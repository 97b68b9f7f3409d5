// internal/services/product_service_test.go
package services

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"

	"github.com/natask/faibricator/internal/models"
	"github.com/natask/faibricator/internal/store"
)

// fakeRemote is a scriptable stand-in for the remote mirror.
type fakeRemote struct {
	products   []models.Product
	fetchErr   error
	voteErr    error
	voteResult *models.Product
	voteCalls  int
}

func (f *fakeRemote) FetchProducts(ctx context.Context) ([]models.Product, error) {
	return f.products, f.fetchErr
}

func (f *fakeRemote) Vote(ctx context.Context, productID, userID string, quantity int) (*models.Product, error) {
	f.voteCalls++
	if f.voteErr != nil {
		return nil, f.voteErr
	}
	if f.voteResult != nil {
		return f.voteResult, nil
	}
	return &models.Product{ID: productID}, nil
}

func (f *fakeRemote) UserVotes(ctx context.Context, userID string) ([]models.Vote, error) {
	return nil, nil
}

func (f *fakeRemote) SaveProduct(ctx context.Context, product *models.Product) error { return nil }
func (f *fakeRemote) SaveUser(ctx context.Context, user *models.User) error          { return nil }

type ProductServiceTestSuite struct {
	suite.Suite
	store *store.LocalStore
	ctx   context.Context
}

func (suite *ProductServiceTestSuite) SetupTest() {
	var err error
	suite.store, err = store.Open(filepath.Join(suite.T().TempDir(), "products.db"))
	suite.Require().NoError(err)
	suite.ctx = context.Background()
}

func (suite *ProductServiceTestSuite) TearDownTest() {
	suite.store.Close()
}

func (suite *ProductServiceTestSuite) newService(remote ProductRepository) *ProductService {
	local := NewLocalRepository(suite.store)
	seeder := NewSeeder(suite.store)
	return NewProductService(remote, local, seeder, nil, 30*time.Second, 3*time.Second)
}

func (suite *ProductServiceTestSuite) TestEmptyStoreSeedsFallbackCatalog() {
	svc := suite.newService(nil)

	products, err := svc.FetchProducts(suite.ctx)
	suite.Require().NoError(err)
	suite.Require().Len(products, 5)

	titles := make(map[string]bool)
	for _, p := range products {
		titles[p.Title] = true
	}
	assert.True(suite.T(), titles["Smart Home Hub"])
	assert.True(suite.T(), titles["IoT Weather Station"])
	assert.True(suite.T(), titles["Smart Plant Monitor"])
}

func (suite *ProductServiceTestSuite) TestSeedGuardPreventsDuplicates() {
	svc := suite.newService(nil)

	_, err := svc.FetchProducts(suite.ctx)
	suite.Require().NoError(err)
	products, err := svc.FetchProducts(suite.ctx)
	suite.Require().NoError(err)

	assert.Len(suite.T(), products, 5)

	count, err := suite.store.CountProducts(suite.ctx)
	suite.Require().NoError(err)
	assert.Equal(suite.T(), int64(5), count)
}

func (suite *ProductServiceTestSuite) TestRemoteIsAuthoritativeWhenNonEmpty() {
	remote := &fakeRemote{products: []models.Product{
		{ID: "prod_remote", Title: "Remote Only Product"},
	}}
	svc := suite.newService(remote)

	products, err := svc.FetchProducts(suite.ctx)
	suite.Require().NoError(err)
	suite.Require().Len(products, 1)
	assert.Equal(suite.T(), "prod_remote", products[0].ID)
}

func (suite *ProductServiceTestSuite) TestEmptyRemoteFallsThroughToSeed() {
	svc := suite.newService(&fakeRemote{})

	products, err := svc.FetchProducts(suite.ctx)
	suite.Require().NoError(err)
	assert.Len(suite.T(), products, 5)
}

func (suite *ProductServiceTestSuite) TestRemoteErrorFallsBackToLocal() {
	svc := suite.newService(&fakeRemote{fetchErr: errors.New("connection refused")})

	products, err := svc.FetchProducts(suite.ctx)
	suite.Require().NoError(err)
	assert.Len(suite.T(), products, 5)
}

func (suite *ProductServiceTestSuite) TestVoteAppliesLocallyWhenRemoteFails() {
	remote := &fakeRemote{voteErr: errors.New("timeout")}
	svc := suite.newService(remote)

	// Seed first so the product exists locally.
	_, err := svc.FetchProducts(suite.ctx)
	suite.Require().NoError(err)

	product, err := svc.Vote(suite.ctx, "mock_1", "user_1", 10)
	suite.Require().NoError(err)
	assert.Equal(suite.T(), 1, remote.voteCalls)
	assert.Equal(suite.T(), 137, product.CurrentVotes)
}

func (suite *ProductServiceTestSuite) TestVoteOnRemoteOnlyProductReturnsRemoteResult() {
	// The product exists only in the remote mirror; the local store has
	// never seen it. A committed remote vote must report success with the
	// remote counters, not a not-found from the local replay.
	remote := &fakeRemote{
		voteResult: &models.Product{ID: "prod_remote", Title: "Remote Only Product", CurrentVotes: 46},
	}
	svc := suite.newService(remote)

	product, err := svc.Vote(suite.ctx, "prod_remote", "user_1", 5)
	suite.Require().NoError(err)
	assert.Equal(suite.T(), 1, remote.voteCalls)
	assert.Equal(suite.T(), "prod_remote", product.ID)
	assert.Equal(suite.T(), 46, product.CurrentVotes)
}

func (suite *ProductServiceTestSuite) TestVoteRemoteSuccessStillMirrorsLocally() {
	remote := &fakeRemote{}
	svc := suite.newService(remote)

	// Seed so the product exists in both stores.
	_, err := svc.FetchProducts(suite.ctx)
	suite.Require().NoError(err)

	_, err = svc.Vote(suite.ctx, "mock_1", "user_1", 10)
	suite.Require().NoError(err)

	votes, err := svc.UserVotes(suite.ctx, "user_1")
	suite.Require().NoError(err)
	suite.Require().Len(votes, 1)
	assert.Equal(suite.T(), 10, votes[0].Quantity)
}

func (suite *ProductServiceTestSuite) TestVoteRejectsNonPositiveBeforeAnyWrite() {
	remote := &fakeRemote{}
	svc := suite.newService(remote)

	_, err := svc.Vote(suite.ctx, "mock_1", "user_1", 0)
	assert.Error(suite.T(), err)
	assert.Zero(suite.T(), remote.voteCalls)
}

func (suite *ProductServiceTestSuite) TestReseedRestoresCatalog() {
	svc := suite.newService(nil)

	_, err := svc.FetchProducts(suite.ctx)
	suite.Require().NoError(err)

	_, err = svc.Vote(suite.ctx, "mock_1", "user_1", 500)
	suite.Require().NoError(err)

	suite.Require().NoError(svc.Reseed(suite.ctx))

	products, err := svc.FetchProducts(suite.ctx)
	suite.Require().NoError(err)
	suite.Require().Len(products, 5)
	for _, p := range products {
		if p.ID == "mock_1" {
			assert.Equal(suite.T(), 127, p.CurrentVotes)
		}
	}
}

func TestProductServiceSuite(t *testing.T) {
	suite.Run(t, new(ProductServiceTestSuite))
}
