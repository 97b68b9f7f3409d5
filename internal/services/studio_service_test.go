// internal/services/studio_service_test.go
package services

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"

	"github.com/natask/faibricator/internal/apperrors"
	"github.com/natask/faibricator/internal/models"
	"github.com/natask/faibricator/internal/store"
)

// stubCompressor produces output whose size tracks the requested quality so
// each ladder step shrinks the payload deterministically.
type stubCompressor struct {
	calls int
}

func (s *stubCompressor) Compress(img models.ImageFile, opts CompressOptions) (models.ImageFile, error) {
	s.calls++
	img.Base64 = strings.Repeat("a", opts.Quality*100)
	return img, nil
}

type StudioServiceTestSuite struct {
	suite.Suite
	dir        string
	compressor *stubCompressor
}

func (suite *StudioServiceTestSuite) SetupTest() {
	suite.dir = suite.T().TempDir()
	suite.compressor = &stubCompressor{}
}

func (suite *StudioServiceTestSuite) newService(quota int64) (*StudioService, *store.SnapshotStore) {
	snapshots := store.NewSnapshotStore(filepath.Join(suite.dir, "projects.json"), quota)
	return NewStudioService(snapshots, suite.compressor, nil, nil), snapshots
}

func bigImage(name string) models.ImageFile {
	return models.ImageFile{
		Base64:   strings.Repeat("x", 20000),
		MimeType: "image/png",
		Name:     name,
	}
}

func (suite *StudioServiceTestSuite) testProject(id string) *models.StudioProject {
	return &models.StudioProject{
		ID:        id,
		Name:      "Folding Desk Organizer",
		CreatedAt: time.Now().UnixMilli(),
		History: []models.ImageFile{
			bigImage("v5.png"),
			bigImage("v4.png"),
			bigImage("v3.png"),
			bigImage("v2.png"),
			bigImage("original.png"),
		},
	}
}

func (suite *StudioServiceTestSuite) TestSaveTrimsHistoryToLatestAndOriginal() {
	svc, snapshots := suite.newService(1 << 20)
	project := suite.testProject("proj_trim")

	suite.Require().NoError(svc.SaveProject(project))

	// The caller's copy keeps its full history.
	assert.Len(suite.T(), project.History, 5)

	saved, err := snapshots.Load()
	suite.Require().NoError(err)
	suite.Require().Len(saved, 1)
	suite.Require().Len(saved[0].History, 2)
	assert.Equal(suite.T(), "v5.png", saved[0].History[0].Name)
	assert.Equal(suite.T(), "original.png", saved[0].History[1].Name)
}

func (suite *StudioServiceTestSuite) TestSaveValidatesInput() {
	svc, _ := suite.newService(1 << 20)

	err := svc.SaveProject(&models.StudioProject{History: []models.ImageFile{bigImage("a.png")}})
	assert.True(suite.T(), apperrors.IsValidation(err))

	err = svc.SaveProject(&models.StudioProject{ID: "proj_empty"})
	assert.True(suite.T(), apperrors.IsValidation(err))
}

func (suite *StudioServiceTestSuite) TestQuotaPressureWalksDegradationLadder() {
	// Trimmed snapshot carries two 20000-char images, far over this quota.
	// Step quality maps to payload size through the stub, so only the last
	// step (quality 55) fits.
	svc, snapshots := suite.newService(12000)
	project := suite.testProject("proj_ladder")

	suite.Require().NoError(svc.SaveProject(project))
	assert.True(suite.T(), suite.compressor.calls > 2)

	saved, err := snapshots.Load()
	suite.Require().NoError(err)
	suite.Require().Len(saved, 1)
	assert.Len(suite.T(), saved[0].History[0].Base64, 5500)
}

func (suite *StudioServiceTestSuite) TestLadderExhaustionReturnsQuotaError() {
	svc, snapshots := suite.newService(1000)
	project := suite.testProject("proj_doomed")

	err := svc.SaveProject(project)
	assert.True(suite.T(), apperrors.IsQuotaExceeded(err))

	// Nothing was persisted and the in-memory project is intact.
	saved, loadErr := snapshots.Load()
	suite.Require().NoError(loadErr)
	assert.Empty(suite.T(), saved)
	assert.Len(suite.T(), project.History, 5)
}

func (suite *StudioServiceTestSuite) TestSaveReplacesExistingProject() {
	svc, snapshots := suite.newService(1 << 20)

	project := suite.testProject("proj_same")
	suite.Require().NoError(svc.SaveProject(project))

	project.Name = "Renamed Organizer"
	suite.Require().NoError(svc.SaveProject(project))

	saved, err := snapshots.Load()
	suite.Require().NoError(err)
	suite.Require().Len(saved, 1)
	assert.Equal(suite.T(), "Renamed Organizer", saved[0].Name)
}

func (suite *StudioServiceTestSuite) TestDeleteAbsentProjectIsNoOp() {
	svc, _ := suite.newService(1 << 20)
	suite.Require().NoError(svc.SaveProject(suite.testProject("proj_keep")))

	path := filepath.Join(suite.dir, "projects.json")
	before, err := os.ReadFile(path)
	suite.Require().NoError(err)

	suite.Require().NoError(svc.DeleteProject("proj_never_existed"))

	// The persisted collection is untouched by a delete of an unknown id.
	after, err := os.ReadFile(path)
	suite.Require().NoError(err)
	assert.Equal(suite.T(), before, after)
}

func (suite *StudioServiceTestSuite) TestDeleteRemovesProject() {
	svc, snapshots := suite.newService(1 << 20)

	suite.Require().NoError(svc.SaveProject(suite.testProject("proj_a")))
	suite.Require().NoError(svc.SaveProject(suite.testProject("proj_b")))
	suite.Require().NoError(svc.DeleteProject("proj_a"))

	saved, err := snapshots.Load()
	suite.Require().NoError(err)
	suite.Require().Len(saved, 1)
	assert.Equal(suite.T(), "proj_b", saved[0].ID)
}

func (suite *StudioServiceTestSuite) TestProjectsOrderedNewestFirst() {
	svc, _ := suite.newService(1 << 20)

	older := suite.testProject("proj_old")
	older.CreatedAt = time.Now().Add(-time.Hour).UnixMilli()
	newer := suite.testProject("proj_new")

	suite.Require().NoError(svc.SaveProject(older))
	suite.Require().NoError(svc.SaveProject(newer))

	projects, err := svc.Projects()
	suite.Require().NoError(err)
	suite.Require().Len(projects, 2)
	assert.Equal(suite.T(), "proj_new", projects[0].ID)
}

func (suite *StudioServiceTestSuite) TestPublishProjectCreatesProduct() {
	localStore, err := store.Open(filepath.Join(suite.dir, "publish.db"))
	suite.Require().NoError(err)
	defer localStore.Close()

	products := NewProductService(nil, NewLocalRepository(localStore), NewSeeder(localStore), nil, 0, 0)

	snapshots := store.NewSnapshotStore(filepath.Join(suite.dir, "publish.json"), 1<<20)
	svc := NewStudioService(snapshots, suite.compressor, products, nil)

	project := suite.testProject("proj_pub")
	project.ChatHistory = []models.ChatMessage{
		{Sender: models.SenderUser, Text: "make it blue"},
		{Sender: models.SenderAI, Text: "A compact folding organizer in matte blue."},
	}
	suite.Require().NoError(svc.SaveProject(project))

	product, err := svc.PublishProject(context.Background(), "proj_pub", "")
	suite.Require().NoError(err)

	assert.Equal(suite.T(), "Folding Desk Organizer", product.Title)
	assert.Equal(suite.T(), "A compact folding organizer in matte blue.", product.Description)
	assert.Equal(suite.T(), 50, product.MinOrderQuantity)
	assert.Zero(suite.T(), product.CurrentVotes)
	assert.True(suite.T(), strings.HasPrefix(product.ProductImage, "data:image/png;base64,"))

	stored, err := localStore.ProductByID(context.Background(), product.ID)
	suite.Require().NoError(err)
	assert.Equal(suite.T(), "Studio User", stored.Creator.Name)
}

func (suite *StudioServiceTestSuite) TestPublishUnknownProject() {
	svc, _ := suite.newService(1 << 20)

	_, err := svc.PublishProject(context.Background(), "proj_missing", "")
	assert.True(suite.T(), apperrors.IsNotFound(err))
}

func TestStudioServiceSuite(t *testing.T) {
	suite.Run(t, new(StudioServiceTestSuite))
}
