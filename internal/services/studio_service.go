// internal/services/studio_service.go
package services

import (
	"context"
	"sort"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/natask/faibricator/internal/apperrors"
	"github.com/natask/faibricator/internal/models"
	"github.com/natask/faibricator/internal/store"
)

// degradeStep is one rung of the save ladder: a lossy transform applied to
// the project before the persist is retried. Steps drop the
// least-recently-useful material first (old chat, editing intermediates,
// then secondary artifacts).
type degradeStep struct {
	name             string
	maxDim           int
	quality          int
	chatTail         int
	dropTechPackOver int64 // -1 keep, 0 always drop, >0 drop above threshold
	compressSketch   bool
}

var degradeLadder = []degradeStep{
	{name: "compress", maxDim: 1400, quality: 80, chatTail: 30, dropTechPackOver: -1},
	{name: "trim", maxDim: 1000, quality: 65, chatTail: 15, dropTechPackOver: 200_000},
	{name: "minimal", maxDim: 800, quality: 55, chatTail: 10, dropTechPackOver: 0, compressSketch: true},
}

// StudioService manages design-session snapshots under the storage quota
// and turns finished sessions into dashboard products.
type StudioService struct {
	snapshots  *store.SnapshotStore
	compressor ImageCompressor
	products   *ProductService
	storage    *StorageService
}

func NewStudioService(snapshots *store.SnapshotStore, compressor ImageCompressor, products *ProductService, storage *StorageService) *StudioService {
	return &StudioService{
		snapshots:  snapshots,
		compressor: compressor,
		products:   products,
		storage:    storage,
	}
}

// Projects returns all saved projects, newest first.
func (s *StudioService) Projects() ([]models.StudioProject, error) {
	projects, err := s.snapshots.Load()
	if err != nil {
		return nil, err
	}
	sort.Slice(projects, func(i, j int) bool {
		return projects[i].CreatedAt > projects[j].CreatedAt
	})
	return projects, nil
}

// SaveProject persists a snapshot of the project. The in-memory copy the
// caller holds is never mutated: a clone is trimmed (only the latest and
// original images survive a save) and written; quota failures walk the
// degradation ladder until the payload fits or the ladder is exhausted.
// Exhaustion returns the quota error so the caller can show a non-fatal
// warning while the session state stays usable in memory.
func (s *StudioService) SaveProject(project *models.StudioProject) error {
	if project.ID == "" {
		return apperrors.NewValidationError("id", "is required")
	}
	if len(project.History) == 0 {
		return apperrors.NewValidationError("history", "must contain at least one image")
	}

	snapshot := project.Clone()
	trimHistory(snapshot)

	projects, err := s.snapshots.Load()
	if err != nil {
		return err
	}
	projects = upsertProject(projects, *snapshot)

	err = s.snapshots.Save(projects)
	if !apperrors.IsQuotaExceeded(err) {
		return err
	}

	for _, step := range degradeLadder {
		degraded, stepErr := s.applyStep(snapshot.Clone(), step)
		if stepErr != nil {
			logrus.WithError(stepErr).WithField("step", step.name).
				Warn("Degradation step failed, trying next")
			continue
		}
		projects = upsertProject(projects, *degraded)

		err = s.snapshots.Save(projects)
		if err == nil {
			logrus.WithFields(logrus.Fields{
				"project_id": project.ID,
				"step":       step.name,
			}).Info("Project saved after degradation")
			return nil
		}
		if !apperrors.IsQuotaExceeded(err) {
			return err
		}
	}

	return err
}

// DeleteProject removes one project from the persisted collection. Deleting
// an unknown id is a no-op, and a failure to persist the shrunken list is
// logged but not escalated.
func (s *StudioService) DeleteProject(id string) error {
	projects, err := s.snapshots.Load()
	if err != nil {
		return err
	}

	remaining := projects[:0:0]
	for _, p := range projects {
		if p.ID != id {
			remaining = append(remaining, p)
		}
	}
	if len(remaining) == len(projects) {
		return nil
	}

	if err := s.snapshots.Save(remaining); err != nil {
		logrus.WithError(err).WithField("project_id", id).
			Warn("Failed to persist project deletion")
	}
	return nil
}

// PublishProject derives a dashboard product from a saved project: the
// latest image, the first AI description from the transcript, and a default
// minimum order quantity.
func (s *StudioService) PublishProject(ctx context.Context, id, creatorID string) (*models.Product, error) {
	projects, err := s.snapshots.Load()
	if err != nil {
		return nil, err
	}

	var project *models.StudioProject
	for i := range projects {
		if projects[i].ID == id {
			project = &projects[i]
			break
		}
	}
	if project == nil {
		return nil, apperrors.NewNotFoundError("project", id)
	}

	latest := project.Latest()
	if latest == nil {
		return nil, apperrors.NewValidationError("history", "project has no images")
	}

	compressed, err := s.compressor.Compress(*latest, CompressOptions{
		MaxWidth:  800,
		MaxHeight: 600,
		Quality:   80,
		Format:    "jpeg",
	})
	if err != nil {
		logrus.WithError(err).Warn("Publish image compression failed, using original")
		compressed = *latest
	}

	imageRef := compressed.DataURL()
	if s.storage != nil {
		if result, uploadErr := s.storage.UploadImage(ctx, compressed, "products"); uploadErr == nil {
			imageRef = result.URL
		} else {
			logrus.WithError(uploadErr).Warn("Product image upload failed, embedding image inline")
		}
	}

	if creatorID == "" {
		creatorID = "user_studio"
	}
	creator := &models.User{
		ID:        creatorID,
		Name:      "Studio User",
		Email:     "studio@fabricator.com",
		CreatedAt: time.Now(),
	}

	now := time.Now()
	product := &models.Product{
		ID:               models.NewProductID(),
		Title:            project.Name,
		Description:      firstAIMessage(project.ChatHistory),
		ProductImage:     imageRef,
		CreatorID:        creator.ID,
		MinOrderQuantity: 50,
		CurrentVotes:     0,
		ProductsOrdered:  0,
		CreatedAt:        time.UnixMilli(project.CreatedAt),
		UpdatedAt:        now,
		Creator:          creator,
	}

	if err := s.products.CreateProduct(ctx, product, creator); err != nil {
		return nil, err
	}
	return product, nil
}

func (s *StudioService) applyStep(p *models.StudioProject, step degradeStep) (*models.StudioProject, error) {
	opts := CompressOptions{MaxWidth: step.maxDim, MaxHeight: step.maxDim, Quality: step.quality}

	for i := range p.History {
		compressed, err := s.compressor.Compress(p.History[i], opts)
		if err != nil {
			return nil, err
		}
		p.History[i] = compressed
	}

	if step.chatTail > 0 && len(p.ChatHistory) > step.chatTail {
		p.ChatHistory = append([]models.ChatMessage(nil), p.ChatHistory[len(p.ChatHistory)-step.chatTail:]...)
	}

	switch {
	case step.dropTechPackOver == 0:
		p.TechPack = ""
	case step.dropTechPackOver > 0 && int64(len(p.TechPack)) > step.dropTechPackOver:
		p.TechPack = ""
	}

	if step.compressSketch && p.FinalSketch != nil {
		sketch, err := s.compressor.Compress(*p.FinalSketch, opts)
		if err != nil {
			return nil, err
		}
		p.FinalSketch = &sketch
	}

	return p, nil
}

// trimHistory keeps only the two conceptual endpoints of the edit history:
// the latest image and the original upload.
func trimHistory(p *models.StudioProject) {
	if len(p.History) > 2 {
		p.History = []models.ImageFile{p.History[0], p.History[len(p.History)-1]}
	}
}

func upsertProject(projects []models.StudioProject, project models.StudioProject) []models.StudioProject {
	for i := range projects {
		if projects[i].ID == project.ID {
			projects[i] = project
			return projects
		}
	}
	return append([]models.StudioProject{project}, projects...)
}

func firstAIMessage(messages []models.ChatMessage) string {
	for _, msg := range messages {
		if msg.Sender == models.SenderAI && msg.Text != "" {
			return msg.Text
		}
	}
	return "AI-generated product concept"
}
