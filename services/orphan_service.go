package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"liff-member-backend/models"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const sweepBatchSize = 100

// OrphanRepository stores orphaned identities.
type OrphanRepository interface {
	Create(ctx context.Context, orphan *models.OrphanIdentity) error
	ListUnresolved(ctx context.Context, limit int) ([]models.OrphanIdentity, error)
	Save(ctx context.Context, orphan *models.OrphanIdentity) error
}

type GormOrphanRepository struct {
	db *gorm.DB
}

func NewGormOrphanRepository(db *gorm.DB) *GormOrphanRepository {
	return &GormOrphanRepository{db: db}
}

func (r *GormOrphanRepository) Create(ctx context.Context, orphan *models.OrphanIdentity) error {
	return r.db.WithContext(ctx).Create(orphan).Error
}

func (r *GormOrphanRepository) ListUnresolved(ctx context.Context, limit int) ([]models.OrphanIdentity, error) {
	var orphans []models.OrphanIdentity
	err := r.db.WithContext(ctx).
		Where("resolved_at IS NULL").
		Order("created_at ASC").
		Limit(limit).
		Find(&orphans).Error
	return orphans, err
}

func (r *GormOrphanRepository) Save(ctx context.Context, orphan *models.OrphanIdentity) error {
	return r.db.WithContext(ctx).Save(orphan).Error
}

// SweepResult counts what one sweep did.
type SweepResult struct {
	Resolved int
	Failed   int
	Skipped  int
}

// OrphanService records orphaned identities and retries their deletion.
type OrphanService struct {
	repo       OrphanRepository
	identities IdentityProvider
	alerter    Alerter
	logger     *zap.Logger
	now        func() time.Time
	cron       *cron.Cron
}

func NewOrphanService(repo OrphanRepository, identities IdentityProvider, alerter Alerter, logger *zap.Logger) *OrphanService {
	return &OrphanService{
		repo:       repo,
		identities: identities,
		alerter:    alerter,
		logger:     logger,
		now:        time.Now,
	}
}

// RecordOrphan persists the orphan and alerts an operator. A failed alert is
// only logged.
func (s *OrphanService) RecordOrphan(ctx context.Context, orphan *models.OrphanIdentity) error {
	if err := s.repo.Create(ctx, orphan); err != nil {
		return fmt.Errorf("record orphan: %w", err)
	}
	s.logger.Warn("orphaned identity recorded",
		zap.String("identity_id", orphan.IdentityID),
		zap.String("provider", orphan.Provider),
	)

	if s.alerter == nil {
		return nil
	}
	if err := s.alerter.AlertOrphan(ctx, orphan); err != nil {
		s.logger.Error("orphan alert failed", zap.String("identity_id", orphan.IdentityID), zap.Error(err))
	}
	return nil
}

// SweepOrphans retries the delete of every unresolved orphan owned by the
// configured identity provider.
func (s *OrphanService) SweepOrphans(ctx context.Context) (SweepResult, error) {
	var result SweepResult

	orphans, err := s.repo.ListUnresolved(ctx, sweepBatchSize)
	if err != nil {
		return result, fmt.Errorf("list orphans: %w", err)
	}

	for i := range orphans {
		orphan := &orphans[i]
		logger := s.logger.With(zap.String("identity_id", orphan.IdentityID), zap.String("provider", orphan.Provider))

		if orphan.Provider != s.identities.Name() {
			result.Skipped++
			logger.Debug("orphan belongs to another provider, skipped")
			continue
		}

		orphan.Attempts++
		deleteErr := s.identities.DeleteIdentity(ctx, orphan.IdentityID)
		switch {
		case deleteErr == nil, errors.Is(deleteErr, ErrIdentityNotFound):
			resolved := s.now().UTC()
			orphan.ResolvedAt = &resolved
			orphan.LastError = ""
			result.Resolved++
			logger.Info("orphaned identity resolved", zap.Int("attempts", orphan.Attempts))
		default:
			orphan.LastError = deleteErr.Error()
			result.Failed++
			logger.Warn("orphaned identity still present", zap.Int("attempts", orphan.Attempts), zap.Error(deleteErr))
		}

		if err := s.repo.Save(ctx, orphan); err != nil {
			return result, fmt.Errorf("save orphan %s: %w", orphan.ID, err)
		}
	}

	return result, nil
}

// StartScheduler runs SweepOrphans on the given cron expression. An empty
// schedule disables the sweep.
func (s *OrphanService) StartScheduler(schedule string) error {
	if schedule == "" {
		return nil
	}

	c := cron.New()
	_, err := c.AddFunc(schedule, func() {
		result, err := s.SweepOrphans(context.Background())
		if err != nil {
			s.logger.Error("orphan sweep failed", zap.Error(err))
			return
		}
		s.logger.Info("orphan sweep finished",
			zap.Int("resolved", result.Resolved),
			zap.Int("failed", result.Failed),
			zap.Int("skipped", result.Skipped),
		)
	})
	if err != nil {
		return fmt.Errorf("invalid orphan sweep schedule %q: %w", schedule, err)
	}

	c.Start()
	s.cron = c
	s.logger.Info("orphan sweep scheduler started", zap.String("schedule", schedule))
	return nil
}

// Stop halts the scheduler and waits for a running sweep.
func (s *OrphanService) Stop() {
	if s.cron == nil {
		return
	}
	<-s.cron.Stop().Done()
}
