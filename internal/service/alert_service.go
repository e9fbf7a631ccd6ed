package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ndewijer/Crypto-Dashboard-Backend/internal/api/request"
	"github.com/ndewijer/Crypto-Dashboard-Backend/internal/apperrors"
	"github.com/ndewijer/Crypto-Dashboard-Backend/internal/metrics"
	"github.com/ndewijer/Crypto-Dashboard-Backend/internal/model"
	"github.com/ndewijer/Crypto-Dashboard-Backend/internal/repository"
	"github.com/ndewijer/Crypto-Dashboard-Backend/internal/validation"
)

// AlertNotifier is told about every alert that fires.
type AlertNotifier interface {
	NotifyAlertFired(ctx context.Context, fired model.FiredAlert) error
}

// AlertService manages one-shot price alerts.
type AlertService struct {
	alertRepo *repository.AlertRepository
	gate      AccessChecker
	notifier  AlertNotifier
	limit     int
	log       *zap.SugaredLogger
	now       func() time.Time

	// mu serialises creates against the capacity check and keeps evaluation passes from overlapping.
	mu sync.Mutex
}

// NewAlertService creates an AlertService. limit is the maximum number of
// active alerts while access is locked.
func NewAlertService(
	alertRepo *repository.AlertRepository,
	gate AccessChecker,
	notifier AlertNotifier,
	limit int,
	log *zap.SugaredLogger,
) *AlertService {
	return &AlertService{
		alertRepo: alertRepo,
		gate:      gate,
		notifier:  notifier,
		limit:     limit,
		log:       log,
		now:       time.Now,
	}
}

// Create stores a new active alert. While locked, creating beyond the active
// alert limit fails with apperrors.ErrCapacityExceeded.
func (s *AlertService) Create(ctx context.Context, req request.CreateAlertRequest) (model.AlertCondition, error) {
	if err := validation.ValidateCreateAlert(req); err != nil {
		return model.AlertCondition{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.gate.IsUnlocked() {
		count, err := s.alertRepo.CountActiveAlerts(ctx)
		if err != nil {
			return model.AlertCondition{}, fmt.Errorf("%w: %w", apperrors.ErrFailedToRetrieve, err)
		}
		if count >= s.limit {
			metrics.RecordCapacityRejection("alerts")
			return model.AlertCondition{}, fmt.Errorf("%w: free tier allows %d active alerts", apperrors.ErrCapacityExceeded, s.limit)
		}
	}

	id, err := uuid.NewV7()
	if err != nil {
		return model.AlertCondition{}, fmt.Errorf("failed to generate alert id: %w", err)
	}

	alert := model.AlertCondition{
		ID:          id.String(),
		Symbol:      strings.ToLower(strings.TrimSpace(req.Symbol)),
		Name:        strings.TrimSpace(req.Name),
		TargetPrice: req.TargetPrice,
		Direction:   model.AlertDirection(req.Direction),
		Active:      true,
		CreatedAt:   s.now().UTC(),
	}
	if err := s.alertRepo.InsertAlert(ctx, alert); err != nil {
		return model.AlertCondition{}, fmt.Errorf("%w: %w", apperrors.ErrFailedToPersist, err)
	}
	return alert, nil
}

// List returns every alert, oldest first.
func (s *AlertService) List(ctx context.Context) ([]model.AlertCondition, error) {
	return s.alertRepo.GetAlerts(ctx)
}

// Get returns one alert or apperrors.ErrAlertNotFound.
func (s *AlertService) Get(ctx context.Context, id string) (model.AlertCondition, error) {
	return s.alertRepo.GetAlert(ctx, id)
}

// Delete removes an alert, fired or not.
func (s *AlertService) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.alertRepo.DeleteAlert(ctx, id)
}

// Evaluate tests every active alert against snap and fires those that are satisfied.
//
// Alerts match the first asset in rank order whose symbol equals theirs,
// ignoring case. A fired alert is marked inactive before it is reported, so
// each alert is reported at most once across all passes.
func (s *AlertService) Evaluate(ctx context.Context, snap model.MarketSnapshot) []model.FiredAlert {
	s.mu.Lock()
	defer s.mu.Unlock()

	active, err := s.alertRepo.GetActiveAlerts(ctx)
	if err != nil {
		s.log.Errorw("failed to load active alerts", "error", err)
		return nil
	}

	var fired []model.FiredAlert
	for _, alert := range active {
		asset, ok := findBySymbol(snap, alert.Symbol)
		if !ok || !alert.SatisfiedBy(asset.CurrentPrice) {
			continue
		}

		at := s.now().UTC()
		marked, err := s.alertRepo.MarkTriggered(ctx, alert.ID, at)
		if err != nil {
			s.log.Errorw("failed to mark alert triggered", "alert_id", alert.ID, "error", err)
			continue
		}
		if !marked {
			continue
		}

		alert.Active = false
		alert.TriggeredAt = &at
		f := model.FiredAlert{Alert: alert, Asset: asset}
		fired = append(fired, f)
		metrics.AlertsFired.Inc()

		if err := s.notifier.NotifyAlertFired(ctx, f); err != nil {
			s.log.Warnw("alert notification failed", "alert_id", alert.ID, "error", err)
		}
	}
	return fired
}

func findBySymbol(snap model.MarketSnapshot, symbol string) (model.AssetSnapshot, bool) {
	for _, a := range snap.Assets {
		if strings.EqualFold(a.Symbol, symbol) {
			return a, true
		}
	}
	return model.AssetSnapshot{}, false
}
