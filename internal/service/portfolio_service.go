package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/ndewijer/Crypto-Dashboard-Backend/internal/api/request"
	"github.com/ndewijer/Crypto-Dashboard-Backend/internal/apperrors"
	"github.com/ndewijer/Crypto-Dashboard-Backend/internal/metrics"
	"github.com/ndewijer/Crypto-Dashboard-Backend/internal/model"
	"github.com/ndewijer/Crypto-Dashboard-Backend/internal/repository"
	"github.com/ndewijer/Crypto-Dashboard-Backend/internal/validation"
)

// AccessChecker reports whether premium access is unlocked.
type AccessChecker interface {
	IsUnlocked() bool
}

// SnapshotSource provides the current market snapshot.
type SnapshotSource interface {
	Current() (model.MarketSnapshot, bool)
}

// PortfolioService manages held positions and values them against the market.
type PortfolioService struct {
	positionRepo *repository.PositionRepository
	gate         AccessChecker
	market       SnapshotSource
	limit        int
	log          *zap.SugaredLogger
	now          func() time.Time

	// mu makes the capacity check and the insert one step.
	mu sync.Mutex
}

// NewPortfolioService creates a PortfolioService. limit is the maximum number
// of distinct positions while access is locked.
func NewPortfolioService(
	positionRepo *repository.PositionRepository,
	gate AccessChecker,
	market SnapshotSource,
	limit int,
	log *zap.SugaredLogger,
) *PortfolioService {
	return &PortfolioService{
		positionRepo: positionRepo,
		gate:         gate,
		market:       market,
		limit:        limit,
		log:          log,
		now:          time.Now,
	}
}

// Add accumulates req.Amount into the position for req.AssetID.
//
// An existing position keeps its acquisition price; req.Price only seeds new
// positions. Creating a new position while locked and at the limit fails with
// apperrors.ErrCapacityExceeded and changes nothing.
func (s *PortfolioService) Add(ctx context.Context, req request.AddPositionRequest) (model.Position, error) {
	if err := validation.ValidateAddPosition(req); err != nil {
		return model.Position{}, err
	}
	assetID := strings.TrimSpace(req.AssetID)

	s.mu.Lock()
	defer s.mu.Unlock()

	existing, held, err := s.positionRepo.GetPosition(ctx, assetID)
	if err != nil {
		return model.Position{}, fmt.Errorf("%w: %w", apperrors.ErrFailedToRetrieve, err)
	}

	now := s.now().UTC()
	if held {
		existing.Amount = existing.Amount.Add(req.Amount)
		existing.UpdatedAt = now
		if err := s.positionRepo.UpdateAmount(ctx, assetID, existing.Amount, now); err != nil {
			return model.Position{}, fmt.Errorf("%w: %w", apperrors.ErrFailedToPersist, err)
		}
		return existing, nil
	}

	if !s.gate.IsUnlocked() {
		count, err := s.positionRepo.CountPositions(ctx)
		if err != nil {
			return model.Position{}, fmt.Errorf("%w: %w", apperrors.ErrFailedToRetrieve, err)
		}
		if count >= s.limit {
			metrics.RecordCapacityRejection("portfolio")
			return model.Position{}, fmt.Errorf("%w: free tier allows %d positions", apperrors.ErrCapacityExceeded, s.limit)
		}
	}

	position := model.Position{
		AssetID:          assetID,
		Symbol:           strings.ToLower(strings.TrimSpace(req.Symbol)),
		Name:             strings.TrimSpace(req.Name),
		Amount:           req.Amount,
		AcquisitionPrice: req.Price,
		CurrentPrice:     req.Price,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := s.positionRepo.InsertPosition(ctx, position); err != nil {
		return model.Position{}, fmt.Errorf("%w: %w", apperrors.ErrFailedToPersist, err)
	}
	return position, nil
}

// Remove deletes the position for assetID. Removing an asset that is not held is a no-op.
func (s *PortfolioService) Remove(ctx context.Context, assetID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.positionRepo.DeletePosition(ctx, assetID); err != nil {
		return fmt.Errorf("%w: %w", apperrors.ErrFailedToPersist, err)
	}
	return nil
}

// Positions returns every position valued against the current snapshot.
func (s *PortfolioService) Positions(ctx context.Context) ([]model.PositionValuation, error) {
	positions, err := s.positionRepo.GetPositions(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrFailedToRetrieve, err)
	}

	snap, _ := s.market.Current()
	valuations := make([]model.PositionValuation, 0, len(positions))
	for _, p := range positions {
		valuations = append(valuations, ValuePosition(p, snap))
	}
	return valuations, nil
}

// Summary aggregates every position against the current snapshot.
func (s *PortfolioService) Summary(ctx context.Context) (model.PortfolioSummary, error) {
	positions, err := s.positionRepo.GetPositions(ctx)
	if err != nil {
		return model.PortfolioSummary{}, fmt.Errorf("%w: %w", apperrors.ErrFailedToRetrieve, err)
	}

	snap, _ := s.market.Current()
	value := CurrentValue(positions, snap)
	cost := TotalCost(positions)
	return model.PortfolioSummary{
		PositionCount:      len(positions),
		CurrentValue:       value,
		TotalCost:          cost,
		TotalGainLoss:      value.Sub(cost),
		TotalReturnPercent: returnPercent(value, cost),
	}, nil
}

// RefreshPrices stores the snapshot price of every held asset as its last known price.
// It is registered as a snapshot listener.
func (s *PortfolioService) RefreshPrices(ctx context.Context, snap model.MarketSnapshot) {
	prices := make(map[string]decimal.Decimal, len(snap.Assets))
	for _, a := range snap.Assets {
		prices[a.ID] = a.CurrentPrice
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.positionRepo.UpdateCurrentPrices(ctx, prices, snap.FetchedAt); err != nil {
		s.log.Errorw("failed to refresh position prices", "error", err)
	}
}

// priceFor returns the snapshot price for p, falling back to its last known price.
func priceFor(p model.Position, snap model.MarketSnapshot) decimal.Decimal {
	if a, ok := snap.FindByID(p.AssetID); ok {
		return a.CurrentPrice
	}
	return p.CurrentPrice
}

// ValuePosition values one position against snap.
func ValuePosition(p model.Position, snap model.MarketSnapshot) model.PositionValuation {
	p.CurrentPrice = priceFor(p, snap)
	value := p.Amount.Mul(p.CurrentPrice)
	cost := p.Amount.Mul(p.AcquisitionPrice)
	return model.PositionValuation{
		Position:      p,
		Value:         value,
		Cost:          cost,
		GainLoss:      value.Sub(cost),
		ReturnPercent: returnPercent(value, cost),
	}
}

// CurrentValue sums amount times price over positions. Assets missing from
// snap are valued at their last known price.
func CurrentValue(positions []model.Position, snap model.MarketSnapshot) decimal.Decimal {
	total := decimal.Zero
	for _, p := range positions {
		total = total.Add(p.Amount.Mul(priceFor(p, snap)))
	}
	return total
}

// TotalCost sums amount times acquisition price over positions.
func TotalCost(positions []model.Position) decimal.Decimal {
	total := decimal.Zero
	for _, p := range positions {
		total = total.Add(p.Amount.Mul(p.AcquisitionPrice))
	}
	return total
}

// TotalReturnPercent is the gain over cost in percent, or zero for a zero cost basis.
func TotalReturnPercent(positions []model.Position, snap model.MarketSnapshot) decimal.Decimal {
	return returnPercent(CurrentValue(positions, snap), TotalCost(positions))
}

func returnPercent(value, cost decimal.Decimal) decimal.Decimal {
	if cost.IsZero() {
		return decimal.Zero
	}
	return value.Sub(cost).Div(cost).Mul(hundred)
}
