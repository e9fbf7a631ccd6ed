package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/fernet/fernet-go"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/ndewijer/Crypto-Dashboard-Backend/internal/api/request"
	"github.com/ndewijer/Crypto-Dashboard-Backend/internal/apperrors"
	"github.com/ndewijer/Crypto-Dashboard-Backend/internal/metrics"
	"github.com/ndewijer/Crypto-Dashboard-Backend/internal/model"
	"github.com/ndewijer/Crypto-Dashboard-Backend/internal/payment"
	"github.com/ndewijer/Crypto-Dashboard-Backend/internal/validation"
)

// KeyValueStore is the durable string key-value collaborator.
type KeyValueStore interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
}

const (
	accessStateKey = "access_unlocked"
	accessKeyKey   = "access_fernet_key"
	unlockedMarker = "unlocked"
	persistTimeout = 5 * time.Second
)

// AccessOptions configures the premium gate.
type AccessOptions struct {
	Passcode  string // empty disables passcode unlock
	FernetKey string // base64 key sealing the persisted flag; generated and stored when empty
	Amount    decimal.Decimal
	Currency  string
}

// AccessService is the process-wide premium gate. Once unlocked it stays unlocked.
//
// The unlocked flag is persisted as a fernet token so that a hand-edited
// store value does not unlock the gate.
type AccessService struct {
	kv       KeyValueStore
	charger  payment.Charger
	key      *fernet.Key
	passcode string
	amount   decimal.Decimal
	currency string
	log      *zap.SugaredLogger

	mu          sync.RWMutex
	unlocked    bool
	pending     bool
	lastPayment *model.PaymentResult
	onChange    []func(model.AccessState)
}

// NewAccessService loads the persisted gate state from kv.
func NewAccessService(ctx context.Context, kv KeyValueStore, charger payment.Charger, opts AccessOptions, log *zap.SugaredLogger) (*AccessService, error) {
	s := &AccessService{
		kv:       kv,
		charger:  charger,
		passcode: opts.Passcode,
		amount:   opts.Amount,
		currency: opts.Currency,
		log:      log,
	}

	key, err := loadFernetKey(ctx, kv, opts.FernetKey, log)
	if err != nil {
		return nil, err
	}
	s.key = key

	token, ok, err := kv.Get(ctx, accessStateKey)
	if err != nil {
		return nil, fmt.Errorf("%w: access state: %w", apperrors.ErrFailedToRetrieve, err)
	}
	if ok {
		msg := fernet.VerifyAndDecrypt([]byte(token), 0, []*fernet.Key{s.key})
		if string(msg) == unlockedMarker {
			s.unlocked = true
		} else {
			log.Warnw("ignoring persisted access state that does not verify")
		}
	}

	return s, nil
}

func loadFernetKey(ctx context.Context, kv KeyValueStore, configured string, log *zap.SugaredLogger) (*fernet.Key, error) {
	if configured != "" {
		key, err := fernet.DecodeKey(configured)
		if err != nil {
			return nil, fmt.Errorf("invalid access fernet key: %w", err)
		}
		return key, nil
	}

	stored, ok, err := kv.Get(ctx, accessKeyKey)
	if err != nil {
		return nil, fmt.Errorf("%w: access key: %w", apperrors.ErrFailedToRetrieve, err)
	}
	if ok {
		key, err := fernet.DecodeKey(stored)
		if err != nil {
			return nil, fmt.Errorf("invalid stored access key: %w", err)
		}
		return key, nil
	}

	var key fernet.Key
	if err := key.Generate(); err != nil {
		return nil, fmt.Errorf("failed to generate access key: %w", err)
	}
	if err := kv.Set(ctx, accessKeyKey, key.Encode()); err != nil {
		return nil, fmt.Errorf("%w: access key: %w", apperrors.ErrFailedToPersist, err)
	}
	log.Warnw("no ACCESS_FERNET_KEY configured, generated one and stored it alongside the access state")
	return &key, nil
}

// OnChange registers a callback run after every state change.
func (s *AccessService) OnChange(fn func(model.AccessState)) {
	s.mu.Lock()
	s.onChange = append(s.onChange, fn)
	s.mu.Unlock()
}

// IsUnlocked reports whether premium capacity limits are lifted.
func (s *AccessService) IsUnlocked() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.unlocked
}

// State returns a copy of the gate state.
func (s *AccessService) State() model.AccessState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.stateLocked()
}

func (s *AccessService) stateLocked() model.AccessState {
	state := model.AccessState{Unlocked: s.unlocked, PaymentPending: s.pending}
	if s.lastPayment != nil {
		p := *s.lastPayment
		state.LastPayment = &p
	}
	return state
}

// Unlock compares passcode with the configured secret. A mismatch, or no
// configured secret, returns apperrors.ErrAccessDenied and leaves the gate locked.
// A persistence failure is logged; the gate stays unlocked for this process.
func (s *AccessService) Unlock(ctx context.Context, passcode string) error {
	if s.IsUnlocked() {
		return nil
	}
	if s.passcode == "" || subtle.ConstantTimeCompare([]byte(passcode), []byte(s.passcode)) != 1 {
		return apperrors.ErrAccessDenied
	}

	if err := s.unlock(ctx); err != nil {
		s.log.Errorw("failed to persist access after passcode unlock", "error", err)
	}
	s.log.Infow("premium access unlocked", "method", "passcode")
	return nil
}

// StartPayment charges the configured premium price. The gate unlocks when
// the collaborator later reports success.
func (s *AccessService) StartPayment(ctx context.Context, req request.PaymentRequest) (model.AccessState, error) {
	if err := validation.ValidatePayment(req); err != nil {
		return model.AccessState{}, err
	}

	s.mu.Lock()
	if s.unlocked {
		state := s.stateLocked()
		s.mu.Unlock()
		return state, nil
	}
	if s.pending {
		s.mu.Unlock()
		return model.AccessState{}, apperrors.ErrPaymentPending
	}
	s.pending = true
	state := s.stateLocked()
	s.mu.Unlock()

	params := model.PaymentParams{
		Amount:        s.amount,
		Currency:      s.currency,
		CustomerEmail: req.CustomerEmail,
		CustomerName:  req.CustomerName,
	}

	// The charge outlives the request that started it.
	if err := s.charger.Charge(context.WithoutCancel(ctx), params, s.handlePaymentResult); err != nil {
		s.mu.Lock()
		s.pending = false
		s.mu.Unlock()
		return model.AccessState{}, fmt.Errorf("failed to start payment: %w", err)
	}

	s.log.Infow("payment started", "amount", s.amount.String(), "currency", s.currency)
	return state, nil
}

func (s *AccessService) handlePaymentResult(result model.PaymentResult) {
	metrics.RecordPayment(result.Status)

	s.mu.Lock()
	s.pending = false
	s.lastPayment = &result
	s.mu.Unlock()

	if result.Status != model.PaymentStatusSuccess {
		s.log.Warnw("payment did not succeed", "status", result.Status, "reference", result.Reference, "error", apperrors.ErrPaymentDeclined)
		s.notify()
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
	defer cancel()
	if err := s.unlock(ctx); err != nil {
		s.log.Errorw("failed to persist access after payment", "reference", result.Reference, "error", err)
	}
	s.log.Infow("premium access unlocked", "method", "payment", "reference", result.Reference)
}

// unlock flips the gate in memory first so a paid or authenticated user is
// never left locked, then persists it.
func (s *AccessService) unlock(ctx context.Context) error {
	s.mu.Lock()
	s.unlocked = true
	s.mu.Unlock()
	defer s.notify()

	token, err := fernet.EncryptAndSign([]byte(unlockedMarker), s.key)
	if err != nil {
		return fmt.Errorf("failed to seal access state: %w", err)
	}
	if err := s.kv.Set(ctx, accessStateKey, string(token)); err != nil {
		return errors.Join(apperrors.ErrFailedToPersist, err)
	}
	return nil
}

func (s *AccessService) notify() {
	s.mu.RLock()
	state := s.stateLocked()
	callbacks := append([]func(model.AccessState){}, s.onChange...)
	s.mu.RUnlock()

	for _, fn := range callbacks {
		fn(state)
	}
}
