// Package notify delivers fired price alerts to the configured channels.
package notify

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/ndewijer/Crypto-Dashboard-Backend/internal/model"
	"github.com/ndewijer/Crypto-Dashboard-Backend/internal/realtime"
)

// Notifier receives every alert that fires.
type Notifier interface {
	NotifyAlertFired(ctx context.Context, fired model.FiredAlert) error
}

// Message renders the user-facing alert text.
func Message(fired model.FiredAlert) string {
	return fmt.Sprintf("%s (%s) crossed %s $%s: now $%s",
		fired.Asset.Name,
		strings.ToUpper(fired.Asset.Symbol),
		fired.Alert.Direction,
		fired.Alert.TargetPrice.String(),
		fired.Asset.CurrentPrice.String(),
	)
}

// Log writes fired alerts to the application log.
type Log struct {
	Log *zap.SugaredLogger
}

func (n Log) NotifyAlertFired(_ context.Context, fired model.FiredAlert) error {
	n.Log.Infow("price alert fired",
		"alert_id", fired.Alert.ID,
		"symbol", fired.Alert.Symbol,
		"direction", fired.Alert.Direction,
		"target", fired.Alert.TargetPrice.String(),
		"price", fired.Asset.CurrentPrice.String(),
	)
	return nil
}

// Hub pushes fired alerts to connected websocket clients.
type Hub struct {
	Hub *realtime.Hub
}

func (n Hub) NotifyAlertFired(_ context.Context, fired model.FiredAlert) error {
	n.Hub.Publish(realtime.EventAlertFired, fired)
	return nil
}

// Multi fans out to every notifier and joins their errors.
type Multi []Notifier

func (m Multi) NotifyAlertFired(ctx context.Context, fired model.FiredAlert) error {
	var errs []error
	for _, n := range m {
		if err := n.NotifyAlertFired(ctx, fired); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
