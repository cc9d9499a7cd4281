package notification

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

const (
	// KindDeposit indicates a deposit was applied to a balance record.
	KindDeposit = "deposit"
	// KindWithdraw indicates a withdrawal was applied to a balance record.
	KindWithdraw = "withdraw"
	// KindReward indicates a reward was computed and credited.
	KindReward = "reward"
	// KindTokenDeposit indicates tokens were paid into the token vault.
	KindTokenDeposit = "token-deposit"
	// KindTokenWithdraw indicates tokens were paid out of the token vault.
	KindTokenWithdraw = "token-withdraw"
	// KindRejected indicates an operation failed and nothing was persisted.
	KindRejected = "rejected"
)

// Message describes a ledger event.
type Message struct {
	ID        string
	Kind      string
	Variant   string
	Owner     string
	Amount    uint64
	Balance   uint64
	Reason    string
	Timestamp time.Time
}

// Notifier delivers notifications to downstream systems.
type Notifier interface {
	Send(ctx context.Context, message Message) error
}

// LoggerNotifier writes notifications to the structured logger.
type LoggerNotifier struct {
	logger *zerolog.Logger
}

// NewLoggerNotifier constructs a logging notifier.
func NewLoggerNotifier(logger *zerolog.Logger) *LoggerNotifier {
	return &LoggerNotifier{logger: logger}
}

// Send writes the message to the structured logger.
func (n *LoggerNotifier) Send(_ context.Context, message Message) error {
	if n == nil || n.logger == nil {
		return nil
	}
	event := n.logger.Info()
	if message.Kind == KindRejected {
		event = n.logger.Warn().Str("reason", message.Reason)
	}
	event.
		Str("id", message.ID).
		Str("kind", message.Kind).
		Str("variant", message.Variant).
		Str("owner", message.Owner).
		Uint64("amount", message.Amount).
		Uint64("balance", message.Balance).
		Time("at", message.Timestamp).
		Msg("notification")
	return nil
}
