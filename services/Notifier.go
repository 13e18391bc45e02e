package services

import (
	"storefront/entities"

	"go.uber.org/zap"
)

// Notifier receives the signals the presentation layer reacts to.
type Notifier interface {
	Confirm(message string)
	BasketChanged(view entities.BasketView)
	ValidationRejected(rejection entities.Rejection)
	OrderPlaced(confirmation entities.OrderConfirmation)
}

type LogNotifier struct {
	logger *zap.Logger
}

func NewLogNotifier(logger *zap.Logger) *LogNotifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) Confirm(message string) {
	n.logger.Info("confirmation", zap.String("message", message))
}

func (n *LogNotifier) BasketChanged(view entities.BasketView) {
	n.logger.Info("basket changed",
		zap.Int("lines", len(view.Lines)),
		zap.String("total", view.Pricing.Total.StringFixed(2)))
}

func (n *LogNotifier) ValidationRejected(rejection entities.Rejection) {
	n.logger.Info("checkout rejected",
		zap.String("field", rejection.Field),
		zap.String("rule", rejection.Rule))
}

func (n *LogNotifier) OrderPlaced(confirmation entities.OrderConfirmation) {
	n.logger.Info("order placed",
		zap.String("reference", confirmation.Reference.String()),
		zap.String("payment_method", string(confirmation.PaymentMethod)),
		zap.String("total", confirmation.Pricing.Total.StringFixed(2)))
}
