package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/promodeagro/promodeagro-ecom-rider-api/models"
	"github.com/promodeagro/promodeagro-ecom-rider-api/pkg/logger"
	"github.com/promodeagro/promodeagro-ecom-rider-api/repositories"
	"github.com/promodeagro/promodeagro-ecom-rider-api/store"
)

// reasonRejectedByCustomer is the one reason string that maps a failed
// delivery to cancelled instead of undelivered. Exact, case-sensitive
// match.
const reasonRejectedByCustomer = "rejected by customer"

// OrderService owns the order status state machine:
// pending -> delivered | undelivered | cancelled, all terminal.
type OrderService struct {
	orders    *repositories.OrderRepository
	runsheets *repositories.RunsheetRepository
	products  *repositories.ProductRepository
	payments  PaymentVerifier
	log       *logger.Logger

	// RejectReconfirm guards confirm against terminal states the same way
	// cancel is guarded. Off by default: the rider app re-sends confirms
	// and relies on the overwrite.
	RejectReconfirm bool
}

func NewOrderService(
	orders *repositories.OrderRepository,
	runsheets *repositories.RunsheetRepository,
	products *repositories.ProductRepository,
	payments PaymentVerifier,
	rejectReconfirm bool,
) *OrderService {
	return &OrderService{
		orders:          orders,
		runsheets:       runsheets,
		products:        products,
		payments:        payments,
		log:             logger.NewLogger("order-service"),
		RejectReconfirm: rejectReconfirm,
	}
}

type ConfirmRequest struct {
	Image     string `json:"image"`
	Via       string `json:"via"`
	PaymentID string `json:"paymentId"`
}

// Confirm marks an order delivered. Cash orders are reconciled as paid at
// the doorstep; UPI collections with a payment id must be captured at the
// gateway first.
func (s *OrderService) Confirm(ctx context.Context, requestID, runsheetID, orderID string, req ConfirmRequest) (*models.Order, error) {
	if runsheetID == "" || orderID == "" {
		return nil, ErrInvalidID
	}
	if req.Image == "" {
		return nil, Reject("delivered image is required to complete the delivery")
	}

	order, err := s.memberOrder(ctx, runsheetID, orderID)
	if err != nil {
		return nil, err
	}

	if s.RejectReconfirm && order.Terminal() {
		return nil, Reject("order is already " + order.Status)
	}

	attrs := bson.M{
		"status":         models.OrderStatusDelivered,
		"deliveredAt":    time.Now().UTC(),
		"deliveredImage": req.Image,
	}

	if order.PaymentDetails.Method == models.PaymentMethodCash {
		details := order.PaymentDetails
		details.Status = models.PaymentStatusDone
		details.Via = req.Via
		attrs["paymentDetails"] = details
	} else if req.Via == models.PaymentMethodUPI && req.PaymentID != "" && s.payments != nil {
		captured, err := s.payments.IsCaptured(req.PaymentID)
		if err != nil {
			s.log.Error(requestID, "confirm_order", "payment lookup failed for "+req.PaymentID, err)
			return nil, fmt.Errorf("payment lookup: %w", err)
		}
		if !captured {
			return nil, Reject("payment is not captured yet")
		}
		details := order.PaymentDetails
		details.Status = models.PaymentStatusDone
		details.Via = models.PaymentMethodUPI
		attrs["paymentDetails"] = details
	}

	updated, err := s.orders.UpdateStatusIf(ctx, orderID, order.Status, attrs)
	if err != nil {
		return nil, s.transitionErr(requestID, "confirm_order", orderID, err)
	}

	s.log.Info(requestID, "confirm_order", "order "+orderID+" delivered")
	return updated, nil
}

// Cancel moves an order out of pending. The reason decides the terminal
// state: "rejected by customer" -> cancelled, anything else -> undelivered.
func (s *OrderService) Cancel(ctx context.Context, requestID, runsheetID, orderID, reason string) (*models.Order, error) {
	if runsheetID == "" || orderID == "" {
		return nil, ErrInvalidID
	}
	if reason == "" {
		return nil, Reject("reason required for cancellation")
	}

	order, err := s.memberOrder(ctx, runsheetID, orderID)
	if err != nil {
		return nil, err
	}

	if order.Status == models.OrderStatusCancelled {
		return nil, Reject("order already cancelled")
	}
	if order.Status == models.OrderStatusUndelivered || order.Status == models.OrderStatusDelivered {
		return nil, Reject("order is already " + order.Status)
	}

	status := models.OrderStatusUndelivered
	if reason == reasonRejectedByCustomer {
		status = models.OrderStatusCancelled
	}

	updated, err := s.orders.UpdateStatusIf(ctx, orderID, order.Status, bson.M{
		"status": status,
		"statusDetails": models.StatusDetails{
			Reason:    reason,
			UpdatedBy: "rider",
		},
	})
	if err != nil {
		return nil, s.transitionErr(requestID, "cancel_order", orderID, err)
	}

	s.restock(ctx, requestID, updated)

	s.log.Info(requestID, "cancel_order", "order "+orderID+" marked "+status)
	return updated, nil
}

// memberOrder loads the order after checking it is listed on the runsheet.
// A missing runsheet and a non-member order reject identically.
func (s *OrderService) memberOrder(ctx context.Context, runsheetID, orderID string) (*models.Order, error) {
	runsheet, err := s.runsheets.FindByID(ctx, runsheetID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, Reject("order doesnt exist in runsheet.")
		}
		return nil, err
	}

	member := false
	for _, id := range runsheet.Orders {
		if id == orderID {
			member = true
			break
		}
	}
	if !member {
		return nil, Reject("order doesnt exist in runsheet.")
	}

	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	return order, nil
}

// restock returns line-item quantities to catalog stock after a failed
// delivery. Best-effort: a restock failure is logged, never surfaced.
func (s *OrderService) restock(ctx context.Context, requestID string, order *models.Order) {
	for _, item := range order.Items {
		if err := s.products.Restock(ctx, item.ProductID, item.Quantity); err != nil {
			s.log.Warn(requestID, "restock", "could not restock product "+item.ProductID+": "+err.Error())
		}
	}
}

func (s *OrderService) transitionErr(requestID, action, orderID string, err error) error {
	if errors.Is(err, store.ErrConflict) {
		return Reject("order status has changed, please retry")
	}
	s.log.Error(requestID, action, "failed to update order "+orderID, err)
	return fmt.Errorf("update order %s: %w", orderID, err)
}
