package orders

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/buybuddy-backend/internal/checkout/reservation"
	"github.com/angelmondragon/buybuddy-backend/pkg/db/models"
	"github.com/angelmondragon/buybuddy-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/buybuddy-backend/pkg/errors"
	"github.com/angelmondragon/buybuddy-backend/pkg/logger"
	"github.com/angelmondragon/buybuddy-backend/pkg/metrics"
	"github.com/angelmondragon/buybuddy-backend/pkg/pagination"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service exposes order history, the fulfillment state machine and invoices.
type Service interface {
	List(ctx context.Context, userID uuid.UUID, params pagination.Params) (*OrderList, error)
	Detail(ctx context.Context, userID, orderID uuid.UUID) (*OrderDetailDTO, error)
	Cancel(ctx context.Context, userID, orderID uuid.UUID) (*OrderDetailDTO, error)
	RequestReturn(ctx context.Context, userID, orderID uuid.UUID) (*ReturnResultDTO, error)
	Track(ctx context.Context, trackingCode string) (*TrackingDTO, error)
	Advance(ctx context.Context, orderID uuid.UUID, req AdvanceRequest) (*OrderDetailDTO, error)
	Invoice(ctx context.Context, userID, orderID uuid.UUID) (*Invoice, error)
}

// ServiceParams groups the order service dependencies.
type ServiceParams struct {
	DB      txRunner
	Repo    Repository
	Logger  *logger.Logger
	Metrics *metrics.OrderMetrics
}

type service struct {
	tx      txRunner
	repo    Repository
	logg    *logger.Logger
	metrics *metrics.OrderMetrics
	now     func() time.Time
}

// NewService builds the order service.
func NewService(params ServiceParams) (Service, error) {
	if params.DB == nil {
		return nil, fmt.Errorf("tx runner required")
	}
	if params.Repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{
		tx:      params.DB,
		repo:    params.Repo,
		logg:    params.Logger,
		metrics: params.Metrics,
		now:     func() time.Time { return time.Now().UTC() },
	}, nil
}

func (s *service) List(ctx context.Context, userID uuid.UUID, params pagination.Params) (*OrderList, error) {
	if _, err := pagination.ParseCursor(params.Cursor); err != nil {
		return nil, pkgerrors.Validation("invalid cursor", map[string]string{"cursor": "is invalid"})
	}
	rows, next, err := s.repo.ListUserOrders(ctx, userID, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list orders")
	}
	list := &OrderList{
		Orders: make([]OrderSummaryDTO, 0, len(rows)),
		Pagination: Pagination{
			Limit:      pagination.NormalizeLimit(params.Limit),
			NextCursor: next,
		},
	}
	for _, row := range rows {
		list.Orders = append(list.Orders, summaryFromModel(row))
	}
	return list, nil
}

func (s *service) Detail(ctx context.Context, userID, orderID uuid.UUID) (*OrderDetailDTO, error) {
	order, err := loadUserOrder(ctx, s.repo, userID, orderID)
	if err != nil {
		return nil, err
	}
	return detailFromModel(*order), nil
}

// Cancel refunds online payments, returns stock and cancels the shipment in
// one transaction. Delivered and cancelled orders cannot be cancelled.
func (s *service) Cancel(ctx context.Context, userID, orderID uuid.UUID) (*OrderDetailDTO, error) {
	var method enums.PaymentMethod
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		order, err := loadUserOrder(ctx, repo, userID, orderID)
		if err != nil {
			return err
		}
		if order.Status.IsTerminal() {
			return pkgerrors.InvalidTransition(string(order.Status), string(enums.OrderStatusCancelled))
		}

		if err := repo.UpdateOrderStatus(ctx, order.ID, enums.OrderStatusCancelled); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "cancel order")
		}
		if order.Payment != nil {
			method = order.Payment.Method
			if order.Payment.Method != enums.PaymentMethodCOD {
				if err := repo.UpdatePaymentStatus(ctx, order.Payment.ID, enums.PaymentStatusRefunded); err != nil {
					return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "refund payment")
				}
			}
		}

		restock := make([]reservation.StockRequest, 0, len(order.Items))
		for _, item := range order.Items {
			if item.ProductID == nil {
				continue
			}
			restock = append(restock, reservation.StockRequest{ProductID: *item.ProductID, Qty: item.Quantity})
		}
		if err := reservation.RestoreStock(ctx, tx, restock); err != nil {
			return err
		}

		if order.Shipment != nil {
			err := repo.UpdateShipment(ctx, order.Shipment.ID, map[string]any{"status": enums.ShipmentStatusCancelled})
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "cancel shipment")
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	ctx = s.logg.WithOrderID(ctx, orderID.String())
	s.logg.Info(ctx, "order.cancelled")
	s.metrics.IncCancelled(string(method))
	return s.Detail(ctx, userID, orderID)
}

// RequestReturn flags a delivered shipment for return. Asking again reports
// the existing request without changing anything.
func (s *service) RequestReturn(ctx context.Context, userID, orderID uuid.UUID) (*ReturnResultDTO, error) {
	var result *ReturnResultDTO
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		order, err := loadUserOrder(ctx, repo, userID, orderID)
		if err != nil {
			return err
		}
		shipment := order.Shipment
		if shipment == nil {
			return pkgerrors.InvalidTransition(string(order.Status), string(enums.ReturnStatusRequested))
		}
		if shipment.ReturnStatus == enums.ReturnStatusRequested {
			result = &ReturnResultDTO{Shipment: shipmentFromModel(*shipment), AlreadyRequested: true}
			return nil
		}
		if shipment.Status != enums.ShipmentStatusDelivered {
			return pkgerrors.InvalidTransition(string(shipment.Status), string(enums.ReturnStatusRequested))
		}

		if err := repo.UpdateShipment(ctx, shipment.ID, map[string]any{"return_status": enums.ReturnStatusRequested}); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "request return")
		}
		shipment.ReturnStatus = enums.ReturnStatusRequested
		result = &ReturnResultDTO{Shipment: shipmentFromModel(*shipment)}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if !result.AlreadyRequested {
		s.logg.Info(s.logg.WithOrderID(ctx, orderID.String()), "order.return_requested")
		s.metrics.IncReturnRequested()
	}
	return result, nil
}

func (s *service) Track(ctx context.Context, trackingCode string) (*TrackingDTO, error) {
	code := strings.ToUpper(strings.TrimSpace(trackingCode))
	if code == "" {
		return nil, pkgerrors.NotFound("tracking code not found")
	}
	order, err := s.repo.FindByTrackingCode(ctx, code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.NotFound("tracking code not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "track order")
	}
	return trackingFromModel(*order), nil
}

// Advance moves an order to its immediate successor and mirrors the change on
// the shipment.
func (s *service) Advance(ctx context.Context, orderID uuid.UUID, req AdvanceRequest) (*OrderDetailDTO, error) {
	var target enums.OrderStatus
	if raw := strings.TrimSpace(req.Status); raw != "" {
		parsed, err := enums.ParseOrderStatus(strings.ToUpper(raw))
		if err != nil {
			return nil, pkgerrors.Validation("invalid status", map[string]string{"status": "is not a known order status"})
		}
		target = parsed
	}

	var from enums.OrderStatus
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		order, err := repo.FindOrder(ctx, orderID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.NotFound("order not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load order")
		}
		from = order.Status

		next, ok := order.Status.Next()
		if !ok || (target != "" && target != next) {
			to := target
			if to == "" {
				to = next
			}
			if to == "" {
				to = "NEXT"
			}
			return pkgerrors.InvalidTransition(string(order.Status), string(to))
		}
		target = next

		if err := repo.UpdateOrderStatus(ctx, order.ID, next); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "advance order")
		}
		if order.Shipment != nil {
			updates := map[string]any{"status": enums.ShipmentStatusFor(next)}
			now := s.now()
			switch next {
			case enums.OrderStatusShipped:
				updates["shipped_at"] = now
			case enums.OrderStatusDelivered:
				updates["delivered_at"] = now
			}
			if err := repo.UpdateShipment(ctx, order.Shipment.ID, updates); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "advance shipment")
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	ctx = s.logg.WithFields(ctx, map[string]any{"order_id": orderID.String(), "from": string(from), "to": string(target)})
	s.logg.Info(ctx, "order.status_advanced")
	s.metrics.IncTransition(string(target))

	order, err := s.repo.FindOrder(ctx, orderID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "reload order")
	}
	return detailFromModel(*order), nil
}

func (s *service) Invoice(ctx context.Context, userID, orderID uuid.UUID) (*Invoice, error) {
	order, err := loadUserOrder(ctx, s.repo, userID, orderID)
	if err != nil {
		return nil, err
	}
	customer, err := s.repo.FindUser(ctx, order.UserID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load customer")
	}
	body, err := renderInvoice(buildInvoiceLayout(*order, *customer))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "render invoice")
	}
	return &Invoice{Filename: invoiceFilename(*order), Body: body}, nil
}

func loadUserOrder(ctx context.Context, repo Repository, userID, orderID uuid.UUID) (*models.Order, error) {
	order, err := repo.FindUserOrder(ctx, userID, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.NotFound("order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load order")
	}
	return order, nil
}
