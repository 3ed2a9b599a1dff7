package checkout

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/angelmondragon/buybuddy-backend/internal/address"
	"github.com/angelmondragon/buybuddy-backend/internal/cart"
	"github.com/angelmondragon/buybuddy-backend/internal/checkout/reservation"
	"github.com/angelmondragon/buybuddy-backend/internal/orders"
	"github.com/angelmondragon/buybuddy-backend/pkg/config"
	"github.com/angelmondragon/buybuddy-backend/pkg/db/models"
	"github.com/angelmondragon/buybuddy-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/buybuddy-backend/pkg/errors"
	"github.com/angelmondragon/buybuddy-backend/pkg/logger"
	"github.com/angelmondragon/buybuddy-backend/pkg/metrics"
	"github.com/angelmondragon/buybuddy-backend/pkg/security"
)

const (
	trackingPrefix    = "BB"
	trackingCodeLen   = 8
	paymentRefPrefix  = "PAY_"
	paymentRefCodeLen = 12
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service drives a user from a filled cart to a placed order.
type Service interface {
	Summary(ctx context.Context, userID uuid.UUID) (*SummaryDTO, error)
	Begin(ctx context.Context, userID uuid.UUID, req BeginRequest) (*IntentDTO, error)
	Payment(ctx context.Context, userID uuid.UUID) (*PaymentDTO, error)
	Pay(ctx context.Context, userID uuid.UUID) (*PaymentDTO, error)
	PlaceOrder(ctx context.Context, userID uuid.UUID) (*PlacementDTO, error)
}

// ServiceParams groups the checkout dependencies.
type ServiceParams struct {
	DB        txRunner
	Orders    orders.Repository
	Carts     cart.CartRepository
	Addresses *address.Repository
	Intents   IntentStore
	Config    config.CheckoutConfig
	Logger    *logger.Logger
	Metrics   *metrics.OrderMetrics
}

type service struct {
	tx        txRunner
	orders    orders.Repository
	carts     cart.CartRepository
	addresses *address.Repository
	intents   IntentStore
	cfg       config.CheckoutConfig
	logg      *logger.Logger
	metrics   *metrics.OrderMetrics
	now       func() time.Time
	codeGen   func(length int) (string, error)
}

// NewService wires the checkout service.
func NewService(params ServiceParams) (Service, error) {
	if params.DB == nil {
		return nil, fmt.Errorf("tx runner required")
	}
	if params.Orders == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if params.Carts == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	if params.Addresses == nil {
		return nil, fmt.Errorf("address repository required")
	}
	if params.Intents == nil {
		return nil, fmt.Errorf("intent store required")
	}
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Config.IntentTTL <= 0 {
		return nil, fmt.Errorf("intent ttl must be positive")
	}
	if params.Config.TrackingAttempts <= 0 {
		return nil, fmt.Errorf("tracking attempts must be positive")
	}
	return &service{
		tx:        params.DB,
		orders:    params.Orders,
		carts:     params.Carts,
		addresses: params.Addresses,
		intents:   params.Intents,
		cfg:       params.Config,
		logg:      params.Logger,
		metrics:   params.Metrics,
		now:       time.Now,
		codeGen: func(length int) (string, error) {
			return security.RandomCode(length, security.UpperAlphanumeric)
		},
	}, nil
}

func (s *service) Summary(ctx context.Context, userID uuid.UUID) (*SummaryDTO, error) {
	items, err := s.cartItems(ctx, s.carts, userID)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeEmptyCart, "cart is empty")
	}
	addresses, err := s.addresses.ListByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list addresses")
	}
	intent, err := s.loadIntent(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &SummaryDTO{
		Items:     cart.ItemsFromModels(items),
		Total:     cart.Total(items),
		Addresses: address.FromModels(addresses),
		Intent:    intentToDTO(intent),
	}, nil
}

// Begin records the address and payment method, replacing any previous
// intent. Cash on delivery is ready to place immediately.
func (s *service) Begin(ctx context.Context, userID uuid.UUID, req BeginRequest) (*IntentDTO, error) {
	method, err := enums.ParsePaymentMethod(strings.ToUpper(strings.TrimSpace(req.PaymentMethod)))
	if err != nil {
		return nil, pkgerrors.Validation("invalid payment method", map[string]string{"payment_method": "is not supported"})
	}

	items, err := s.cartItems(ctx, s.carts, userID)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeEmptyCart, "cart is empty")
	}
	if _, err := s.ownedAddress(ctx, s.addresses, userID, req.AddressID); err != nil {
		return nil, err
	}

	intent := Intent{
		OwnerID:       userID,
		AddressID:     req.AddressID,
		PaymentMethod: method,
		ExpiresAt:     s.now().Add(s.cfg.IntentTTL).UTC(),
	}
	if !method.IsOnline() {
		ref := OfflinePaymentRef
		intent.PaymentRef = &ref
	}
	if err := s.intents.Save(ctx, intent); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save checkout intent")
	}
	return intentToDTO(&intent), nil
}

func (s *service) Payment(ctx context.Context, userID uuid.UUID) (*PaymentDTO, error) {
	intent, err := s.requireIntent(ctx, userID)
	if err != nil {
		return nil, err
	}
	items, err := s.cartItems(ctx, s.carts, userID)
	if err != nil {
		return nil, err
	}
	return paymentDTO(intent, cart.Total(items)), nil
}

// Pay attaches a stub payment reference to an online intent. Paying twice
// keeps the first reference.
func (s *service) Pay(ctx context.Context, userID uuid.UUID) (*PaymentDTO, error) {
	intent, err := s.requireIntent(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !intent.PaymentMethod.IsOnline() {
		return nil, pkgerrors.Validation("cash on delivery needs no online payment", map[string]string{"payment_method": "is cash on delivery"})
	}
	items, err := s.cartItems(ctx, s.carts, userID)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeEmptyCart, "cart is empty")
	}

	if !intent.ReadyToPlace() {
		code, err := s.codeGen(paymentRefCodeLen)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "generate payment reference")
		}
		ref := paymentRefPrefix + code
		intent.PaymentRef = &ref
		if err := s.intents.Save(ctx, *intent); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save checkout intent")
		}
	}
	return paymentDTO(intent, cart.Total(items)), nil
}

// PlaceOrder turns the cart into an order in a single transaction: payment,
// order with its shipping snapshot, items, shipment, stock and the drained
// cart either all persist or none do.
func (s *service) PlaceOrder(ctx context.Context, userID uuid.UUID) (*PlacementDTO, error) {
	intent, err := s.requireIntent(ctx, userID)
	if err != nil {
		s.recordFailure(ctx, err)
		return nil, err
	}
	ref := OfflinePaymentRef
	if intent.PaymentMethod.IsOnline() {
		if !intent.ReadyToPlace() {
			err := pkgerrors.Validation("payment not completed", map[string]string{"payment_ref": "is required"})
			s.recordFailure(ctx, err)
			return nil, err
		}
		ref = *intent.PaymentRef
	}

	started := s.now()
	var placed *PlacementDTO
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		var err error
		placed, err = s.place(ctx, tx, *intent, ref)
		return err
	})
	if err != nil {
		s.recordFailure(ctx, err)
		return nil, err
	}

	ctx = s.logg.WithOrderID(ctx, placed.OrderID.String())
	if err := s.intents.Delete(ctx, userID); err != nil {
		s.logg.Warn(s.logg.WithField(ctx, "error", err.Error()), "checkout.intent_delete_failed")
	}
	s.metrics.ObservePlacement(string(placed.PaymentMethod), s.now().Sub(started))
	s.logg.Info(s.logg.WithFields(ctx, map[string]any{
		"payment_method": string(placed.PaymentMethod),
		"total_amount":   placed.TotalAmount.StringFixed(2),
		"tracking_code":  placed.TrackingCode,
	}), "order.placed")
	return placed, nil
}

func (s *service) place(ctx context.Context, tx *gorm.DB, intent Intent, ref string) (*PlacementDTO, error) {
	orderRepo := s.orders.WithTx(tx)
	cartRepo := s.carts.WithTx(tx)

	cartRow, err := cartRepo.FindByUser(ctx, intent.OwnerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeEmptyCart, "cart is empty")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load cart")
	}
	items, err := cartRepo.ListItems(ctx, cartRow.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list cart items")
	}
	if len(items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeEmptyCart, "cart is empty")
	}

	addr, err := s.ownedAddress(ctx, s.addresses.WithTx(tx), intent.OwnerID, intent.AddressID)
	if err != nil {
		return nil, err
	}

	total := cart.Total(items)

	payment := &models.Payment{
		UserID:     intent.OwnerID,
		Method:     intent.PaymentMethod,
		Amount:     total,
		PaymentRef: &ref,
		Status:     enums.PaymentStatusCompleted,
	}
	if err := orderRepo.CreatePayment(ctx, payment); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create payment")
	}

	order := &models.Order{
		UserID:           intent.OwnerID,
		AddressID:        &addr.ID,
		PaymentID:        &payment.ID,
		TotalAmount:      total,
		Status:           enums.OrderStatusPending,
		ShippingFullName: addr.FullName,
		ShippingPhone:    addr.Phone,
		ShippingAddress:  addr.FullAddress(),
	}
	if err := orderRepo.CreateOrder(ctx, order); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create order")
	}

	lines := make([]models.OrderItem, 0, len(items))
	stock := make([]reservation.StockRequest, 0, len(items))
	for _, item := range items {
		if item.Product == nil {
			return nil, pkgerrors.NotFound("product not found").WithDetails(map[string]string{"product_id": item.ProductID.String()})
		}
		productID := item.ProductID
		lines = append(lines, models.OrderItem{
			OrderID:     order.ID,
			ProductID:   &productID,
			ProductName: item.Product.Name,
			Quantity:    item.Quantity,
			UnitPrice:   item.Product.Price,
		})
		stock = append(stock, reservation.StockRequest{ProductID: item.ProductID, Qty: item.Quantity})
	}
	if err := orderRepo.CreateOrderItems(ctx, lines); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create order items")
	}

	shipment, err := s.createShipment(ctx, orderRepo, order.ID)
	if err != nil {
		return nil, err
	}

	if s.cfg.DecrementStock {
		if err := reservation.DecrementStock(ctx, tx, stock); err != nil {
			return nil, err
		}
	}
	if err := cartRepo.ClearItems(ctx, cartRow.ID); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "clear cart")
	}

	return &PlacementDTO{
		OrderID:       order.ID,
		Status:        order.Status,
		TotalAmount:   total,
		PaymentMethod: intent.PaymentMethod,
		TrackingCode:  shipment.TrackingCode,
		CourierName:   shipment.CourierName,
	}, nil
}

// createShipment draws tracking codes until one is free.
func (s *service) createShipment(ctx context.Context, repo orders.Repository, orderID uuid.UUID) (*models.Shipment, error) {
	for attempt := 0; attempt < s.cfg.TrackingAttempts; attempt++ {
		code, err := s.codeGen(trackingCodeLen)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "generate tracking code")
		}
		shipment := &models.Shipment{
			OrderID:      orderID,
			TrackingCode: trackingPrefix + code,
			CourierName:  s.cfg.Courier,
			Status:       enums.ShipmentStatusPlaced,
			ReturnStatus: enums.ReturnStatusNone,
		}
		inserted, err := repo.InsertShipment(ctx, shipment)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create shipment")
		}
		if inserted {
			return shipment, nil
		}
	}
	return nil, pkgerrors.New(pkgerrors.CodeDuplicate, "could not allocate a unique tracking code")
}

func (s *service) cartItems(ctx context.Context, repo cart.CartRepository, userID uuid.UUID) ([]models.CartItem, error) {
	cartRow, err := repo.FindByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load cart")
	}
	items, err := repo.ListItems(ctx, cartRow.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list cart items")
	}
	return items, nil
}

func (s *service) ownedAddress(ctx context.Context, repo *address.Repository, userID, addressID uuid.UUID) (*models.Address, error) {
	addr, err := repo.FindOwned(ctx, userID, addressID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.NotFound("address not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load address")
	}
	return addr, nil
}

func (s *service) loadIntent(ctx context.Context, userID uuid.UUID) (*Intent, error) {
	intent, err := s.intents.Load(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load checkout intent")
	}
	return intent, nil
}

func (s *service) requireIntent(ctx context.Context, userID uuid.UUID) (*Intent, error) {
	intent, err := s.loadIntent(ctx, userID)
	if err != nil {
		return nil, err
	}
	if intent == nil {
		return nil, pkgerrors.Validation("checkout not started", nil)
	}
	return intent, nil
}

func (s *service) recordFailure(ctx context.Context, err error) {
	code := pkgerrors.CodeInternal
	if typed := pkgerrors.As(err); typed != nil {
		code = typed.Code()
	}
	s.metrics.IncPlacementFailure(string(code))
	s.logg.Warn(s.logg.WithFields(ctx, map[string]any{"code": string(code), "error": err.Error()}), "order.placement_failed")
}

func paymentDTO(intent *Intent, amount decimal.Decimal) *PaymentDTO {
	return &PaymentDTO{
		Method:      intent.PaymentMethod,
		MethodLabel: intent.PaymentMethod.Label(),
		Amount:      amount,
		PaymentRef:  intent.PaymentRef,
		Paid:        intent.ReadyToPlace(),
	}
}
