package services

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"menucart/internal/cart"
	"menucart/internal/metrics"
	"menucart/internal/models"
	"menucart/internal/orderid"
	"menucart/internal/repositories"
)

// OrderService handles business logic related to orders.
type OrderService struct {
	orderRepo repositories.OrderRepository
	menuRepo  repositories.MenuRepository
	publisher Publisher
	logger    *slog.Logger
	now       func() time.Time
}

// NewOrderService creates a new OrderService. publisher may be nil.
func NewOrderService(orderRepo repositories.OrderRepository, menuRepo repositories.MenuRepository, publisher Publisher, logger *slog.Logger) *OrderService {
	if logger == nil {
		logger = slog.Default()
	}
	return &OrderService{
		orderRepo: orderRepo,
		menuRepo:  menuRepo,
		publisher: publisher,
		logger:    logger,
		now:       time.Now,
	}
}

// GetAllOrders retrieves orders by creation time, optionally filtered by status.
func (s *OrderService) GetAllOrders(status models.OrderStatus) ([]models.Order, error) {
	if status != "" && !status.Valid() {
		return nil, fmt.Errorf("%w: %s", ErrInvalidStatus, status)
	}
	return s.orderRepo.GetAll(status)
}

// GetOrderByID retrieves a single order by its ID.
func (s *OrderService) GetOrderByID(id string) (*models.Order, error) {
	return s.orderRepo.GetByID(orderid.Normalize(id))
}

// CreateOrder stores a new order. Prices come from the menu, never from the
// request; stock is reserved; status and payment status start as pending.
func (s *OrderService) CreateOrder(req models.Order) (*models.Order, error) {
	method, err := models.ParsePaymentMethod(string(req.PaymentMethod))
	if err != nil {
		metrics.OrderRejections.WithLabelValues("invalid").Inc()
		return nil, fmt.Errorf("%w: %v", ErrInvalidOrder, err)
	}

	items, quantities, err := s.priceLines(req.Items, nil)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		metrics.OrderRejections.WithLabelValues("invalid").Inc()
		return nil, fmt.Errorf("%w: order has no items", ErrInvalidOrder)
	}

	id := orderid.Normalize(req.ID)
	if !orderid.Valid(id) {
		id = orderid.New(s.now(), nil)
	}

	if err := s.reserve(quantities); err != nil {
		return nil, err
	}

	now := s.now()
	order := &models.Order{
		ID:            id,
		SessionID:     req.SessionID,
		TableID:       req.TableID,
		UserDetails:   req.UserDetails,
		Items:         items,
		Status:        models.StatusPending,
		PaymentMethod: method,
		PaymentStatus: models.PaymentPending,
		Total:         cart.Total(items),
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.orderRepo.Create(order); err != nil {
		s.release(quantities)
		if errors.Is(err, repositories.ErrDuplicate) {
			metrics.OrderRejections.WithLabelValues("duplicate").Inc()
		}
		return nil, fmt.Errorf("failed to create order in repository: %w", err)
	}

	metrics.OrdersCreated.WithLabelValues(string(method)).Inc()
	metrics.OrderValue.Observe(order.Total)
	s.logger.Info("order created", "order_id", order.ID, "table", order.TableID, "items", len(order.Items), "total", order.Total)
	publishOrderEvent(s.publisher, s.logger, EventOrderCreated, order, "")
	return order, nil
}

// ReplaceOrder overwrites the items of an existing order with the merged list
// the client sends. Lines may only grow: existing lines keep their original
// price, new lines are priced from the menu, and only the added quantity is
// taken from stock. Status, payment fields, customer details and creation time
// are kept from the stored copy.
func (s *OrderService) ReplaceOrder(id string, req models.Order) (*models.Order, error) {
	existing, err := s.orderRepo.GetByID(orderid.Normalize(id))
	if err != nil {
		return nil, err
	}
	if existing.Status.Terminal() {
		metrics.OrderRejections.WithLabelValues("closed").Inc()
		return nil, fmt.Errorf("%w: %s is %s", ErrOrderClosed, existing.ID, existing.Status)
	}

	items, deltas, err := s.priceLines(req.Items, existing.Items)
	if err != nil {
		return nil, err
	}
	if err := s.reserve(deltas); err != nil {
		return nil, err
	}

	updated := existing.Clone()
	updated.Items = items
	updated.Total = cart.Total(items)
	updated.UpdatedAt = s.now()
	if err := s.orderRepo.Update(updated); err != nil {
		s.release(deltas)
		return nil, fmt.Errorf("failed to update order %s: %w", updated.ID, err)
	}

	metrics.OrdersAppended.Inc()
	s.logger.Info("order appended", "order_id", updated.ID, "items", len(updated.Items), "total", updated.Total)
	publishOrderEvent(s.publisher, s.logger, EventOrderUpdated, updated, "")
	return updated, nil
}

// priceLines merges duplicate ids in lines and prices them. Lines already in
// existing keep their stored item data and may not shrink. The returned map
// holds the quantity each item needs from stock.
func (s *OrderService) priceLines(lines, existing []models.CartLine) ([]models.CartLine, map[string]int, error) {
	previous := make(map[string]models.CartLine, len(existing))
	for _, l := range existing {
		previous[l.ID] = l
	}

	var out []models.CartLine
	index := make(map[string]int)
	for _, l := range lines {
		if l.ID == "" || l.Quantity < 1 {
			metrics.OrderRejections.WithLabelValues("invalid").Inc()
			return nil, nil, fmt.Errorf("%w: line %q has quantity %d", ErrInvalidOrder, l.ID, l.Quantity)
		}
		if i, ok := index[l.ID]; ok {
			out[i].Quantity += l.Quantity
			continue
		}
		index[l.ID] = len(out)
		out = append(out, models.CartLine{MenuItem: l.MenuItem, Quantity: l.Quantity})
	}

	needed := make(map[string]int)
	for i := range out {
		line := &out[i]
		if prev, ok := previous[line.ID]; ok {
			if line.Quantity < prev.Quantity {
				metrics.OrderRejections.WithLabelValues("invalid").Inc()
				return nil, nil, fmt.Errorf("%w: quantity of %s cannot drop from %d to %d", ErrInvalidOrder, prev.Name, prev.Quantity, line.Quantity)
			}
			line.MenuItem = prev.MenuItem
			if delta := line.Quantity - prev.Quantity; delta > 0 {
				needed[line.ID] = delta
			}
			continue
		}
		item, err := s.menuRepo.GetItem(line.ID)
		if err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				metrics.OrderRejections.WithLabelValues("invalid").Inc()
				return nil, nil, fmt.Errorf("%w: %v", ErrInvalidOrder, err)
			}
			return nil, nil, err
		}
		if !item.IsAvailable {
			metrics.OrderRejections.WithLabelValues("unavailable").Inc()
			return nil, nil, fmt.Errorf("%w: %s", ErrItemUnavailable, item.Name)
		}
		line.MenuItem = *item
		needed[line.ID] = line.Quantity
	}
	for id, prev := range previous {
		if _, ok := index[id]; !ok {
			metrics.OrderRejections.WithLabelValues("invalid").Inc()
			return nil, nil, fmt.Errorf("%w: %s cannot be removed from a placed order", ErrInvalidOrder, prev.Name)
		}
	}
	return out, needed, nil
}

func (s *OrderService) reserve(quantities map[string]int) error {
	if len(quantities) == 0 {
		return nil
	}
	if err := s.menuRepo.ReserveStock(quantities); err != nil {
		if errors.Is(err, repositories.ErrInsufficientStock) {
			metrics.OrderRejections.WithLabelValues("stock").Inc()
		}
		return err
	}
	return nil
}

func (s *OrderService) release(quantities map[string]int) {
	if len(quantities) == 0 {
		return
	}
	if err := s.menuRepo.ReleaseStock(quantities); err != nil {
		s.logger.Error("failed to release reserved stock", "error", err)
	}
}

// UpdateOrderStatus moves an order to status along the kitchen lifecycle.
func (s *OrderService) UpdateOrderStatus(id string, status models.OrderStatus) (*models.Order, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("%w: %s", ErrInvalidStatus, status)
	}

	order, err := s.orderRepo.GetByID(orderid.Normalize(id))
	if err != nil {
		return nil, err
	}
	previous := order.Status
	if !models.CanTransition(previous, status) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, previous, status)
	}
	if previous == status {
		return order, nil
	}

	if err := s.orderRepo.UpdateStatus(order.ID, status); err != nil {
		return nil, fmt.Errorf("failed to update order status for order %s: %w", order.ID, err)
	}
	order.Status = status
	order.UpdatedAt = s.now()

	metrics.StatusTransitions.WithLabelValues(string(status)).Inc()
	s.logger.Info("order status changed", "order_id", order.ID, "from", previous, "to", status)
	publishOrderEvent(s.publisher, s.logger, EventOrderStatusChanged, order, previous)
	return order, nil
}
