package repository

import (
	"github.com/greenbean/storefront-backend/internal/app/model"
	"github.com/greenbean/storefront-backend/pkg/logger"
	"gorm.io/gorm"
)

type OrderRepository interface {
	Create(order *model.Order) error
	FindByOrderNumber(orderNumber string) (*model.Order, error)
	FindBySessionID(sessionID string) ([]model.Order, error)
}

type orderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepository{db: db}
}

func (r *orderRepository) Create(order *model.Order) error {
	logger.Debug("Creating order in database", map[string]interface{}{
		"order_number": order.OrderNumber,
		"session_id":   order.SessionID,
		"total":        order.Total,
		"items":        len(order.OrderItems),
	})

	if err := r.db.Create(order).Error; err != nil {
		logger.Error("Failed to create order in database", err, map[string]interface{}{
			"order_number": order.OrderNumber,
			"session_id":   order.SessionID,
		})
		return err
	}
	return nil
}

func (r *orderRepository) FindByOrderNumber(orderNumber string) (*model.Order, error) {
	var order model.Order
	err := r.db.Where("order_number = ?", orderNumber).
		Preload("OrderItems").
		First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *orderRepository) FindBySessionID(sessionID string) ([]model.Order, error) {
	var orders []model.Order
	err := r.db.Where("session_id = ?", sessionID).
		Preload("OrderItems").
		Order("created_at DESC").
		Find(&orders).Error
	if err != nil {
		logger.Error("Failed to find orders by session in database", err, map[string]interface{}{
			"session_id": sessionID,
		})
		return nil, err
	}
	return orders, nil
}
