package service

import (
	"context"
	"fmt"

	"batik-store/internal/model"
	"batik-store/internal/repository"
)

type statsService struct {
	productRepo repository.ProductRepository
	orderRepo   repository.OrderRepository
}

// NewStatsService creates the admin dashboard service.
func NewStatsService(productRepo repository.ProductRepository, orderRepo repository.OrderRepository) StatsService {
	return &statsService{productRepo: productRepo, orderRepo: orderRepo}
}

// Dashboard summarises catalogue and order counts.
func (s *statsService) Dashboard(ctx context.Context) (*model.DashboardStats, error) {
	products, err := s.productRepo.Count(ctx, model.ProductFilter{})
	if err != nil {
		return nil, fmt.Errorf("failed to count products: %w", err)
	}

	lowStock, err := s.productRepo.CountLowStock(ctx, model.LowStockThreshold)
	if err != nil {
		return nil, fmt.Errorf("failed to count low stock: %w", err)
	}

	byStatus, err := s.orderRepo.CountByStatus(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count orders: %w", err)
	}

	revenue, err := s.orderRepo.SumTotals(ctx, model.StatusCompleted)
	if err != nil {
		return nil, fmt.Errorf("failed to sum revenue: %w", err)
	}

	return &model.DashboardStats{
		TotalProducts:   products,
		LowStock:        lowStock,
		OrdersByStatus:  byStatus,
		PendingOrders:   byStatus[model.StatusPending],
		CompletedIncome: revenue,
	}, nil
}
