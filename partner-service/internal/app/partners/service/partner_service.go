package service

import (
	"context"
	"fmt"

	"partnerhub/partner-service/internal/app/partners/entity"
	"partnerhub/partner-service/internal/app/partners/repository"

	"github.com/go-playground/validator/v10"
)

// PartnerService обслуживает список партнёров, форму редактирования и историю продаж
type PartnerService struct {
	partners  repository.PartnerRepository
	sales     repository.SaleRepository
	discounts *DiscountService
	validator *validator.Validate
}

func NewPartnerService(partners repository.PartnerRepository, sales repository.SaleRepository) *PartnerService {
	return &PartnerService{
		partners:  partners,
		sales:     sales,
		discounts: NewDiscountService(sales),
		validator: newValidator(),
	}
}

// ListCards возвращает партнёров по имени, каждый со скидкой
func (s *PartnerService) ListCards(ctx context.Context) ([]entity.PartnerCard, error) {
	partners, err := s.partners.GetAllWithTypes(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list partners: %w", err)
	}

	cards := make([]entity.PartnerCard, 0, len(partners))
	for _, partner := range partners {
		total, discount, err := s.discounts.Evaluate(ctx, partner.ID)
		if err != nil {
			return nil, err
		}

		cards = append(cards, entity.PartnerCard{
			PartnerWithType: partner,
			TotalQuantity:   total,
			Discount:        discount,
		})
	}

	return cards, nil
}

// Save создает партнёра при ID == 0, иначе обновляет существующего
func (s *PartnerService) Save(ctx context.Context, req *entity.SavePartnerRequest) (*entity.Partner, error) {
	normalizeRequest(req)
	if err := s.validator.Struct(req); err != nil {
		return nil, fieldErrors(err)
	}

	partner := &entity.Partner{
		ID:            req.ID,
		PartnerTypeID: req.PartnerTypeID,
		Name:          req.Name,
		LegalAddress:  optional(req.LegalAddress),
		TaxID:         optional(req.TaxID),
		Director:      optional(req.Director),
		Phone:         optional(req.Phone),
		Email:         optional(req.Email),
		Rating:        req.Rating,
	}

	if partner.ID == 0 {
		if err := s.partners.Create(ctx, partner); err != nil {
			return nil, fmt.Errorf("failed to create partner: %w", err)
		}
		return partner, nil
	}

	if err := s.partners.Update(ctx, partner); err != nil {
		return nil, fmt.Errorf("failed to update partner: %w", err)
	}
	return partner, nil
}

// History возвращает партнёра и его продажи, свежие сверху
func (s *PartnerService) History(ctx context.Context, partnerID uint) (*entity.PartnerHistory, error) {
	partner, err := s.partners.GetWithType(ctx, partnerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get partner: %w", err)
	}

	sales, err := s.sales.GetByPartnerID(ctx, partnerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get partner sales: %w", err)
	}

	return &entity.PartnerHistory{
		Partner: *partner,
		Sales:   sales,
	}, nil
}

// Discount считает скидку существующего партнёра
func (s *PartnerService) Discount(ctx context.Context, partnerID uint) (*entity.PartnerDiscount, error) {
	if _, err := s.partners.GetByID(ctx, partnerID); err != nil {
		return nil, fmt.Errorf("failed to get partner: %w", err)
	}

	total, discount, err := s.discounts.Evaluate(ctx, partnerID)
	if err != nil {
		return nil, err
	}

	return &entity.PartnerDiscount{
		PartnerID:     partnerID,
		TotalQuantity: total,
		Discount:      discount,
	}, nil
}
