package controllers

import (
	"context"

	"github.com/google/uuid"

	"github.com/angelmondragon/buybuddy-backend/internal/address"
	"github.com/angelmondragon/buybuddy-backend/internal/catalog"
	internalorders "github.com/angelmondragon/buybuddy-backend/internal/orders"
	"github.com/angelmondragon/buybuddy-backend/pkg/pagination"
)

type stubAddressService struct{}

func (stubAddressService) List(ctx context.Context, userID uuid.UUID) ([]address.AddressDTO, error) {
	return []address.AddressDTO{}, nil
}

func (stubAddressService) Create(ctx context.Context, userID uuid.UUID, req address.AddressRequest) (*address.AddressDTO, error) {
	return &address.AddressDTO{}, nil
}

func (stubAddressService) Update(ctx context.Context, userID, addressID uuid.UUID, req address.AddressRequest) (*address.AddressDTO, error) {
	return &address.AddressDTO{}, nil
}

func (stubAddressService) Delete(ctx context.Context, userID, addressID uuid.UUID) error {
	return nil
}

func (stubAddressService) SetDefault(ctx context.Context, userID, addressID uuid.UUID) (*address.AddressDTO, error) {
	return &address.AddressDTO{}, nil
}

type stubCatalogService struct {
	catalog.Service
	query  string
	filter catalog.SearchFilter
}

func (s *stubCatalogService) Search(ctx context.Context, query string, filter catalog.SearchFilter) (*catalog.SearchResultDTO, error) {
	s.query = query
	s.filter = filter
	return &catalog.SearchResultDTO{Query: query}, nil
}

type stubOrdersService struct {
	internalorders.Service
	advanced *internalorders.AdvanceRequest
}

func (s *stubOrdersService) Advance(ctx context.Context, orderID uuid.UUID, req internalorders.AdvanceRequest) (*internalorders.OrderDetailDTO, error) {
	s.advanced = &req
	return &internalorders.OrderDetailDTO{ID: orderID}, nil
}

func (s *stubOrdersService) List(ctx context.Context, userID uuid.UUID, params pagination.Params) (*internalorders.OrderList, error) {
	return &internalorders.OrderList{}, nil
}
