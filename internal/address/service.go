package address

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/buybuddy-backend/internal/repo"
	"github.com/angelmondragon/buybuddy-backend/pkg/db"
	"github.com/angelmondragon/buybuddy-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/buybuddy-backend/pkg/errors"
)

// Service manages a user's address book. Once any address exists exactly one
// of them is the default.
type Service interface {
	List(ctx context.Context, userID uuid.UUID) ([]AddressDTO, error)
	Create(ctx context.Context, userID uuid.UUID, req AddressRequest) (*AddressDTO, error)
	Update(ctx context.Context, userID, addressID uuid.UUID, req AddressRequest) (*AddressDTO, error)
	Delete(ctx context.Context, userID, addressID uuid.UUID) error
	SetDefault(ctx context.Context, userID, addressID uuid.UUID) (*AddressDTO, error)
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type service struct {
	tx   txRunner
	repo *Repository
}

// NewService builds the address book service.
func NewService(tx txRunner, repo *Repository) (Service, error) {
	if tx == nil {
		return nil, fmt.Errorf("database client required")
	}
	if repo == nil {
		return nil, fmt.Errorf("address repository required")
	}
	return &service{tx: tx, repo: repo}, nil
}

func (s *service) List(ctx context.Context, userID uuid.UUID) ([]AddressDTO, error) {
	addresses, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list addresses")
	}
	return FromModels(addresses), nil
}

func (s *service) Create(ctx context.Context, userID uuid.UUID, req AddressRequest) (*AddressDTO, error) {
	address := &models.Address{UserID: userID}
	applyRequest(address, req)

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		count, err := repo.CountByUser(ctx, userID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "count addresses")
		}
		if count == 0 {
			address.IsDefault = true
		}
		if address.IsDefault {
			if err := repo.ClearDefault(ctx, userID); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "clear default address")
			}
		}
		if err := repo.Create(ctx, address); err != nil {
			return writeError(err, "create address")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	dto := FromModel(*address)
	return &dto, nil
}

// Update edits an address. Asking for is_default promotes it; the current
// default cannot be demoted here, only replaced by another SetDefault.
func (s *service) Update(ctx context.Context, userID, addressID uuid.UUID, req AddressRequest) (*AddressDTO, error) {
	var updated *models.Address
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		address, err := loadOwned(ctx, repo, userID, addressID)
		if err != nil {
			return err
		}

		wasDefault := address.IsDefault
		applyRequest(address, req)
		address.IsDefault = wasDefault || req.IsDefault
		address.UpdatedAt = time.Now().UTC()

		if address.IsDefault && !wasDefault {
			if err := repo.ClearDefault(ctx, userID); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "clear default address")
			}
		}
		if err := repo.Save(ctx, address); err != nil {
			return writeError(err, "update address")
		}
		updated = address
		return nil
	})
	if err != nil {
		return nil, err
	}

	dto := FromModel(*updated)
	return &dto, nil
}

func (s *service) Delete(ctx context.Context, userID, addressID uuid.UUID) error {
	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		address, err := loadOwned(ctx, repo, userID, addressID)
		if err != nil {
			return err
		}
		if err := repo.Delete(ctx, userID, address.ID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete address")
		}
		if !address.IsDefault {
			return nil
		}

		newest, err := repo.FindNewest(ctx, userID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load newest address")
		}
		if err := repo.MarkDefault(ctx, newest.ID); err != nil {
			return writeError(err, "promote default address")
		}
		return nil
	})
}

func (s *service) SetDefault(ctx context.Context, userID, addressID uuid.UUID) (*AddressDTO, error) {
	var address *models.Address
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		var err error
		address, err = loadOwned(ctx, repo, userID, addressID)
		if err != nil {
			return err
		}
		if err := repo.ClearDefault(ctx, userID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "clear default address")
		}
		if err := repo.MarkDefault(ctx, address.ID); err != nil {
			return writeError(err, "set default address")
		}
		address.IsDefault = true
		return nil
	})
	if err != nil {
		return nil, err
	}

	dto := FromModel(*address)
	return &dto, nil
}

// defaultIndex is the partial unique index allowing one default per user.
const defaultIndex = "addresses_user_default_key"

// writeError maps a lost race on the default flag to DUPLICATE so the client
// can retry; anything else is internal.
func writeError(err error, action string) error {
	if db.IsUniqueViolation(err, defaultIndex) {
		return pkgerrors.Wrap(pkgerrors.CodeDuplicate, err, "another default address was set concurrently")
	}
	return pkgerrors.Wrap(pkgerrors.CodeInternal, err, action)
}

func loadOwned(ctx context.Context, addresses *Repository, userID, addressID uuid.UUID) (*models.Address, error) {
	address, err := addresses.FindOwned(ctx, userID, addressID)
	if err != nil {
		return nil, repo.Lookup(err, "address")
	}
	return address, nil
}

func applyRequest(address *models.Address, req AddressRequest) {
	address.FullName = strings.TrimSpace(req.FullName)
	address.Phone = strings.TrimSpace(req.Phone)
	address.AddressLine = strings.TrimSpace(req.AddressLine)
	address.City = strings.TrimSpace(req.City)
	address.State = strings.TrimSpace(req.State)
	address.Country = strings.TrimSpace(req.Country)
	if address.Country == "" {
		address.Country = DefaultCountry
	}
	address.PostalCode = strings.TrimSpace(req.PostalCode)
	address.IsDefault = req.IsDefault
}
