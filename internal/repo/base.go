// Package repo holds the plumbing shared by the gorm-backed repositories.
package repo

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	pkgerrors "github.com/angelmondragon/buybuddy-backend/pkg/errors"
)

// Base binds a repository to a connection or transaction.
type Base struct {
	db *gorm.DB
}

func NewBase(db *gorm.DB) Base {
	return Base{db: db}
}

func (b Base) DB(ctx context.Context) *gorm.DB {
	return b.db.WithContext(ctx)
}

// Owned scopes a query to rows belonging to userID.
func (b Base) Owned(ctx context.Context, userID uuid.UUID) *gorm.DB {
	return b.DB(ctx).Where("user_id = ?", userID)
}

// OwnedRow scopes a query to the row with id, provided userID owns it.
func (b Base) OwnedRow(ctx context.Context, userID, id uuid.UUID) *gorm.DB {
	return b.Owned(ctx, userID).Where("id = ?", id)
}

// Lookup turns a failed single-row load of what ("address", "review") into
// the API error: not found for missing rows, internal otherwise.
func Lookup(err error, what string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return pkgerrors.NotFound(what + " not found")
	}
	return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load "+what)
}
