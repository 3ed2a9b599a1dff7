package repo

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/angelmondragon/buybuddy-backend/pkg/db/dbtest"
	"github.com/angelmondragon/buybuddy-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/buybuddy-backend/pkg/errors"
)

func TestOwnedScopesByUser(t *testing.T) {
	conn := dbtest.Open(t)
	base := NewBase(conn)
	ctx := context.Background()

	owner, other := uuid.New(), uuid.New()
	addr := models.Address{UserID: owner, FullName: "Ada", Phone: "555", AddressLine: "1 Main", City: "Springfield", State: "IL", PostalCode: "62701", Country: "US"}
	require.NoError(t, conn.Create(&addr).Error)

	var found models.Address
	require.NoError(t, base.OwnedRow(ctx, owner, addr.ID).First(&found).Error)
	assert.Equal(t, addr.ID, found.ID)

	err := base.OwnedRow(ctx, other, addr.ID).First(&models.Address{}).Error
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	var count int64
	require.NoError(t, base.Owned(ctx, uuid.New()).Model(&models.Address{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestLookup(t *testing.T) {
	assert.NoError(t, Lookup(nil, "address"))

	err := Lookup(gorm.ErrRecordNotFound, "address")
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
	assert.Equal(t, "address not found", pkgerrors.As(err).Message())

	err = Lookup(errors.New("conn reset"), "review")
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeInternal))
	assert.Equal(t, "load review", pkgerrors.As(err).Message())
}
