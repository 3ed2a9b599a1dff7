package db

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/angelmondragon/buybuddy-backend/pkg/logger"
)

type ledgerRow struct {
	ID   int
	Note string `gorm:"uniqueIndex"`
}

func openClient(t *testing.T, queryLog *bytes.Buffer, slow time.Duration) *Client {
	t.Helper()
	cfg := &gorm.Config{SkipDefaultTransaction: true, TranslateError: true}
	if queryLog != nil {
		cfg.Logger = newQueryLogger(logger.New(logger.Options{ServiceName: "db-test", Output: queryLog}), slow)
	}
	conn, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), cfg)
	require.NoError(t, err)
	sqlDB, err := conn.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, conn.AutoMigrate(&ledgerRow{}))
	return FromConn(conn)
}

func countRows(t *testing.T, c *Client) int64 {
	t.Helper()
	var n int64
	require.NoError(t, c.DB().Model(&ledgerRow{}).Count(&n).Error)
	return n
}

func TestWithTxCommitsAndRollsBack(t *testing.T) {
	client := openClient(t, nil, 0)
	ctx := context.Background()

	require.NoError(t, client.WithTx(ctx, func(tx *gorm.DB) error {
		return tx.Create(&ledgerRow{Note: "kept"}).Error
	}))
	assert.EqualValues(t, 1, countRows(t, client))

	err := client.WithTx(ctx, func(tx *gorm.DB) error {
		if err := tx.Create(&ledgerRow{Note: "dropped"}).Error; err != nil {
			return err
		}
		return errors.New("boom")
	})
	require.EqualError(t, err, "boom")
	assert.EqualValues(t, 1, countRows(t, client))

	assert.Panics(t, func() {
		_ = client.WithTx(ctx, func(tx *gorm.DB) error {
			tx.Create(&ledgerRow{Note: "panicked"})
			panic("explode")
		})
	})
	assert.EqualValues(t, 1, countRows(t, client))
}

func TestPing(t *testing.T) {
	client := openClient(t, nil, 0)
	require.NoError(t, client.Ping(context.Background()))
	require.NoError(t, client.Close())
	assert.Error(t, client.Ping(context.Background()))
}

func TestQueryLoggerReportsFailuresOnly(t *testing.T) {
	buf := &bytes.Buffer{}
	client := openClient(t, buf, time.Hour)

	require.NoError(t, client.DB().Create(&ledgerRow{Note: "a"}).Error)
	err := client.DB().First(&ledgerRow{}, "note = ?", "missing").Error
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
	assert.True(t, IsUniqueViolation(client.DB().Create(&ledgerRow{Note: "a"}).Error, ""))
	assert.Zero(t, buf.Len(), buf.String())

	require.Error(t, client.DB().Exec("SELECT * FROM no_such_table").Error)
	assert.Contains(t, buf.String(), "db.query_failed")
	assert.Contains(t, buf.String(), "no_such_table")
}

func TestQueryLoggerReportsSlowStatements(t *testing.T) {
	buf := &bytes.Buffer{}
	client := openClient(t, buf, time.Nanosecond)

	require.NoError(t, client.DB().Create(&ledgerRow{Note: "slow"}).Error)
	assert.Contains(t, buf.String(), "db.slow_query")
}
