// Package dbtest opens throwaway sqlite databases carrying the campaign schema.
package dbtest

import (
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/gonggu-lab/gonggu-backend/pkg/db"
)

var schema = []string{
	`CREATE TABLE campaigns (
		id TEXT PRIMARY KEY,
		leader_id TEXT NOT NULL,
		title TEXT NOT NULL,
		product_url TEXT NOT NULL,
		description TEXT NOT NULL,
		fixed_count INTEGER NOT NULL,
		total_price INTEGER NOT NULL,
		shipping_fee INTEGER NOT NULL,
		estimated_price INTEGER NOT NULL,
		account TEXT NOT NULL,
		bank TEXT NOT NULL,
		start_date DATETIME NOT NULL,
		end_date DATETIME NOT NULL,
		category TEXT NOT NULL,
		status TEXT NOT NULL,
		cancel_reason TEXT,
		non_depositors TEXT,
		pickup_place TEXT,
		pickup_time TEXT,
		is_reminder_sent BOOLEAN NOT NULL DEFAULT 0,
		version INTEGER NOT NULL DEFAULT 0,
		created_at DATETIME,
		updated_at DATETIME
	)`,
	`CREATE TABLE participants (
		id TEXT PRIMARY KEY,
		campaign_id TEXT NOT NULL,
		user_id TEXT NOT NULL,
		count INTEGER NOT NULL,
		is_paid BOOLEAN NOT NULL DEFAULT 0,
		refund_bank TEXT,
		refund_account TEXT,
		joined_at DATETIME NOT NULL,
		created_at DATETIME,
		updated_at DATETIME,
		CONSTRAINT participants_campaign_user_key UNIQUE (campaign_id, user_id)
	)`,
	`CREATE TABLE notifications (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		campaign_id TEXT,
		type TEXT NOT NULL,
		title TEXT NOT NULL,
		body TEXT NOT NULL,
		link TEXT,
		read_at DATETIME,
		created_at DATETIME
	)`,
}

// Open returns a fresh in-memory database with the schema applied. Each call
// gets its own database so tests never observe each other's rows.
func Open(t testing.TB) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		SkipDefaultTransaction: true,
		NowFunc:                func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := conn.DB()
	if err != nil {
		t.Fatalf("sqlite handle: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	for _, stmt := range schema {
		if err := conn.Exec(stmt).Error; err != nil {
			t.Fatalf("apply schema: %v", err)
		}
	}
	return conn
}

// OpenClient is Open wrapped in a db.Client for services that need WithTx.
func OpenClient(t testing.TB) (*db.Client, *gorm.DB) {
	t.Helper()
	conn := Open(t)
	return db.Wrap(conn), conn
}
