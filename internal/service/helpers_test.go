package service

import (
	"context"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"bizledger.com/internal/event"
	"bizledger.com/internal/model"
	"bizledger.com/internal/testutil"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []event.Event
}

func (p *recordingPublisher) Publish(e event.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
}

func (p *recordingPublisher) last() event.Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.events[len(p.events)-1]
}

// newSeededDB 内存库 + 内置角色 + 一个创建者用户
func newSeededDB(t *testing.T) (*gorm.DB, *model.User) {
	t.Helper()
	db := testutil.NewDB(t)
	require.NoError(t, EnsureDefaultRoles(context.Background(), db))

	u := &model.User{Username: "owner", Email: "owner@example.com", Password: "x", EmailVerified: true}
	require.NoError(t, db.Create(u).Error)
	return db, u
}

func dec(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}
