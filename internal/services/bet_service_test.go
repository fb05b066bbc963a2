package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/clutchden/clutchden-backend/internal/infrastructure/redis"
	"github.com/clutchden/clutchden-backend/internal/models"
	"github.com/clutchden/clutchden-backend/pkg/contracts/topics"
	pkgerrors "github.com/clutchden/clutchden-backend/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPotentialWin(t *testing.T) {
	assert.Equal(t, 70.0, PotentialWin(20, 3.5))
	assert.Equal(t, 13.33, PotentialWin(10, 1.333))
	assert.Equal(t, 0.33, PotentialWin(0.1, 3.33))
	assert.Equal(t, 100.0, PotentialWin(100, 1))
}

type betFixture struct {
	state    *ledgerState
	events   *fakeEventRepo
	redis    *fakeRedis
	producer *fakeProducer
	svc      *betService
	user     *models.User
	event    *models.Event
}

func newBetFixture(t *testing.T, balance float64) *betFixture {
	t.Helper()
	state := newLedgerState()
	user := state.addUser(&models.User{Username: "alice", Email: "alice@example.com", Balance: balance})
	events := newFakeEventRepo()

	start := time.Now().Add(-time.Hour)
	end := time.Now().Add(time.Hour)
	event := &models.Event{
		Title:   "Grand Final",
		Status:  models.EventLive,
		StartAt: &start,
		EndAt:   &end,
		Markets: []models.Market{
			{ID: 1, Name: "Team A to win", Odds: 3.5},
			{ID: 2, Name: "Draw", Odds: 2.1},
		},
	}
	require.NoError(t, events.Create(context.Background(), event))

	redisClient := newFakeRedis()
	producer := newFakeProducer()
	svc := NewBetService(&fakeBetRepo{state: state}, events, redisClient, producer)
	return &betFixture{state: state, events: events, redis: redisClient, producer: producer, svc: svc, user: user, event: event}
}

func TestBetService_PlaceBet(t *testing.T) {
	ctx := context.Background()

	t.Run("deducts stake and snapshots the market", func(t *testing.T) {
		f := newBetFixture(t, 100)

		bet, err := f.svc.PlaceBet(ctx, f.user.ID, f.event.ID, 1, 20)
		require.NoError(t, err)
		assert.Equal(t, "Team A to win", bet.MarketName)
		assert.Equal(t, 3.5, bet.MarketOdds)
		assert.Equal(t, 70.0, bet.PotentialWin)
		assert.Equal(t, models.BetPending, bet.Status)
		assert.Equal(t, 80.0, f.user.Balance)

		msg, ok := f.producer.waitForMessage(time.Second)
		require.True(t, ok)
		assert.Equal(t, topics.Bets, msg.topic)
	})

	t.Run("caches the event after the first lookup", func(t *testing.T) {
		f := newBetFixture(t, 100)

		_, err := f.svc.PlaceBet(ctx, f.user.ID, f.event.ID, 1, 10)
		require.NoError(t, err)
		assert.True(t, f.redis.has(redis.EventKey(f.event.ID)))

		_, err = f.svc.PlaceBet(ctx, f.user.ID, f.event.ID, 2, 10)
		require.NoError(t, err)
		assert.Equal(t, 1, f.events.calls, "second placement should be served from cache")
	})

	t.Run("serves a primed cache without touching storage", func(t *testing.T) {
		f := newBetFixture(t, 100)

		eventBytes, err := json.Marshal(f.event)
		require.NoError(t, err)
		require.NoError(t, f.redis.Set(ctx, redis.EventKey(f.event.ID), string(eventBytes), time.Minute))

		_, err = f.svc.PlaceBet(ctx, f.user.ID, f.event.ID, 1, 10)
		require.NoError(t, err)
		assert.Zero(t, f.events.calls)
	})

	t.Run("rejects insufficient balance without partial effects", func(t *testing.T) {
		f := newBetFixture(t, 15)

		_, err := f.svc.PlaceBet(ctx, f.user.ID, f.event.ID, 1, 20)
		assert.ErrorIs(t, err, pkgerrors.ErrInsufficientBalance)
		assert.Equal(t, 15.0, f.user.Balance)

		bets, err := f.svc.UserBets(ctx, f.user.ID)
		require.NoError(t, err)
		assert.Empty(t, bets)
	})

	t.Run("rejects non-positive stake", func(t *testing.T) {
		f := newBetFixture(t, 100)
		_, err := f.svc.PlaceBet(ctx, f.user.ID, f.event.ID, 1, 0)
		assert.ErrorIs(t, err, pkgerrors.ErrInvalidStake)
	})

	t.Run("rejects unknown market", func(t *testing.T) {
		f := newBetFixture(t, 100)
		_, err := f.svc.PlaceBet(ctx, f.user.ID, f.event.ID, 99, 20)
		assert.ErrorIs(t, err, pkgerrors.ErrMarketNotFound)
	})

	t.Run("rejects unknown event", func(t *testing.T) {
		f := newBetFixture(t, 100)
		_, err := f.svc.PlaceBet(ctx, f.user.ID, 999, 1, 20)
		assert.ErrorIs(t, err, pkgerrors.ErrEventNotFound)
	})

	t.Run("rejects bets before the event opens", func(t *testing.T) {
		f := newBetFixture(t, 100)
		f.svc.now = func() time.Time { return f.event.StartAt.Add(-time.Minute) }

		_, err := f.svc.PlaceBet(ctx, f.user.ID, f.event.ID, 1, 20)
		assert.ErrorIs(t, err, pkgerrors.ErrEventNotStarted)
	})

	t.Run("rejects bets after the event ends", func(t *testing.T) {
		f := newBetFixture(t, 100)
		f.svc.now = func() time.Time { return f.event.EndAt.Add(time.Minute) }

		_, err := f.svc.PlaceBet(ctx, f.user.ID, f.event.ID, 1, 20)
		assert.ErrorIs(t, err, pkgerrors.ErrEventEnded)
	})

	t.Run("rejects bets on finished events", func(t *testing.T) {
		f := newBetFixture(t, 100)
		f.event.Status = models.EventFinished

		_, err := f.svc.PlaceBet(ctx, f.user.ID, f.event.ID, 1, 20)
		assert.ErrorIs(t, err, pkgerrors.ErrEventEnded)
	})
}

func TestBetService_Receipt(t *testing.T) {
	ctx := context.Background()
	f := newBetFixture(t, 100)

	bet, err := f.svc.PlaceBet(ctx, f.user.ID, f.event.ID, 1, 20)
	require.NoError(t, err)

	t.Run("owner can read the receipt", func(t *testing.T) {
		receipt, err := f.svc.Receipt(ctx, f.user.ID, bet.ID)
		require.NoError(t, err)
		assert.Equal(t, bet.ID, receipt.ReceiptID)
		assert.Equal(t, "alice", receipt.Username)
		assert.Equal(t, 70.0, receipt.PotentialWin)
	})

	t.Run("other users are refused", func(t *testing.T) {
		_, err := f.svc.Receipt(ctx, f.user.ID+1, bet.ID)
		assert.ErrorIs(t, err, pkgerrors.ErrNotBetOwner)
	})

	t.Run("missing bet", func(t *testing.T) {
		_, err := f.svc.Receipt(ctx, f.user.ID, 999)
		assert.ErrorIs(t, err, pkgerrors.ErrBetNotFound)
	})
}
