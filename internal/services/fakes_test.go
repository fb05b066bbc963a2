package service

import (
	"context"
	"sync"
	"time"

	"github.com/clutchden/clutchden-backend/internal/infrastructure/redis"
	"github.com/clutchden/clutchden-backend/internal/models"
	pkgerrors "github.com/clutchden/clutchden-backend/pkg/errors"
)

// In-memory fakes backing the service tests. The ledger fakes reproduce the
// conditional-update semantics of the Postgres layer so approval flows can be
// exercised end to end without a database.

type fakeRedis struct {
	mu    sync.Mutex
	store map[string]string
}

func newFakeRedis() *fakeRedis {
	return &fakeRedis{store: map[string]string{}}
}

func (r *fakeRedis) Get(_ context.Context, key string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	val, ok := r.store[key]
	if !ok {
		return "", redis.ErrKeyNotFound
	}
	return val, nil
}

func (r *fakeRedis) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := value.(string); ok {
		r.store[key] = s
	}
	return nil
}

func (r *fakeRedis) Del(_ context.Context, key string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.store, key)
	return nil
}

func (r *fakeRedis) Close() error { return nil }

func (r *fakeRedis) has(key string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.store[key]
	return ok
}

type producedMessage struct {
	topic string
	key   string
	value []byte
}

type fakeProducer struct {
	messages chan producedMessage
}

func newFakeProducer() *fakeProducer {
	return &fakeProducer{messages: make(chan producedMessage, 16)}
}

func (p *fakeProducer) Send(_ context.Context, topic, key string, value []byte) error {
	p.messages <- producedMessage{topic: topic, key: key, value: value}
	return nil
}

func (p *fakeProducer) Close() error { return nil }

// waitForMessage blocks until a message arrives or the timeout expires;
// publishing is asynchronous on the service side.
func (p *fakeProducer) waitForMessage(timeout time.Duration) (producedMessage, bool) {
	select {
	case msg := <-p.messages:
		return msg, true
	case <-time.After(timeout):
		return producedMessage{}, false
	}
}

// ledgerState is shared by the user, transaction, withdrawal and bet fakes.
type ledgerState struct {
	mu           sync.Mutex
	users        map[int64]*models.User
	transactions map[int64]*models.Transaction
	withdrawals  map[int64]*models.Withdrawal
	bets         map[int64]*models.Bet
	nextID       int64
}

func newLedgerState() *ledgerState {
	return &ledgerState{
		users:        map[int64]*models.User{},
		transactions: map[int64]*models.Transaction{},
		withdrawals:  map[int64]*models.Withdrawal{},
		bets:         map[int64]*models.Bet{},
	}
}

func (s *ledgerState) addUser(user *models.User) *models.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	user.ID = s.nextID
	user.CreatedAt = time.Now()
	s.users[user.ID] = user
	return user
}

func (s *ledgerState) id() int64 {
	s.nextID++
	return s.nextID
}

type fakeUserRepo struct {
	state *ledgerState
}

func (r *fakeUserRepo) Create(_ context.Context, user *models.User) error {
	r.state.mu.Lock()
	defer r.state.mu.Unlock()
	for _, u := range r.state.users {
		if u.Email == user.Email {
			return pkgerrors.ErrUserAlreadyExists
		}
	}
	user.ID = r.state.id()
	user.CreatedAt = time.Now()
	r.state.users[user.ID] = user
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id int64) (*models.User, error) {
	r.state.mu.Lock()
	defer r.state.mu.Unlock()
	user, ok := r.state.users[id]
	if !ok {
		return nil, pkgerrors.ErrUserNotFound
	}
	return user, nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	r.state.mu.Lock()
	defer r.state.mu.Unlock()
	for _, u := range r.state.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, pkgerrors.ErrUserNotFound
}

func (r *fakeUserRepo) GetBalance(_ context.Context, userID int64) (float64, error) {
	r.state.mu.Lock()
	defer r.state.mu.Unlock()
	user, ok := r.state.users[userID]
	if !ok {
		return 0, pkgerrors.ErrUserNotFound
	}
	return user.Balance, nil
}

func (r *fakeUserRepo) ChangeBalance(_ context.Context, userID int64, delta float64) (float64, error) {
	r.state.mu.Lock()
	defer r.state.mu.Unlock()
	return r.state.changeBalanceLocked(userID, delta)
}

func (r *fakeUserRepo) List(_ context.Context) ([]models.User, error) {
	r.state.mu.Lock()
	defer r.state.mu.Unlock()
	users := []models.User{}
	for _, u := range r.state.users {
		users = append(users, *u)
	}
	return users, nil
}

func (r *fakeUserRepo) SetDisabled(_ context.Context, userID int64, disabled bool) error {
	r.state.mu.Lock()
	defer r.state.mu.Unlock()
	user, ok := r.state.users[userID]
	if !ok {
		return pkgerrors.ErrUserNotFound
	}
	user.Disabled = disabled
	return nil
}

func (s *ledgerState) changeBalanceLocked(userID int64, delta float64) (float64, error) {
	user, ok := s.users[userID]
	if !ok || user.Balance+delta < 0 {
		return 0, pkgerrors.ErrInsufficientBalance
	}
	user.Balance += delta
	return user.Balance, nil
}

type fakeTransactionRepo struct {
	state *ledgerState
}

func (r *fakeTransactionRepo) Create(_ context.Context, tx *models.Transaction) error {
	r.state.mu.Lock()
	defer r.state.mu.Unlock()
	if tx.Amount <= 0 {
		return pkgerrors.ErrInvalidAmount
	}
	tx.ID = r.state.id()
	if tx.Status == "" {
		tx.Status = models.StatusPending
	}
	tx.CreatedAt = time.Now()
	tx.UpdatedAt = tx.CreatedAt
	stored := *tx
	r.state.transactions[tx.ID] = &stored
	return nil
}

func (r *fakeTransactionRepo) List(_ context.Context) ([]models.Transaction, error) {
	r.state.mu.Lock()
	defer r.state.mu.Unlock()
	txs := []models.Transaction{}
	for _, tx := range r.state.transactions {
		txs = append(txs, *tx)
	}
	return txs, nil
}

func (r *fakeTransactionRepo) ListByUser(_ context.Context, userID int64) ([]models.Transaction, error) {
	r.state.mu.Lock()
	defer r.state.mu.Unlock()
	txs := []models.Transaction{}
	for _, tx := range r.state.transactions {
		if tx.UserID == userID {
			txs = append(txs, *tx)
		}
	}
	return txs, nil
}

func (r *fakeTransactionRepo) ListPending(_ context.Context) ([]models.Transaction, error) {
	r.state.mu.Lock()
	defer r.state.mu.Unlock()
	txs := []models.Transaction{}
	for _, tx := range r.state.transactions {
		if tx.Status == models.StatusPending {
			txs = append(txs, *tx)
		}
	}
	return txs, nil
}

func (r *fakeTransactionRepo) Approve(_ context.Context, id int64) (*models.Transaction, error) {
	return r.process(id, true)
}

func (r *fakeTransactionRepo) Reject(_ context.Context, id int64) (*models.Transaction, error) {
	return r.process(id, false)
}

func (r *fakeTransactionRepo) process(id int64, approve bool) (*models.Transaction, error) {
	r.state.mu.Lock()
	defer r.state.mu.Unlock()
	tx, ok := r.state.transactions[id]
	if !ok {
		return nil, pkgerrors.ErrTransactionNotFound
	}
	if tx.Status != models.StatusPending {
		return nil, pkgerrors.ErrAlreadyProcessed
	}

	if approve {
		delta := tx.Amount
		if tx.Type == models.TypeWithdrawal {
			delta = -tx.Amount
		}
		if _, err := r.state.changeBalanceLocked(tx.UserID, delta); err != nil {
			return nil, err
		}
		tx.Status = models.StatusCompleted
	} else {
		tx.Status = models.StatusRejected
	}
	tx.UpdatedAt = time.Now()

	if tx.Type == models.TypeWithdrawal && tx.WithdrawalID != nil {
		if w, ok := r.state.withdrawals[*tx.WithdrawalID]; ok {
			if approve {
				w.Status = models.WithdrawalApproved
			} else {
				w.Status = models.WithdrawalRejected
			}
		}
	}
	result := *tx
	return &result, nil
}

type fakeWithdrawalRepo struct {
	state *ledgerState
}

func (r *fakeWithdrawalRepo) Create(_ context.Context, w *models.Withdrawal) error {
	r.state.mu.Lock()
	defer r.state.mu.Unlock()
	w.ID = r.state.id()
	w.Status = models.WithdrawalPending
	w.CreatedAt = time.Now()
	r.state.withdrawals[w.ID] = w
	return nil
}

func (r *fakeWithdrawalRepo) ListByUser(_ context.Context, userID int64) ([]models.Withdrawal, error) {
	r.state.mu.Lock()
	defer r.state.mu.Unlock()
	ws := []models.Withdrawal{}
	for _, w := range r.state.withdrawals {
		if w.UserID == userID {
			ws = append(ws, *w)
		}
	}
	return ws, nil
}

type fakeAdminAccountRepo struct {
	account *models.AdminAccount
	err     error
}

func (r *fakeAdminAccountRepo) Get(_ context.Context) (*models.AdminAccount, error) {
	if r.err != nil {
		return nil, r.err
	}
	return r.account, nil
}

type fakeNotificationRepo struct {
	mu            sync.Mutex
	notifications []models.Notification
}

func (r *fakeNotificationRepo) Create(_ context.Context, n *models.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	n.ID = int64(len(r.notifications) + 1)
	n.CreatedAt = time.Now()
	r.notifications = append(r.notifications, *n)
	return nil
}

func (r *fakeNotificationRepo) ListByUser(_ context.Context, userID int64) ([]models.Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []models.Notification{}
	for _, n := range r.notifications {
		if n.UserID == userID {
			out = append(out, n)
		}
	}
	return out, nil
}

func (r *fakeNotificationRepo) MarkRead(_ context.Context, userID, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, n := range r.notifications {
		if n.ID == id && n.UserID == userID {
			r.notifications[i].Read = true
			return nil
		}
	}
	return pkgerrors.ErrNotificationNotFound
}

func (r *fakeNotificationRepo) UnreadCount(_ context.Context, userID int64) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var count int64
	for _, n := range r.notifications {
		if n.UserID == userID && !n.Read {
			count++
		}
	}
	return count, nil
}

func (r *fakeNotificationRepo) Delete(_ context.Context, userID, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, n := range r.notifications {
		if n.ID == id && n.UserID == userID {
			r.notifications = append(r.notifications[:i], r.notifications[i+1:]...)
			return nil
		}
	}
	return pkgerrors.ErrNotificationNotFound
}

type fakeBetRepo struct {
	state *ledgerState
}

func (r *fakeBetRepo) Place(_ context.Context, bet *models.Bet) error {
	r.state.mu.Lock()
	defer r.state.mu.Unlock()
	if _, err := r.state.changeBalanceLocked(bet.UserID, -bet.Stake); err != nil {
		return err
	}
	bet.ID = r.state.id()
	bet.Status = models.BetPending
	bet.PlacedAt = time.Now()
	stored := *bet
	r.state.bets[bet.ID] = &stored
	return nil
}

func (r *fakeBetRepo) ListByUser(_ context.Context, userID int64) ([]models.Bet, error) {
	r.state.mu.Lock()
	defer r.state.mu.Unlock()
	bets := []models.Bet{}
	for _, b := range r.state.bets {
		if b.UserID == userID {
			bets = append(bets, *b)
		}
	}
	return bets, nil
}

func (r *fakeBetRepo) List(_ context.Context) ([]models.Bet, error) {
	r.state.mu.Lock()
	defer r.state.mu.Unlock()
	bets := []models.Bet{}
	for _, b := range r.state.bets {
		bets = append(bets, *b)
	}
	return bets, nil
}

func (r *fakeBetRepo) GetReceipt(_ context.Context, betID int64) (*models.BetReceipt, int64, error) {
	r.state.mu.Lock()
	defer r.state.mu.Unlock()
	bet, ok := r.state.bets[betID]
	if !ok {
		return nil, 0, pkgerrors.ErrBetNotFound
	}
	username := ""
	if user, ok := r.state.users[bet.UserID]; ok {
		username = user.Username
	}
	return &models.BetReceipt{
		ReceiptID:    bet.ID,
		Username:     username,
		EventTitle:   "Event",
		Market:       bet.MarketName,
		Odds:         bet.MarketOdds,
		Stake:        bet.Stake,
		PotentialWin: bet.PotentialWin,
		Status:       bet.Status,
		PlacedAt:     bet.PlacedAt,
	}, bet.UserID, nil
}

type fakeEventRepo struct {
	mu     sync.Mutex
	events map[int64]*models.Event
	calls  int
	nextID int64
}

func newFakeEventRepo() *fakeEventRepo {
	return &fakeEventRepo{events: map[int64]*models.Event{}}
}

func (r *fakeEventRepo) Create(_ context.Context, event *models.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	event.ID = r.nextID
	event.CreatedAt = time.Now()
	r.events[event.ID] = event
	return nil
}

func (r *fakeEventRepo) Update(_ context.Context, event *models.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.events[event.ID]; !ok {
		return pkgerrors.ErrEventNotFound
	}
	r.events[event.ID] = event
	return nil
}

func (r *fakeEventRepo) GetByID(_ context.Context, id int64) (*models.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	event, ok := r.events[id]
	if !ok {
		return nil, pkgerrors.ErrEventNotFound
	}
	return event, nil
}

func (r *fakeEventRepo) List(_ context.Context) ([]models.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	events := []models.Event{}
	for _, e := range r.events {
		events = append(events, *e)
	}
	return events, nil
}

type fakeSupportRepo struct {
	mu      sync.Mutex
	tickets map[int64]*models.SupportTicket
	nextID  int64
}

func newFakeSupportRepo() *fakeSupportRepo {
	return &fakeSupportRepo{tickets: map[int64]*models.SupportTicket{}}
}

func (r *fakeSupportRepo) CreateTicket(_ context.Context, ticket *models.SupportTicket, message *models.TicketMessage) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	ticket.ID = r.nextID
	ticket.Status = models.TicketOpen
	ticket.CreatedAt = time.Now()
	ticket.UpdatedAt = ticket.CreatedAt
	message.TicketID = ticket.ID
	ticket.Messages = []models.TicketMessage{*message}
	r.tickets[ticket.ID] = ticket
	return nil
}

func (r *fakeSupportRepo) GetTicket(_ context.Context, id int64) (*models.SupportTicket, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ticket, ok := r.tickets[id]
	if !ok {
		return nil, pkgerrors.ErrTicketNotFound
	}
	copied := *ticket
	return &copied, nil
}

func (r *fakeSupportRepo) ListByUser(_ context.Context, userID int64) ([]models.SupportTicket, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	tickets := []models.SupportTicket{}
	for _, t := range r.tickets {
		if t.UserID == userID {
			tickets = append(tickets, *t)
		}
	}
	return tickets, nil
}

func (r *fakeSupportRepo) ListAll(_ context.Context) ([]models.SupportTicket, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	tickets := []models.SupportTicket{}
	for _, t := range r.tickets {
		tickets = append(tickets, *t)
	}
	return tickets, nil
}

func (r *fakeSupportRepo) AddMessage(_ context.Context, msg *models.TicketMessage, newStatus models.TicketStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	ticket, ok := r.tickets[msg.TicketID]
	if !ok {
		return pkgerrors.ErrTicketNotFound
	}
	ticket.Messages = append(ticket.Messages, *msg)
	ticket.Status = newStatus
	ticket.UpdatedAt = time.Now()
	return nil
}

func (r *fakeSupportRepo) SetStatus(_ context.Context, ticketID int64, status models.TicketStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	ticket, ok := r.tickets[ticketID]
	if !ok {
		return pkgerrors.ErrTicketNotFound
	}
	ticket.Status = status
	return nil
}

type fakeWinnerRepo struct {
	mu      sync.Mutex
	winners []models.Winner
}

func (r *fakeWinnerRepo) Create(_ context.Context, winner *models.Winner) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	winner.ID = int64(len(r.winners) + 1)
	winner.CreatedAt = time.Now()
	r.winners = append(r.winners, *winner)
	return nil
}

func (r *fakeWinnerRepo) Recent(_ context.Context, limit int) ([]models.Winner, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.winners) > limit {
		return r.winners[len(r.winners)-limit:], nil
	}
	return r.winners, nil
}

func (r *fakeWinnerRepo) Top(_ context.Context, limit int) ([]models.TopWinner, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	totals := map[string]float64{}
	for _, w := range r.winners {
		totals[w.Username] += w.Amount
	}
	top := []models.TopWinner{}
	for name, total := range totals {
		top = append(top, models.TopWinner{Username: name, Total: total})
	}
	return top, nil
}
