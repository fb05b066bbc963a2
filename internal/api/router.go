package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/clutchden/clutchden-backend/internal/handler"
	"github.com/clutchden/clutchden-backend/internal/infrastructure/auth"
	"github.com/clutchden/clutchden-backend/internal/infrastructure/observability"
	"github.com/clutchden/clutchden-backend/internal/infrastructure/redis"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func SetupRouter(h *handler.Handler, redisClient redis.RedisClient, jwtSecret string) *mux.Router {
	r := mux.NewRouter()
	r.Use(metricsMiddleware)

	// Public
	r.HandleFunc("/auth/register", h.Register).Methods(http.MethodPost)
	r.HandleFunc("/auth/login", h.Login).Methods(http.MethodPost)
	r.HandleFunc("/winners/recent", h.RecentWinners).Methods(http.MethodGet)
	r.HandleFunc("/winners/top", h.TopWinners).Methods(http.MethodGet)
	r.HandleFunc("/healthz", h.Health).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.Handler())

	// Authenticated
	authed := r.NewRoute().Subrouter()
	authed.Use(auth.Middleware(redisClient, jwtSecret))

	authed.HandleFunc("/account/balance", h.GetBalance).Methods(http.MethodGet)
	authed.HandleFunc("/account/deposit", h.RequestDeposit).Methods(http.MethodPost)
	authed.HandleFunc("/account/withdraw", h.RequestWithdraw).Methods(http.MethodPost)
	authed.HandleFunc("/account/transactions", h.ListTransactions).Methods(http.MethodGet)
	authed.HandleFunc("/account/withdraw-history", h.WithdrawHistory).Methods(http.MethodGet)
	authed.HandleFunc("/account/notifications", h.Notifications).Methods(http.MethodGet)
	authed.HandleFunc("/account/notifications/unread-count", h.UnreadNotifications).Methods(http.MethodGet)
	authed.HandleFunc("/account/notifications/{id:[0-9]+}/read", h.MarkNotificationRead).Methods(http.MethodPost)
	authed.HandleFunc("/account/notifications/{id:[0-9]+}", h.DeleteNotification).Methods(http.MethodDelete)

	authed.HandleFunc("/bets", h.PlaceBet).Methods(http.MethodPost)
	authed.HandleFunc("/bets/me", h.UserBets).Methods(http.MethodGet)
	authed.HandleFunc("/bets/{id:[0-9]+}/receipt", h.BetReceipt).Methods(http.MethodGet)

	authed.HandleFunc("/events", h.ListEvents).Methods(http.MethodGet)
	authed.HandleFunc("/events/{id:[0-9]+}", h.GetEvent).Methods(http.MethodGet)

	authed.HandleFunc("/support", h.OpenTicket).Methods(http.MethodPost)
	authed.HandleFunc("/support/me", h.MyTickets).Methods(http.MethodGet)
	authed.HandleFunc("/support/{id:[0-9]+}/messages", h.ReplyTicket).Methods(http.MethodPost)

	// Admin
	admin := authed.NewRoute().Subrouter()
	admin.Use(auth.RequireAdmin)

	admin.HandleFunc("/account/pending", h.ListPending).Methods(http.MethodGet)
	admin.HandleFunc("/account/approve/{id:[0-9]+}", h.ApproveTransaction).Methods(http.MethodPost)
	admin.HandleFunc("/account/reject/{id:[0-9]+}", h.RejectTransaction).Methods(http.MethodPost)
	admin.HandleFunc("/bets", h.ListBets).Methods(http.MethodGet)
	admin.HandleFunc("/events", h.CreateEvent).Methods(http.MethodPost)
	admin.HandleFunc("/events/{id:[0-9]+}", h.UpdateEvent).Methods(http.MethodPut)
	admin.HandleFunc("/winners", h.AddWinner).Methods(http.MethodPost)
	admin.HandleFunc("/support", h.AllTickets).Methods(http.MethodGet)
	admin.HandleFunc("/support/{id:[0-9]+}/close", h.CloseTicket).Methods(http.MethodPost)
	admin.HandleFunc("/admin/users", h.ListUsers).Methods(http.MethodGet)
	admin.HandleFunc("/admin/users/{id:[0-9]+}", h.GetUser).Methods(http.MethodGet)
	admin.HandleFunc("/admin/users/{id:[0-9]+}/status", h.SetUserStatus).Methods(http.MethodPut)
	admin.HandleFunc("/admin/transactions", h.AllTransactions).Methods(http.MethodGet)
	admin.HandleFunc("/admin/credit", h.CreditUser).Methods(http.MethodPost)

	return r
}

func metricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		endpoint := r.URL.Path
		if route := mux.CurrentRoute(r); route != nil {
			if tmpl, err := route.GetPathTemplate(); err == nil {
				endpoint = tmpl
			}
		}

		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(recorder, r)

		status := fmt.Sprintf("%d", recorder.status)
		observability.RequestCounter.WithLabelValues(r.Method, endpoint, status).Inc()
		observability.RequestDuration.WithLabelValues(r.Method, endpoint).Observe(time.Since(start).Seconds())
	})
}

// statusRecorder captures the response status for metrics.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

