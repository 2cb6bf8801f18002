// Package mockapi implements a local storefront server speaking the same
// contract as the hosted tr-cafe API: catalog queries with server-side
// filtering and sorting, token-authenticated order endpoints, and the auth
// endpoints. It backs the CLI's serve command and the engine's integration
// tests.
package mockapi

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/MasudBS-1458/tr-cafe/pkg/api"
)

// Server is an in-memory storefront.
type Server struct {
	logger *slog.Logger

	mu     sync.Mutex
	foods  []api.Food
	users  map[string]userRecord // keyed by email
	tokens map[string]string     // token -> user id
	orders map[string][]api.Order
	nextID int

	feed *feedHub
}

type userRecord struct {
	user     api.User
	password string
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the server's structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithMenu replaces the seeded catalog.
func WithMenu(foods []api.Food) Option {
	return func(s *Server) {
		s.foods = foods
	}
}

// NewServer creates a storefront seeded with a small menu.
func NewServer(opts ...Option) *Server {
	s := &Server{
		logger: slog.Default(),
		foods:  defaultMenu(),
		users:  make(map[string]userRecord),
		tokens: make(map[string]string),
		orders: make(map[string][]api.Order),
		feed:   newFeedHub(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handler returns the HTTP routes.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)

	r.Get("/foods", s.handleFoods)
	r.Post("/register", s.handleRegister)
	r.Post("/login", s.handleLogin)
	r.Post("/orders", s.handleCreateOrder)
	r.Get("/orders", s.handleOrders)
	r.Get("/orders/feed", s.feed.handleSubscribe)
	r.Handle("/metrics", promhttp.Handler())

	return r
}

// logRequests logs one line per request.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"duration", time.Since(start),
		)
	})
}

func (s *Server) handleFoods(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	category := q.Get("category")
	minPrice := parsePrice(q.Get("minPrice"), 0)
	maxPrice := parsePrice(q.Get("maxPrice"), 0)
	sortBy := q.Get("sortBy")

	s.mu.Lock()
	foods := make([]api.Food, 0, len(s.foods))
	for _, f := range s.foods {
		if category != "" && f.Category != category {
			continue
		}
		if minPrice > 0 && f.Price < minPrice {
			continue
		}
		if maxPrice > 0 && f.Price > maxPrice {
			continue
		}
		foods = append(foods, f)
	}
	s.mu.Unlock()

	switch sortBy {
	case "price-asc":
		sort.Slice(foods, func(i, j int) bool { return foods[i].Price < foods[j].Price })
	case "price-desc":
		sort.Slice(foods, func(i, j int) bool { return foods[i].Price > foods[j].Price })
	case "name-asc":
		sort.Slice(foods, func(i, j int) bool { return foods[i].Name < foods[j].Name })
	case "name-desc":
		sort.Slice(foods, func(i, j int) bool { return foods[i].Name > foods[j].Name })
	}

	writeJSON(w, http.StatusOK, foods)
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var creds api.Credentials
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if creds.Email == "" || creds.Password == "" {
		writeError(w, http.StatusBadRequest, "email and password are required")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.users[creds.Email]; exists {
		writeError(w, http.StatusConflict, "email already registered")
		return
	}
	s.nextID++
	user := api.User{
		ID:    fmt.Sprintf("u%d", s.nextID),
		Email: creds.Email,
	}
	s.users[creds.Email] = userRecord{user: user, password: creds.Password}

	writeJSON(w, http.StatusCreated, map[string]api.User{"user": user})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var creds api.Credentials
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.users[creds.Email]
	if !ok || rec.password != creds.Password {
		writeError(w, http.StatusUnauthorized, "invalid email or password")
		return
	}
	s.nextID++
	token := fmt.Sprintf("tok-%d", s.nextID)
	s.tokens[token] = rec.user.ID

	writeJSON(w, http.StatusOK, api.AuthResponse{User: rec.user, Token: token})
}

func (s *Server) handleCreateOrder(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.authorize(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	var req api.OrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if len(req.Items) == 0 {
		writeError(w, http.StatusBadRequest, "order has no items")
		return
	}

	s.mu.Lock()
	s.nextID++
	order := api.Order{
		ID:              fmt.Sprintf("o%d", s.nextID),
		Items:           req.Items,
		DeliveryAddress: req.DeliveryAddress,
		PaymentMethod:   req.PaymentMethod,
		CreatedAt:       time.Now().UTC(),
	}
	// Prepend: history is most recent first.
	s.orders[userID] = append([]api.Order{order}, s.orders[userID]...)
	s.mu.Unlock()

	s.feed.broadcast(order)
	writeJSON(w, http.StatusCreated, order)
}

func (s *Server) handleOrders(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.authorize(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	s.mu.Lock()
	orders := make([]api.Order, len(s.orders[userID]))
	copy(orders, s.orders[userID])
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, orders)
}

// authorize resolves the bearer token to a user id.
func (s *Server) authorize(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || token == "" {
		return "", false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	userID, ok := s.tokens[token]
	return userID, ok
}

// Run serves the storefront on addr until the context is cancelled.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("storefront listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.feed.close()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}

func parsePrice(s string, fallback float64) float64 {
	if s == "" {
		return fallback
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fallback
	}
	return v
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"message": message})
}

func defaultMenu() []api.Food {
	return []api.Food{
		{ID: "f1", Name: "Beef Burger", Description: "Char-grilled patty with cheddar", Price: 250, Category: "Burger", PreparationTime: 15, Available: true},
		{ID: "f2", Name: "Chicken Burger", Description: "Crispy fried chicken fillet", Price: 220, Category: "Burger", PreparationTime: 12, Available: true},
		{ID: "f3", Name: "Margherita Pizza", Description: "Tomato, mozzarella, basil", Price: 450, Category: "Pizza", PreparationTime: 20, Available: true},
		{ID: "f4", Name: "Pepperoni Pizza", Description: "Loaded with pepperoni", Price: 520, Category: "Pizza", PreparationTime: 20, Available: true},
		{ID: "f5", Name: "Fries", Description: "Golden shoestring fries", Price: 100, Category: "Sides", PreparationTime: 8, Available: true},
		{ID: "f6", Name: "Kacchi Biryani", Description: "Mutton kacchi with potato", Price: 380, Category: "Rice", PreparationTime: 25, Available: true},
		{ID: "f7", Name: "Cola", Description: "Chilled 250ml can", Price: 40, Category: "Drinks", PreparationTime: 1, Available: true},
	}
}
