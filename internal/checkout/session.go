package checkout

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ErrSessionNotFound means the session ID is unknown or already finalized.
var ErrSessionNotFound = errors.New("checkout session not found")

// Customer is the identity snapshot frozen onto the order at checkout.
type Customer struct {
	Name    string `json:"name" binding:"required"`
	Email   string `json:"email" binding:"required"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

// Session is one in-progress checkout: a priced cart plus a payment flow.
// Starting a new checkout for the same customer simply creates a new
// session; abandoned ones expire. The cart is guarded by its own mutex
// because a client polls the session while its confirm request finishes
// on another goroutine.
type Session struct {
	ID        string
	Customer  Customer
	OrderType string
	Flow      *Flow
	CreatedAt time.Time

	mu   sync.Mutex
	cart Cart
}

// CartView returns a point-in-time copy of the cart, safe to read while
// another request is clearing it.
func (s *Session) CartView() Cart {
	s.mu.Lock()
	defer s.mu.Unlock()
	items := make([]LineItem, len(s.cart.Items))
	copy(items, s.cart.Items)
	return Cart{Items: items}
}

// Total returns the cart total under the session lock.
func (s *Session) Total() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.Total()
}

// ClearCart empties the cart once its order has been written.
func (s *Session) ClearCart() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cart.Clear()
}

const sessionTTL = 30 * time.Minute

// Store keeps live checkout sessions in memory.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	delay    time.Duration
}

// NewStore creates a session store whose flows use the given simulated
// processing delay.
func NewStore(delay time.Duration) *Store {
	return &Store{
		sessions: make(map[string]*Session),
		delay:    delay,
	}
}

// Start opens a session around an already-priced cart.
func (s *Store) Start(cart Cart, customer Customer, orderType string) *Session {
	sess := &Session{
		ID:        uuid.NewString(),
		cart:      cart,
		Customer:  customer,
		OrderType: orderType,
		Flow:      NewFlow(cart.Total(), s.delay),
		CreatedAt: time.Now(),
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.evictExpired()
	s.sessions[sess.ID] = sess
	return sess
}

// Get looks up a live session by ID.
func (s *Store) Get(id string) (*Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, ok := s.sessions[id]
	if !ok || time.Since(sess.CreatedAt) > sessionTTL {
		return nil, ErrSessionNotFound
	}
	return sess, nil
}

// Finish removes a session once its order has been written.
func (s *Store) Finish(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
}

// evictExpired drops abandoned sessions. Caller holds the write lock.
func (s *Store) evictExpired() {
	for id, sess := range s.sessions {
		if time.Since(sess.CreatedAt) > sessionTTL {
			delete(s.sessions, id)
		}
	}
}
