package auth

import (
	"context"
	"errors"
	"io"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/redmonkez12/projectshelf-api/internal/logging"
	"github.com/redmonkez12/projectshelf-api/internal/user"
)

type memStore struct {
	mu    sync.Mutex
	users map[uuid.UUID]user.User
	err   error
}

func newMemStore() *memStore {
	return &memStore{users: make(map[uuid.UUID]user.User)}
}

func (s *memStore) Create(ctx context.Context, u *user.User) (*user.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.err != nil {
		return nil, s.err
	}
	for _, existing := range s.users {
		if existing.Email == u.Email {
			return nil, user.ErrDuplicateEmail
		}
	}

	created := *u
	created.ID = uuid.New()
	s.users[created.ID] = created
	return &created, nil
}

func (s *memStore) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.err != nil {
		return nil, s.err
	}
	for _, u := range s.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, user.ErrNotFound
}

func (s *memStore) GetByID(ctx context.Context, id uuid.UUID) (*user.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.err != nil {
		return nil, s.err
	}
	u, ok := s.users[id]
	if !ok {
		return nil, user.ErrNotFound
	}
	return &u, nil
}

func (s *memStore) Update(ctx context.Context, id uuid.UUID, changes user.Changes) (*user.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.err != nil {
		return nil, s.err
	}
	u, ok := s.users[id]
	if !ok {
		return nil, user.ErrNotFound
	}
	changes.Apply(&u)
	s.users[id] = u
	return &u, nil
}

// get returns the stored record bypassing the error switch
func (s *memStore) get(id uuid.UUID) user.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.users[id]
}

type sentEmail struct {
	kind string
	to   string
	arg  string
}

type fakeNotifier struct {
	mu   sync.Mutex
	sent []sentEmail
	err  error
}

func (n *fakeNotifier) record(kind, to, arg string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, sentEmail{kind: kind, to: to, arg: arg})
	return n.err
}

func (n *fakeNotifier) SendWelcomeEmail(ctx context.Context, toEmail, name string) error {
	return n.record("welcome", toEmail, name)
}

func (n *fakeNotifier) SendVerificationOTP(ctx context.Context, toEmail, code string) error {
	return n.record("verify", toEmail, code)
}

func (n *fakeNotifier) SendPasswordResetOTP(ctx context.Context, toEmail, code string) error {
	return n.record("reset", toEmail, code)
}

// last returns the most recent email of kind
func (n *fakeNotifier) last(kind string) (sentEmail, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	for i := len(n.sent) - 1; i >= 0; i-- {
		if n.sent[i].kind == kind {
			return n.sent[i], true
		}
	}
	return sentEmail{}, false
}

type fakeImages struct {
	uploads []string
	err     error
}

func (f *fakeImages) UploadProfileImage(ctx context.Context, userID uuid.UUID, filename, contentType string, body io.ReadSeeker) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return "", err
	}
	f.uploads = append(f.uploads, string(data))
	return "https://cdn.example.com/users/" + userID.String() + "/" + filename, nil
}

// clock is a settable time source shared by the service and token issuer
type clock struct {
	mu sync.Mutex
	t  time.Time
}

func newClock() *clock {
	return &clock{t: time.Date(2026, 10, 14, 12, 0, 0, 0, time.UTC)}
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

type testEnv struct {
	service  *Service
	store    *memStore
	notifier *fakeNotifier
	images   *fakeImages
	tokens   *JWTService
	clock    *clock
}

var errBoom = errors.New("boom")

func newTestEnv() *testEnv {
	clk := newClock()
	store := newMemStore()
	notifier := &fakeNotifier{}
	images := &fakeImages{}

	tokens, _ := NewJWTService([]byte("test-secret"))
	tokens.now = clk.Now

	svc := NewService(store, NewBcryptHasher(bcrypt.MinCost), tokens, notifier, images, logging.Discard(), 24*time.Hour)
	svc.now = clk.Now

	return &testEnv{
		service:  svc,
		store:    store,
		notifier: notifier,
		images:   images,
		tokens:   tokens,
		clock:    clk,
	}
}

// register creates alice and waits for the welcome email
func (e *testEnv) register() *user.User {
	u, _, err := e.service.Register(context.Background(), "Alice Smith", "alice@example.com", "password123")
	if err != nil {
		panic(err)
	}
	e.service.Wait()
	return u
}
