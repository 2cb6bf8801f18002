package session

import (
	"context"
	"log/slog"
	"sync/atomic"

	"github.com/MasudBS-1458/tr-cafe/pkg/api"
	"github.com/MasudBS-1458/tr-cafe/pkg/state"
)

// AuthStatus is the authentication state of the session.
type AuthStatus int

const (
	// Pending means no successful login has resolved yet. The session
	// starts here and logout returns here from any state.
	Pending AuthStatus = iota

	// Authenticated means a login resolved successfully and a token is
	// held.
	Authenticated
)

// String returns a human-readable name for the auth status.
func (s AuthStatus) String() string {
	if s == Authenticated {
		return "authenticated"
	}
	return "pending"
}

// Authenticator is the remote auth dependency. *api.Client satisfies it.
type Authenticator interface {
	Login(ctx context.Context, creds api.Credentials) (api.AuthResponse, error)
	Register(ctx context.Context, creds api.Credentials) (api.User, error)
}

// Snapshot is a point-in-time copy of the session.
type Snapshot struct {
	Auth   AuthStatus
	User   *api.User
	Token  string
	Status state.Status
	ErrMsg string
}

// Store owns the session state. It is mutated only by the login, logout,
// and registration flows.
type Store struct {
	loop *state.Loop
	auth Authenticator

	logger *slog.Logger

	// seq identifies the most recent login/register attempt.
	seq atomic.Uint64

	session *state.Signal[Snapshot]
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the store's structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		s.logger = logger
	}
}

// NewStore creates a session store in the pending state.
func NewStore(loop *state.Loop, auth Authenticator, opts ...Option) *Store {
	s := &Store{
		loop:    loop,
		auth:    auth,
		logger:  slog.Default(),
		session: state.NewSignal(Snapshot{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Login exchanges credentials for a token. On success the session becomes
// authenticated; on failure the auth status stays pending and the server's
// message is retained until a new attempt or ClearError.
func (s *Store) Login(creds api.Credentials) {
	seq := s.seq.Add(1)
	s.loop.Dispatch(func() {
		s.session.Update(func(snap Snapshot) Snapshot {
			snap.Status = state.Loading
			snap.ErrMsg = ""
			return snap
		})
	})

	go func() {
		resp, err := s.auth.Login(context.Background(), creds)

		s.loop.Dispatch(func() {
			if s.seq.Load() != seq {
				s.logger.Debug("dropping stale login resolution", "seq", seq)
				return
			}
			s.session.Update(func(snap Snapshot) Snapshot {
				if err != nil {
					snap.Status = state.Failed
					snap.ErrMsg = errorMessage(err)
					return snap
				}
				user := resp.User
				snap.Auth = Authenticated
				snap.User = &user
				snap.Token = resp.Token
				snap.Status = state.Succeeded
				snap.ErrMsg = ""
				return snap
			})
		})
	}()
}

// Register creates an account. Registration does not authenticate; a
// successful registration must be followed by a separate Login.
func (s *Store) Register(creds api.Credentials) {
	seq := s.seq.Add(1)
	s.loop.Dispatch(func() {
		s.session.Update(func(snap Snapshot) Snapshot {
			snap.Status = state.Loading
			snap.ErrMsg = ""
			return snap
		})
	})

	go func() {
		user, err := s.auth.Register(context.Background(), creds)

		s.loop.Dispatch(func() {
			if s.seq.Load() != seq {
				s.logger.Debug("dropping stale register resolution", "seq", seq)
				return
			}
			s.session.Update(func(snap Snapshot) Snapshot {
				if err != nil {
					snap.Status = state.Failed
					snap.ErrMsg = errorMessage(err)
					return snap
				}
				u := user
				snap.User = &u
				snap.Status = state.Succeeded
				snap.ErrMsg = ""
				return snap
			})
		})
	}()
}

// Logout resets the session to pending and discards the token and user.
// The reset is unconditional and takes local effect without a server call;
// server-side token invalidation is an external concern. A logout also
// supersedes any in-flight login or registration.
func (s *Store) Logout() {
	s.seq.Add(1)
	s.loop.Dispatch(func() {
		s.session.Set(Snapshot{})
	})
}

// ClearError empties the retained error message.
func (s *Store) ClearError() {
	s.loop.Dispatch(func() {
		s.session.Update(func(snap Snapshot) Snapshot {
			snap.ErrMsg = ""
			return snap
		})
	})
}

// Snapshot returns a point-in-time copy of the session.
func (s *Store) Snapshot() Snapshot {
	snap := s.session.Peek()
	if snap.User != nil {
		user := *snap.User
		snap.User = &user
	}
	return snap
}

// Token returns the current session token, empty when unauthenticated.
func (s *Store) Token() string {
	return s.session.Peek().Token
}

// Subscribe registers fn to observe every session change and returns an
// unsubscribe function.
func (s *Store) Subscribe(fn func(Snapshot)) func() {
	return s.session.Subscribe(fn)
}

// Wait blocks until all previously issued mutations have been applied.
func (s *Store) Wait() {
	s.loop.DispatchWait(func() {})
}

func errorMessage(err error) string {
	if re, ok := err.(*api.RemoteError); ok {
		return re.Message
	}
	return err.Error()
}
