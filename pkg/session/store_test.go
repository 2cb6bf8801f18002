package session

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/MasudBS-1458/tr-cafe/pkg/api"
	"github.com/MasudBS-1458/tr-cafe/pkg/state"
)

// fakeAuth scripts login and register responses.
type fakeAuth struct {
	mu          sync.Mutex
	loginResp   api.AuthResponse
	loginErr    error
	registered  []api.Credentials
	registerErr error
}

func (f *fakeAuth) Login(ctx context.Context, creds api.Credentials) (api.AuthResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.loginResp, f.loginErr
}

func (f *fakeAuth) Register(ctx context.Context, creds api.Credentials) (api.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.registered = append(f.registered, creds)
	return api.User{ID: "u-new", Email: creds.Email}, f.registerErr
}

func newStore(t *testing.T, auth *fakeAuth) *Store {
	t.Helper()
	loop := state.NewLoop()
	t.Cleanup(loop.Close)
	return NewStore(loop, auth)
}

func waitStatus(t *testing.T, s *Store, want state.Status) {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if s.Snapshot().Status == want {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatalf("timeout: Status = %v, want %v", s.Snapshot().Status, want)
}

func TestInitialStateIsPending(t *testing.T) {
	s := newStore(t, &fakeAuth{})

	snap := s.Snapshot()
	if snap.Auth != Pending {
		t.Errorf("Auth = %v, want Pending", snap.Auth)
	}
	if snap.Status != state.Idle {
		t.Errorf("Status = %v, want Idle", snap.Status)
	}
	if snap.Token != "" || snap.User != nil {
		t.Errorf("fresh session holds token/user: %+v", snap)
	}
}

func TestLoginSuccess(t *testing.T) {
	auth := &fakeAuth{loginResp: api.AuthResponse{
		User:  api.User{ID: "u1", Email: "a@b.c"},
		Token: "tok-1",
	}}
	s := newStore(t, auth)

	s.Login(api.Credentials{Email: "a@b.c", Password: "pw"})
	waitStatus(t, s, state.Succeeded)

	snap := s.Snapshot()
	if snap.Auth != Authenticated {
		t.Errorf("Auth = %v, want Authenticated", snap.Auth)
	}
	if snap.Token != "tok-1" {
		t.Errorf("Token = %q, want tok-1", snap.Token)
	}
	if snap.User == nil || snap.User.ID != "u1" {
		t.Errorf("User = %+v, want u1", snap.User)
	}
}

func TestLoginFailureStaysPending(t *testing.T) {
	auth := &fakeAuth{loginErr: &api.RemoteError{Status: 401, Message: "wrong password"}}
	s := newStore(t, auth)

	s.Login(api.Credentials{Email: "a@b.c", Password: "nope"})
	waitStatus(t, s, state.Failed)

	snap := s.Snapshot()
	if snap.Auth != Pending {
		t.Errorf("Auth = %v, want Pending after failed login", snap.Auth)
	}
	if snap.ErrMsg != "wrong password" {
		t.Errorf("ErrMsg = %q, want server message", snap.ErrMsg)
	}
	if snap.Token != "" {
		t.Errorf("Token = %q, want empty", snap.Token)
	}
}

func TestLogoutResetsFromAnyState(t *testing.T) {
	auth := &fakeAuth{loginResp: api.AuthResponse{User: api.User{ID: "u1"}, Token: "tok"}}
	s := newStore(t, auth)

	s.Login(api.Credentials{Email: "a@b.c", Password: "pw"})
	waitStatus(t, s, state.Succeeded)

	s.Logout()
	s.Wait()

	snap := s.Snapshot()
	if snap != (Snapshot{}) {
		t.Errorf("Snapshot after Logout = %+v, want zero value", snap)
	}
}

func TestLogoutAfterFailedLogin(t *testing.T) {
	auth := &fakeAuth{loginErr: &api.RemoteError{Status: 500, Message: "boom"}}
	s := newStore(t, auth)

	s.Login(api.Credentials{Email: "a@b.c", Password: "pw"})
	waitStatus(t, s, state.Failed)

	s.Logout()
	s.Wait()

	if snap := s.Snapshot(); snap != (Snapshot{}) {
		t.Errorf("Snapshot after Logout = %+v, want zero value", snap)
	}
}

func TestLogoutSupersedesInFlightLogin(t *testing.T) {
	// A login resolving after logout must not resurrect the session.
	release := make(chan struct{})
	auth := &blockedAuth{release: release}
	loop := state.NewLoop()
	t.Cleanup(loop.Close)
	s := NewStore(loop, auth)

	s.Login(api.Credentials{Email: "a@b.c", Password: "pw"})
	s.Logout()
	s.Wait()
	close(release)

	time.Sleep(20 * time.Millisecond)
	s.Wait()

	snap := s.Snapshot()
	if snap.Auth != Pending || snap.Token != "" {
		t.Errorf("stale login resolution applied after logout: %+v", snap)
	}
}

// blockedAuth holds the login until released.
type blockedAuth struct {
	release chan struct{}
}

func (b *blockedAuth) Login(ctx context.Context, creds api.Credentials) (api.AuthResponse, error) {
	<-b.release
	return api.AuthResponse{User: api.User{ID: "ghost"}, Token: "stale-tok"}, nil
}

func (b *blockedAuth) Register(ctx context.Context, creds api.Credentials) (api.User, error) {
	return api.User{}, nil
}

func TestRegisterDoesNotAuthenticate(t *testing.T) {
	auth := &fakeAuth{}
	s := newStore(t, auth)

	s.Register(api.Credentials{Email: "new@b.c", Password: "pw"})
	waitStatus(t, s, state.Succeeded)

	snap := s.Snapshot()
	if snap.Auth != Pending {
		t.Errorf("Auth = %v, want Pending (register must not authenticate)", snap.Auth)
	}
	if snap.Token != "" {
		t.Errorf("Token = %q, want empty", snap.Token)
	}
	if snap.User == nil || snap.User.Email != "new@b.c" {
		t.Errorf("User = %+v, want registered profile", snap.User)
	}
}

func TestNewAttemptClearsRetainedError(t *testing.T) {
	auth := &fakeAuth{loginErr: &api.RemoteError{Status: 401, Message: "wrong password"}}
	s := newStore(t, auth)

	s.Login(api.Credentials{Email: "a@b.c", Password: "nope"})
	waitStatus(t, s, state.Failed)

	auth.mu.Lock()
	auth.loginErr = nil
	auth.loginResp = api.AuthResponse{User: api.User{ID: "u1"}, Token: "tok"}
	auth.mu.Unlock()

	s.Login(api.Credentials{Email: "a@b.c", Password: "right"})
	waitStatus(t, s, state.Succeeded)

	if msg := s.Snapshot().ErrMsg; msg != "" {
		t.Errorf("ErrMsg = %q, want cleared by new attempt", msg)
	}
}

func TestClearError(t *testing.T) {
	auth := &fakeAuth{loginErr: &api.RemoteError{Status: 401, Message: "wrong password"}}
	s := newStore(t, auth)

	s.Login(api.Credentials{Email: "a@b.c", Password: "nope"})
	waitStatus(t, s, state.Failed)

	s.ClearError()
	s.Wait()

	snap := s.Snapshot()
	if snap.ErrMsg != "" {
		t.Errorf("ErrMsg = %q, want empty", snap.ErrMsg)
	}
	if snap.Status != state.Failed {
		t.Errorf("Status = %v, want Failed retained", snap.Status)
	}
}
