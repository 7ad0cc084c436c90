package backend

import (
	"errors"
	"strings"
	"testing"
)

type nopTarget struct{ DrawTarget }

func TestRegistryRoundTrip(t *testing.T) {
	const name = "test-nop"
	Register(name, func(w, h int) (DrawTarget, error) { return nopTarget{}, nil })
	defer Unregister(name)

	if !IsRegistered(name) {
		t.Fatal("registered backend not found")
	}
	if _, err := New(name, 1, 1); err != nil {
		t.Fatalf("New(%q) = %v", name, err)
	}

	found := false
	for _, n := range Backends() {
		if n == name {
			found = true
		}
	}
	if !found {
		t.Error("Backends() missing registered name")
	}
}

func TestNewUnknownBackend(t *testing.T) {
	_, err := New("no-such-backend", 1, 1)
	if err == nil {
		t.Fatal("expected an error for an unknown backend")
	}
	if !strings.Contains(err.Error(), "no-such-backend") {
		t.Errorf("error %q does not name the backend", err)
	}
}

func TestRegisterDuplicatePanics(t *testing.T) {
	const name = "test-dup"
	Register(name, func(w, h int) (DrawTarget, error) { return nopTarget{}, nil })
	defer Unregister(name)

	defer func() {
		if recover() == nil {
			t.Error("duplicate Register did not panic")
		}
	}()
	Register(name, func(w, h int) (DrawTarget, error) { return nopTarget{}, nil })
}

func TestNewWrapsFactoryError(t *testing.T) {
	const name = "test-fail"
	errBroken := errors.New("device lost")
	Register(name, func(w, h int) (DrawTarget, error) { return nil, errBroken })
	defer Unregister(name)

	_, err := New(name, 1, 1)
	if !errors.Is(err, errBroken) {
		t.Fatalf("New error = %v, want wrapped %v", err, errBroken)
	}
	if !strings.Contains(err.Error(), name) {
		t.Errorf("error %q does not name the backend", err)
	}
}

func TestSurfaceTransferGuard(t *testing.T) {
	s := NewNativeSurface(4, 4)
	if s.Transferred() {
		t.Fatal("fresh surface already transferred")
	}
	if !s.MarkWontLeak() {
		t.Fatal("first transfer rejected")
	}
	if s.MarkWontLeak() {
		t.Error("second transfer accepted; double-free guard broken")
	}

	age := s.Age
	s.Recycle()
	if s.Transferred() {
		t.Error("recycled surface still marked transferred")
	}
	if s.Age != age+1 {
		t.Errorf("recycle age = %d, want %d", s.Age, age+1)
	}
}
