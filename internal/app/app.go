package app

import (
	"sync"

	"gotr/internal/session"
)

// App is the long-lived process-level object a command builds once: it
// owns the Wire (stores, relay, logging) and lazily opens one
// session.Facade per peer, since spec.md explicitly excludes persisting
// session state across restarts.
type App struct {
	Wire    *Wire
	Account string

	mu      sync.Mutex
	facades map[string]*session.Facade
}

// New builds an App for account from cfg.
func New(account string, cfg Config) (*App, error) {
	w, err := NewWire(cfg)
	if err != nil {
		return nil, err
	}
	return &App{
		Wire:    w,
		Account: account,
		facades: make(map[string]*session.Facade),
	}, nil
}

// Facade returns the session.Facade for peer, opening one on first use.
func (a *App) Facade(peer string) (*session.Facade, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if f, ok := a.facades[peer]; ok {
		return f, nil
	}
	f, err := a.Wire.NewFacade(a.Account, peer)
	if err != nil {
		return nil, err
	}
	a.facades[peer] = f
	return f, nil
}
