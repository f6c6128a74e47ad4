// Package authz gates access by email allow-list. The gate owns its list;
// mutations live for the process lifetime only and a restart reverts to the
// configured seed.
package authz

import (
	"sort"
	"strings"
	"sync"
)

type Gate struct {
	mu     sync.RWMutex
	emails map[string]struct{}
}

// NewGate seeds the gate with the configured allow-list. Emails are
// normalised to lower case once, on the way in.
func NewGate(seed []string) *Gate {
	g := &Gate{emails: make(map[string]struct{}, len(seed))}
	for _, e := range seed {
		e = strings.ToLower(strings.TrimSpace(e))
		if e != "" {
			g.emails[e] = struct{}{}
		}
	}

	return g
}

// Authorized reports whether the email is on the allow-list,
// case-insensitively.
func (g *Gate) Authorized(email string) bool {
	g.mu.RLock()
	defer g.mu.RUnlock()

	_, ok := g.emails[strings.ToLower(strings.TrimSpace(email))]

	return ok
}

// Add puts an email on the allow-list. Adding an existing email is a no-op.
func (g *Gate) Add(email string) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	g.emails[email] = struct{}{}
}

// Remove drops an email from the allow-list if present.
func (g *Gate) Remove(email string) {
	g.mu.Lock()
	defer g.mu.Unlock()

	delete(g.emails, strings.ToLower(strings.TrimSpace(email)))
}

// List returns the allow-list in stable order.
func (g *Gate) List() []string {
	g.mu.RLock()
	defer g.mu.RUnlock()

	out := make([]string, 0, len(g.emails))
	for e := range g.emails {
		out = append(out, e)
	}

	sort.Strings(out)

	return out
}
