package main

import (
	"sort"
	"time"
)

// Deferrals is a set of named one-shot callbacks fired from the update loop
// once their deadline passes
type Deferrals struct {
	pending map[string]deferred
}

type deferred struct {
	at time.Time
	fn func()
}

// NewDeferrals creates an empty set
func NewDeferrals() *Deferrals {
	return &Deferrals{pending: make(map[string]deferred)}
}

// Schedule runs fn at or after at, replacing any pending callback of the same name
func (d *Deferrals) Schedule(name string, at time.Time, fn func()) {
	d.pending[name] = deferred{at: at, fn: fn}
}

// Cancel drops the callback called name
func (d *Deferrals) Cancel(name string) {
	delete(d.pending, name)
}

// CancelAll drops every pending callback
func (d *Deferrals) CancelAll() {
	clear(d.pending)
}

// Pending reports whether name is scheduled
func (d *Deferrals) Pending(name string) bool {
	_, ok := d.pending[name]
	return ok
}

func (d *Deferrals) Len() int {
	return len(d.pending)
}

// Fire runs every callback due at now, earliest first, and returns how many ran
func (d *Deferrals) Fire(now time.Time) int {
	var due []string
	for name, p := range d.pending {
		if !p.at.After(now) {
			due = append(due, name)
		}
	}
	if len(due) == 0 {
		return 0
	}

	sort.Slice(due, func(i, j int) bool {
		a, b := d.pending[due[i]], d.pending[due[j]]
		if a.at.Equal(b.at) {
			return due[i] < due[j]
		}
		return a.at.Before(b.at)
	})

	fired := 0
	for _, name := range due {
		p, ok := d.pending[name]
		if !ok {
			// cancelled by an earlier callback
			continue
		}
		delete(d.pending, name)
		p.fn()
		fired++
	}
	return fired
}
