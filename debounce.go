package mandelview

import "time"

// DebounceOptions configures a Debouncer.
type DebounceOptions struct {
	// Wait is the quiet period that closes a burst. Zero disables debouncing.
	Wait time.Duration
	// Leading delivers the first call of a burst immediately.
	Leading bool
	// Trailing delivers the last call of a burst once Wait has elapsed.
	Trailing bool
}

// DefaultDebounce matches a 100ms trailing-edge debounce.
var DefaultDebounce = DebounceOptions{Wait: 100 * time.Millisecond, Trailing: true}

// Debouncer rate-limits calls to fn. It owns no goroutine or timer: the
// caller passes its clock to Call and polls for trailing deliveries, so fn
// always runs on the caller's goroutine (the frame loop).
type Debouncer[T any] struct {
	opts  DebounceOptions
	fn    func(T)
	merge func(prev, next T) T

	active   bool
	pending  bool
	last     T
	deadline time.Time
}

// NewDebouncer wraps fn.
func NewDebouncer[T any](fn func(T), opts DebounceOptions) *Debouncer[T] {
	return &Debouncer[T]{opts: opts, fn: fn}
}

// WithMerge sets a function that folds calls of one burst together instead
// of keeping only the latest, e.g. summing wheel deltas.
func (d *Debouncer[T]) WithMerge(merge func(prev, next T) T) *Debouncer[T] {
	d.merge = merge
	return d
}

// Call records v at time now, delivering it at once on a leading edge.
func (d *Debouncer[T]) Call(now time.Time, v T) {
	if d.opts.Wait <= 0 {
		d.fn(v)
		return
	}
	if !d.active {
		d.active = true
		d.deadline = now.Add(d.opts.Wait)
		if d.opts.Leading {
			d.fn(v)
			return
		}
		d.last = v
		d.pending = true
		return
	}

	d.deadline = now.Add(d.opts.Wait)
	if d.pending && d.merge != nil {
		d.last = d.merge(d.last, v)
	} else {
		d.last = v
	}
	d.pending = true
}

// Poll closes the burst once its quiet period has passed, delivering the
// trailing call if enabled.
func (d *Debouncer[T]) Poll(now time.Time) {
	if !d.active || now.Before(d.deadline) {
		return
	}
	d.Flush()
}

// Flush closes the current burst immediately.
func (d *Debouncer[T]) Flush() {
	if !d.active {
		return
	}
	d.active = false
	if !d.pending {
		return
	}
	v := d.last
	var zero T
	d.last = zero
	d.pending = false
	if d.opts.Trailing {
		d.fn(v)
	}
}

// Pending reports whether a call is waiting for the trailing edge.
func (d *Debouncer[T]) Pending() bool {
	return d.pending
}

// Cancel drops the current burst without delivering it.
func (d *Debouncer[T]) Cancel() {
	var zero T
	d.active = false
	d.pending = false
	d.last = zero
}
