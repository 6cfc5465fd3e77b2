//
//  UI client for privateLINE Connect Desktop
//  https://github.com/swapnilsparsh/devsVPN
//
//  Copyright (c) 2025 privateLINE, LLC.
//
//  This file is part of the privateLINE Connect Desktop.
//
//  The privateLINE Connect Desktop is free software: you can redistribute it and/or
//  modify it under the terms of the GNU General Public License as published by the Free
//  Software Foundation, either version 3 of the License, or (at your option) any later version.
//
//  The privateLINE Connect Desktop is distributed in the hope that it will be useful,
//  but WITHOUT ANY WARRANTY; without even the implied warranty of MERCHANTABILITY
//  or FITNESS FOR A PARTICULAR PURPOSE.  See the GNU General Public License for more
//  details.
//
//  You should have received a copy of the GNU General Public License
//  along with the privateLINE Connect Desktop. If not, see <https://www.gnu.org/licenses/>.
//

package protocol

import (
	"context"
	"sync"
	"time"

	mapset "github.com/deckarep/golang-set/v2"
)

type waitResult struct {
	resp *Response
	err  error
}

// waiter - expectation of a future response.
// It is matched by request index (idx > 0), by command name, or both.
type waiter struct {
	idx      int
	commands mapset.Set[string]
	connID   uint64

	request  string // command name of the request, for errors and metrics
	started  time.Time
	timeout  time.Duration
	timer    *time.Timer
	resultCh chan waitResult // receives exactly one value
}

func newWaiter(request string, idx int, commands []string) *waiter {
	w := &waiter{
		idx:      idx,
		request:  request,
		started:  time.Now(),
		resultCh: make(chan waitResult, 1),
	}
	if len(commands) > 0 {
		w.commands = mapset.NewThreadUnsafeSet[string](commands...)
	}
	return w
}

func (w *waiter) matchesIdx(idx int) bool {
	return w.idx > 0 && w.idx == idx
}

func (w *waiter) matchesCommand(cmd string) bool {
	return w.commands != nil && w.commands.Contains(cmd)
}

// waiterRegistry owns all waiters until they are resolved, rejected or timed out
type waiterRegistry struct {
	mu      sync.Mutex
	waiters []*waiter
	metrics *Metrics
}

func newWaiterRegistry(m *Metrics) *waiterRegistry {
	return &waiterRegistry{metrics: m}
}

// register adds the waiter and arms its deadline timer
func (r *waiterRegistry) register(w *waiter, timeout time.Duration) {
	w.timeout = timeout

	r.mu.Lock()
	defer r.mu.Unlock()

	r.waiters = append(r.waiters, w)
	r.metrics.pendingWaiters.Set(float64(len(r.waiters)))

	w.timer = time.AfterFunc(timeout, func() {
		if r.remove(w) {
			r.metrics.responseTimeouts.WithLabelValues(w.request).Inc()
			w.resultCh <- waitResult{err: &ResponseTimeout{Command: w.request, Idx: w.idx, Timeout: timeout}}
		}
	})
}

// remove returns false when the waiter was already removed
func (r *waiterRegistry) remove(w *waiter) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.removeLocked(w)
}

func (r *waiterRegistry) removeLocked(w *waiter) bool {
	for i, x := range r.waiters {
		if x == w {
			r.waiters = append(r.waiters[:i], r.waiters[i+1:]...)
			r.metrics.pendingWaiters.Set(float64(len(r.waiters)))
			if w.timer != nil {
				w.timer.Stop()
			}
			return true
		}
	}
	return false
}

// dispatch resolves waiters matching the response and returns how many were resolved.
// At most one waiter is matched by index (ErrorResp rejects it). Every other waiter
// expecting resp.Command is resolved too.
func (r *waiterRegistry) dispatch(resp *Response) int {
	var resolved []*waiter
	var rejectedBy string
	var rejected *waiter

	r.mu.Lock()
	idxMatched := false
	kept := r.waiters[:0]
	for _, w := range r.waiters {
		switch {
		case !idxMatched && w.matchesIdx(resp.Idx):
			idxMatched = true
			if msg, isErr := resp.ErrorMessage(); isErr {
				rejected, rejectedBy = w, msg
			} else {
				resolved = append(resolved, w)
			}
		case !w.matchesIdx(resp.Idx) && w.matchesCommand(resp.Command):
			resolved = append(resolved, w)
		default:
			kept = append(kept, w)
		}
	}
	// clear the tail so removed waiters can be collected
	for i := len(kept); i < len(r.waiters); i++ {
		r.waiters[i] = nil
	}
	r.waiters = kept
	r.metrics.pendingWaiters.Set(float64(len(r.waiters)))
	r.mu.Unlock()

	if rejected != nil {
		rejected.timer.Stop()
		r.metrics.daemonErrors.WithLabelValues(rejected.request).Inc()
		rejected.resultCh <- waitResult{err: &DaemonError{Command: rejected.request, Message: rejectedBy}}
	}
	for _, w := range resolved {
		w.timer.Stop()
		r.metrics.roundTripDuration.WithLabelValues(w.request).Observe(time.Since(w.started).Seconds())
		w.resultCh <- waitResult{resp: resp}
	}

	if rejected != nil {
		return len(resolved) + 1
	}
	return len(resolved)
}

// failConnection rejects all waiters registered for the connection
func (r *waiterRegistry) failConnection(connID uint64, err error) int {
	var failed []*waiter

	r.mu.Lock()
	kept := r.waiters[:0]
	for _, w := range r.waiters {
		if w.connID == connID {
			failed = append(failed, w)
		} else {
			kept = append(kept, w)
		}
	}
	for i := len(kept); i < len(r.waiters); i++ {
		r.waiters[i] = nil
	}
	r.waiters = kept
	r.metrics.pendingWaiters.Set(float64(len(r.waiters)))
	r.mu.Unlock()

	for _, w := range failed {
		w.timer.Stop()
		w.resultCh <- waitResult{err: err}
	}
	return len(failed)
}

func (r *waiterRegistry) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.waiters)
}

// wait blocks until the waiter gets its result or the context is done.
// On cancellation the waiter is removed from the registry.
func (r *waiterRegistry) wait(ctx context.Context, w *waiter) (*Response, error) {
	select {
	case res := <-w.resultCh:
		return res.resp, res.err
	case <-ctx.Done():
		if !r.remove(w) {
			// resolved concurrently with cancellation
			res := <-w.resultCh
			return res.resp, res.err
		}
		return nil, ctx.Err()
	}
}
