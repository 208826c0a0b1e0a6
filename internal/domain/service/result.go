package service

import (
	"context"
	"sync"

	"github.com/damon-houk/fx-rate-client/internal/domain/entity"
)

// Result is the lazy outcome of an in-flight request. It starts pending and
// settles exactly once, either resolved with a response or rejected with an error.
type Result struct {
	done chan struct{}
	once sync.Once
	resp *entity.Response
	err  error
}

// NewResult creates a pending result
func NewResult() *Result {
	return &Result{done: make(chan struct{})}
}

// Resolved creates a result that is already resolved with resp
func Resolved(resp *entity.Response) *Result {
	r := NewResult()
	r.Resolve(resp)
	return r
}

// Rejected creates a result that is already rejected with err
func Rejected(err error) *Result {
	r := NewResult()
	r.Reject(err)
	return r
}

// Resolve settles the result with resp. It reports false if the result was already settled.
func (r *Result) Resolve(resp *entity.Response) bool {
	return r.settle(resp, nil)
}

// Reject settles the result with err. It reports false if the result was already settled.
func (r *Result) Reject(err error) bool {
	return r.settle(nil, err)
}

func (r *Result) settle(resp *entity.Response, err error) bool {
	settled := false
	r.once.Do(func() {
		r.resp = resp
		r.err = err
		settled = true
		close(r.done)
	})
	return settled
}

// Done returns a channel that is closed once the result settles
func (r *Result) Done() <-chan struct{} {
	return r.done
}

// Pending reports whether the result has not settled yet
func (r *Result) Pending() bool {
	select {
	case <-r.done:
		return false
	default:
		return true
	}
}

// Await blocks until the result settles or ctx is done. Giving up on ctx
// leaves the result itself untouched.
func (r *Result) Await(ctx context.Context) (*entity.Response, error) {
	select {
	case <-r.done:
		return r.resp, r.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
