package router

import (
	"errors"
	"fmt"
	"net/http"
)

// Result is the outcome of a loader or action: Redirect, NotFound or Value.
// The set is closed; other packages cannot add variants.
type Result interface {
	isResult()
}

// Redirect instructs the caller to redirect. A zero Status means the default
// for the hook kind: 302 for loaders, 303 for actions.
type Redirect struct {
	To     string
	Status int
}

// NotFound signals that the requested resource does not exist.
type NotFound struct{}

// Value carries ordinary hook data.
type Value struct {
	Data any
}

func (Redirect) isResult() {}
func (NotFound) isResult() {}
func (Value) isResult()    {}

// Error implements error so a Redirect can travel up a call chain as an error.
func (r Redirect) Error() string {
	return fmt.Sprintf("redirect to %s", r.To)
}

// Error implements error.
func (NotFound) Error() string {
	return "not found"
}

// RedirectTo builds a Redirect. The optional status overrides the default.
func RedirectTo(to string, status ...int) Redirect {
	r := Redirect{To: to}
	if len(status) > 0 {
		r.Status = status[0]
	}
	return r
}

// NotFoundResult builds a NotFound result.
func NotFoundResult() NotFound {
	return NotFound{}
}

// Data wraps v as a Value result.
func Data(v any) Value {
	return Value{Data: v}
}

// StatusOr returns the redirect status, or def when it is unset or not one
// of 301, 302, 303, 307 and 308.
func (r Redirect) StatusOr(def int) int {
	switch r.Status {
	case http.StatusMovedPermanently, http.StatusFound, http.StatusSeeOther,
		http.StatusTemporaryRedirect, http.StatusPermanentRedirect:
		return r.Status
	}
	return def
}

// Outcome normalizes a hook's return pair. A Redirect or NotFound carried in
// err (possibly wrapped) is turned back into a Result with a nil error; any
// other error is returned unchanged. A nil Result with a nil error is an
// empty Value.
func Outcome(res Result, err error) (Result, error) {
	if err != nil {
		var redirect Redirect
		if errors.As(err, &redirect) {
			return redirect, nil
		}
		var notFound NotFound
		if errors.As(err, &notFound) {
			return notFound, nil
		}
		return nil, err
	}
	if res == nil {
		return Value{}, nil
	}
	return res, nil
}
