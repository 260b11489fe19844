package server

import "time"

// Label classifies how a request ended.
type Label string

const (
	LabelRender           Label = "render"
	LabelNotFound         Label = "not_found"
	LabelError            Label = "error"
	LabelRedirect         Label = "redirect"
	LabelNormalize        Label = "normalize"
	LabelActionOK         Label = "action_ok"
	LabelActionFailed     Label = "action_failed"
	LabelActionRedirect   Label = "action_redirect"
	LabelCSRFFailed       Label = "csrf_failed"
	LabelMethodNotAllowed Label = "method_not_allowed"
)

// HookKind names the hook an event is about.
type HookKind string

const (
	HookLoader HookKind = "loader"
	HookAction HookKind = "action"
	HookRender HookKind = "render"
)

// Hook outcomes reported in HookEvent.Outcome.
const (
	OutcomeOK       = "ok"
	OutcomeRedirect = "redirect"
	OutcomeNotFound = "not_found"
	OutcomeError    = "error"
	OutcomePanic    = "panic"
)

// RequestEvent describes one finished request.
type RequestEvent struct {
	Method string
	Path   string
	// Route is the pattern of the rendered or acted-on route, "" if none.
	Route    string
	Label    Label
	Status   int
	Duration time.Duration
}

// HookEvent describes one loader, action or render invocation.
type HookEvent struct {
	Kind     HookKind
	Route    string
	Outcome  string
	Duration time.Duration
}

// Observer receives request and hook events. Implementations must be safe
// for concurrent use.
type Observer interface {
	ObserveRequest(RequestEvent)
	ObserveHook(HookEvent)
}

// Observers fans events out to several observers.
type Observers []Observer

// ObserveRequest implements Observer.
func (o Observers) ObserveRequest(ev RequestEvent) {
	for _, obs := range o {
		if obs != nil {
			obs.ObserveRequest(ev)
		}
	}
}

// ObserveHook implements Observer.
func (o Observers) ObserveHook(ev HookEvent) {
	for _, obs := range o {
		if obs != nil {
			obs.ObserveHook(ev)
		}
	}
}

type nopObserver struct{}

func (nopObserver) ObserveRequest(RequestEvent) {}
func (nopObserver) ObserveHook(HookEvent)       {}
