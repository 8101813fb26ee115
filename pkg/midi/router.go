package midi

import (
	"fmt"
	"math"

	gomidi "gitlab.com/gomidi/midi/v2"
)

// ParamID identifies a synthesis parameter that can be CC-mapped.
type ParamID int

// Route is one CC -> parameter binding.
type Route struct {
	CC         int
	Param      ParamID
	Min, Max   float64
	Logarithmic bool
}

// Router holds the CC routing table and drives the MIDI-learn protocol.
// Per the resolution of the legacy-vs-unified-CC-map open question, only
// this unified map is consulted; there is no separate legacy path.
type Router struct {
	routes map[int]Route

	learnTarget ParamID
	learning    bool
}

// NewRouter returns an empty routing table.
func NewRouter() *Router {
	return &Router{routes: make(map[int]Route)}
}

// Bind registers a CC->parameter route.
func (r *Router) Bind(cc int, param ParamID, min, max float64, logarithmic bool) {
	r.routes[cc] = Route{CC: cc, Param: param, Min: min, Max: max, Logarithmic: logarithmic}
}

// Unbind removes any route for cc.
func (r *Router) Unbind(cc int) { delete(r.routes, cc) }

// BeginLearn enters MIDI-learn mode for the given parameter. The Router
// keeps no timer of its own: the 10-second timeout is armed by the
// caller, as LearnSession.Start does with time.AfterFunc calling
// CancelLearn.
func (r *Router) BeginLearn(param ParamID) {
	r.learning = true
	r.learnTarget = param
}

// CancelLearn clears pending learn state (called on timeout or explicit
// cancel).
func (r *Router) CancelLearn() { r.learning = false }

// Learning reports whether MIDI-learn mode is active.
func (r *Router) Learning() bool { return r.learning }

// Route dispatches a decoded CC message: if learning, binds the CC to
// the pending target parameter and exits learn mode; otherwise, if the
// CC number is registered, maps its 0..127 value into the parameter's
// declared range (linear, or geometric if the parameter is declared
// logarithmic) and returns the resulting value.
func (r *Router) Route(msg Message) (ParamID, float64, bool) {
	if msg.Type != ControlChange {
		return 0, 0, false
	}
	cc := msg.Data1

	if r.learning {
		target := r.learnTarget
		r.Bind(cc, target, 0, 1, false)
		r.learning = false
		return target, 0, false
	}

	route, ok := r.routes[cc]
	if !ok {
		return 0, 0, false
	}
	return route.Param, mapCCValue(msg.Data2, route), true
}

func mapCCValue(raw int, route Route) float64 {
	t := float64(raw) / 127.0
	if !route.Logarithmic {
		return route.Min + t*(route.Max-route.Min)
	}
	if route.Min <= 0 {
		route.Min = 1e-6
	}
	ratio := route.Max / route.Min
	return route.Min * math.Pow(ratio, t)
}

// DescribeCC renders a human-readable name for a CC message using the
// channel-message helpers from gitlab.com/gomidi/midi/v2, for display in
// a MIDI-learn UI prompt. This is a control-thread convenience only; the
// audio-thread hot path never calls it.
func DescribeCC(channel, cc, value int) string {
	msg := gomidi.ControlChange(uint8(channel), uint8(cc), uint8(value))
	return fmt.Sprintf("CC %d = %d (%s)", cc, value, msg.String())
}
