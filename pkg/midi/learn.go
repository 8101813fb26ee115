package midi

import "time"

// LearnTimeout is the fixed 10-second window the MIDI-learn protocol
// allows before clearing pending state.
const LearnTimeout = 10 * time.Second

// LearnSession ties BeginLearn to a timer that calls CancelLearn if no
// CC arrives in time; this lives on the control thread, never the audio
// thread.
type LearnSession struct {
	router *Router
	timer  *time.Timer
}

// NewLearnSession wraps a Router with timeout-managed learn calls.
func NewLearnSession(r *Router) *LearnSession {
	return &LearnSession{router: r}
}

// Start begins learn mode for param and arms the 10s timeout.
func (s *LearnSession) Start(param ParamID) {
	s.router.BeginLearn(param)
	if s.timer != nil {
		s.timer.Stop()
	}
	s.timer = time.AfterFunc(LearnTimeout, func() {
		s.router.CancelLearn()
	})
}

// NotifyRouted stops the pending timeout once a CC has been routed (the
// Router itself already exited learn mode when Route() consumed the CC).
func (s *LearnSession) NotifyRouted() {
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}
