package looper

// DefaultMaxLoops is the fixed number of loop slots.
const DefaultMaxLoops = 4

// DefaultMaxSeconds bounds each loop's pre-allocated buffer length.
const DefaultMaxSeconds = 120

// Manager owns a fixed array of loopers, selects one for control, and
// sums all of their outputs through a soft limiter. Loop buffers are
// allocated once at construction and Loopers hold non-owning slices into
// them, so loop storage is never allocated on the audio thread; the
// per-looper scratch buffers are allocated by the first ProcessBlock call
// and grown by any later call with a larger block.
type Manager struct {
	Loopers []*Looper

	current int

	scratchL, scratchR [][]float64 // per-looper scratch, sized per ProcessBlock call
}

// NewManager allocates n loopers, each with stereo buffers sized for
// maxSeconds at sampleRate.
func NewManager(n int, sampleRate float64, maxSeconds float64) *Manager {
	maxFrames := int(sampleRate * maxSeconds)
	m := &Manager{Loopers: make([]*Looper, n)}
	for i := range m.Loopers {
		l := &Looper{}
		l.Reset(make([]float64, maxFrames), make([]float64, maxFrames))
		m.Loopers[i] = l
	}
	return m
}

// SelectLoop changes which looper receives UI control (Press* calls via
// CurrentLoop).
func (m *Manager) SelectLoop(i int) {
	if i >= 0 && i < len(m.Loopers) {
		m.current = i
	}
}

// CurrentLoop returns the looper currently selected for UI control.
func (m *Manager) CurrentLoop() *Looper { return m.Loopers[m.current] }

// Loop returns the looper at index i.
func (m *Manager) Loop(i int) *Looper { return m.Loopers[i] }

// SetOverdubMix applies to the currently selected loop only.
func (m *Manager) SetOverdubMix(wet float64) { m.CurrentLoop().SetOverdubMix(wet) }

// ProcessBlock runs inL/inR through every looper (each against the same
// dry input, per the spec's "in parallel over temporary scratch
// buffers") and sums their outputs into outL/outR, soft-limited.
func (m *Manager) ProcessBlock(inL, inR, outL, outR []float64) {
	n := len(inL)
	m.ensureScratch(n)

	for i := range outL {
		outL[i], outR[i] = 0, 0
	}

	for li, l := range m.Loopers {
		sl, sr := m.scratchL[li], m.scratchR[li]
		l.ProcessBlock(inL, inR, sl, sr)
		for i := 0; i < n; i++ {
			outL[i] += sl[i]
			outR[i] += sr[i]
		}
	}

	for i := range outL {
		outL[i] = softLimit(outL[i])
		outR[i] = softLimit(outR[i])
	}
}

func (m *Manager) ensureScratch(n int) {
	if len(m.scratchL) != len(m.Loopers) {
		m.scratchL = make([][]float64, len(m.Loopers))
		m.scratchR = make([][]float64, len(m.Loopers))
	}
	for i := range m.scratchL {
		if len(m.scratchL[i]) < n {
			m.scratchL[i] = make([]float64, n)
			m.scratchR[i] = make([]float64, n)
		}
	}
}

// softLimit applies the symmetric knee: above 0.8 (or below -0.8) the
// output compresses to 20% of the excursion past the knee; otherwise
// it's the identity.
func softLimit(x float64) float64 {
	if x > 0.8 {
		return 0.8 + (x-0.8)*0.2
	}
	if x < -0.8 {
		return -0.8 + (x+0.8)*0.2
	}
	return x
}
