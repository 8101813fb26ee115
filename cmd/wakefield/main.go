package main

import (
	"flag"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/oisee/wakefield/pkg/audio"
	"github.com/oisee/wakefield/pkg/synth"
	"github.com/oisee/wakefield/pkg/tui"
)

func main() {
	sampleRate := flag.Float64("samplerate", 48000, "audio sample rate in Hz")
	tempo := flag.Float64("tempo", 120, "starting tempo in BPM")
	silent := flag.Bool("silent", false, "skip opening a real-time audio device")
	flag.Parse()

	s := synth.New(*sampleRate)
	s.Clock.SetTempo(*tempo)

	var rt *audio.RealtimeOutput
	if !*silent {
		var err error
		rt, err = audio.NewRealtimeOutput(s, int(*sampleRate))
		if err != nil {
			fmt.Fprintf(os.Stderr, "audio device unavailable, running silent: %v\n", err)
			rt = nil
		}
	}

	model := tui.NewModel(s, rt)
	p := tea.NewProgram(model)
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
