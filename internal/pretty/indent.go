package pretty

import "github.com/rs/zerolog"

// depths are the only left margins the report uses.
var depths = map[int]bool{0: true, 1: true, 2: true, 4: true, 6: true}

// indentation tracks the current left margin and the margin scenario
// titles are printed at. Values only ever come from the fixed depths.
type indentation struct {
	current  int
	scenario int
	log      *zerolog.Logger
}

func (in *indentation) Current() int  { return in.current }
func (in *indentation) Scenario() int { return in.scenario }

func (in *indentation) Set(n int) {
	if !depths[n] {
		in.log.Debug().Int("indent", n).Msg("ignoring indent outside fixed depths")
		return
	}
	in.current = n
}

func (in *indentation) SetScenario(n int) {
	if !depths[n] {
		in.log.Debug().Int("indent", n).Msg("ignoring scenario indent outside fixed depths")
		return
	}
	in.scenario = n
}
