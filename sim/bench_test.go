package sim_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/railgrid/sim"
)

// BenchmarkRun_Corridor measures the cheapest possible run: one train,
// five cells, no mechanics.
func BenchmarkRun_Corridor(b *testing.B) {
	lvl := corridor()
	s, err := sim.New(lvl)
	require.NoError(b, err)
	ly := complete(b, lvl, corridorTracks())
	opts := sim.Options{} // no frame recording on the hot path

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := s.Run(ly, opts); err != nil {
			b.Fatalf("run failed: %v", err)
		}
	}
}

// BenchmarkRun_Mechanics measures a run exercising a dynamic switch, a
// semaphore, a decoy loop and a waiting train.
func BenchmarkRun_Mechanics(b *testing.B) {
	lvl := semaphoreLevel()
	s, err := sim.New(lvl)
	require.NoError(b, err)
	ly := complete(b, lvl, nil)
	opts := sim.Options{}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := s.Run(ly, opts); err != nil {
			b.Fatalf("run failed: %v", err)
		}
	}
}
