package rating

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGReference(t *testing.T) {
	require.InDelta(t, 0.96404, G(0.5), 0.001)
}

func TestEReference(t *testing.T) {
	require.InDelta(t, 0.52408, E(0.6, 0.5, 0.5), 0.001)
}

func TestDeltaReference(t *testing.T) {
	subject := toGlicko2(Glicko1{Rating: 1500, RD: 200, Sigma: 0.06}).toGlicko1()
	opponents := canonicalOpponents()

	require.InDelta(t, -0.48393, Delta(subject, opponents), 0.001)
}

func TestUpdateBatchCanonicalExample(t *testing.T) {
	subject := Glicko1{Rating: 1500, RD: 200, Sigma: 0.06}
	opponents := canonicalOpponents()

	got := UpdateBatch(subject, opponents)

	require.InDelta(t, 1436.05, got.Rating, 0.1)
	require.InDelta(t, 151.52, got.RD, 0.1)
	require.InDelta(t, 0.06, got.Sigma, 0.1)
}

func TestUpdateBatchNoOpponentsIsIdentity(t *testing.T) {
	subject := NewGlicko1()
	got := UpdateBatch(subject, nil)
	require.Equal(t, subject, got)
}

func TestUpdateBatchFinite(t *testing.T) {
	subject := NewGlicko1()
	got := UpdateBatch(subject, canonicalOpponents())
	require.False(t, math.IsNaN(got.Rating))
	require.False(t, math.IsInf(got.Rating, 0))
	require.False(t, math.IsNaN(got.RD))
	require.False(t, math.IsNaN(got.Sigma))
}

func canonicalOpponents() []Opponent {
	return []Opponent{
		{Rating: Glicko1{Rating: 1400, RD: 30, Sigma: 0.06}, Score: 1},
		{Rating: Glicko1{Rating: 1550, RD: 100, Sigma: 0.06}, Score: 0},
		{Rating: Glicko1{Rating: 1700, RD: 300, Sigma: 0.06}, Score: 0},
	}
}
