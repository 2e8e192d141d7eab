package rating

import "math"

// Glicko-2 constants, per the paper and the source system's choices.
const (
	g2Tau     = 0.5
	g2Factor  = 173.7178
	g2Epsilon = 1e-6
)

// Glicko1 is the public-facing ("1500-scale") rating triple used for
// storage and display.
type Glicko1 struct {
	Rating float64 `json:"rating"` // R, default 1500
	RD     float64 `json:"rd"`     // rating deviation, default 350 (site-chosen)
	Sigma  float64 `json:"sigma"`  // volatility, default 0.06
}

// NewGlicko1 returns a fresh item at the standard Glicko-1 defaults.
func NewGlicko1() Glicko1 {
	return Glicko1{Rating: 1500, RD: 350, Sigma: 0.06}
}

// glicko2 is the internal mu/phi/sigma scale the algorithm operates on.
type glicko2 struct {
	mu, phi, sigma float64
}

func toGlicko2(g1 Glicko1) glicko2 {
	return glicko2{
		mu:    (g1.Rating - 1500.0) / g2Factor,
		phi:   g1.RD / g2Factor,
		sigma: g1.Sigma,
	}
}

func (g glicko2) toGlicko1() Glicko1 {
	return Glicko1{
		Rating: g.mu*g2Factor + 1500.0,
		RD:     g.phi * g2Factor,
		Sigma:  g.sigma,
	}
}

func g2g(phi float64) float64 {
	return 1.0 / math.Sqrt(1.0+3.0*phi*phi/(math.Pi*math.Pi))
}

func g2E(mu, muj, phij float64) float64 {
	return 1.0 / (1.0 + math.Exp(-g2g(phij)*(mu-muj)))
}

// G evaluates the Glicko-2 g(phi) function; exported for the §8 reference
// law (g(0.5) ≈ 0.96404).
func G(phi float64) float64 { return g2g(phi) }

// E evaluates the Glicko-2 expectation function; exported for the §8
// reference law (E(0.6, 0.5, 0.5) ≈ 0.52408).
func E(mu, muj, phij float64) float64 { return g2E(mu, muj, phij) }

// Opponent is one opponent's rating at the start of the period, paired
// with the subject's score against them: 1 = win, 0 = loss, 0.5 = tie.
type Opponent struct {
	Rating Glicko1
	Score  float64
}

// sums returns (sum g(phi_j)^2 E(1-E), sum g(phi_j)(s_j - E)) for subject
// vs its opponents, the two reductions every other Glicko-2 quantity is
// built from.
func sums(cur glicko2, opponents []Opponent) (sumG2E, sumGSE float64) {
	for _, o := range opponents {
		opp := toGlicko2(o.Rating)
		gj := g2g(opp.phi)
		Ej := g2E(cur.mu, opp.mu, opp.phi)
		sumG2E += gj * gj * Ej * (1.0 - Ej)
		sumGSE += gj * (o.Score - Ej)
	}
	return sumG2E, sumGSE
}

// Delta evaluates the Glicko-2 Δ term for subject vs opponents; exported
// for the §8 reference law.
func Delta(subject Glicko1, opponents []Opponent) float64 {
	cur := toGlicko2(subject)
	sumG2E, sumGSE := sums(cur, opponents)
	v := 1.0 / sumG2E
	return v * sumGSE
}

// UpdateBatch applies one Glicko-2 rating period for subject against the
// given opponents (their ratings as of the start of the period) and
// returns the subject's new Glicko-1 triple. Pure and side-effect-free.
func UpdateBatch(subject Glicko1, opponents []Opponent) Glicko1 {
	if len(opponents) == 0 {
		return subject
	}

	cur := toGlicko2(subject)
	sumG2E, sumGSE := sums(cur, opponents)
	v := 1.0 / sumG2E
	delta := v * sumGSE

	sigmaPrime := solveVolatility(cur.phi, cur.sigma, delta, v)

	phiStar := math.Sqrt(cur.phi*cur.phi + sigmaPrime*sigmaPrime)
	phiPrime := 1.0 / math.Sqrt(1.0/(phiStar*phiStar)+1.0/v)
	muPrime := cur.mu + phiPrime*phiPrime*sumGSE

	return glicko2{mu: muPrime, phi: phiPrime, sigma: sigmaPrime}.toGlicko1()
}

// solveVolatility finds sigma' by Illinois (regula falsi) on f, per the
// Glicko-2 paper's convergence procedure.
func solveVolatility(phi, sigma, delta, v float64) float64 {
	a := math.Log(sigma * sigma)
	f := func(x float64) float64 {
		ex := math.Exp(x)
		num := ex * (delta*delta - phi*phi - v - ex)
		den := 2.0 * (phi*phi + v + ex) * (phi*phi + v + ex)
		return num/den - (x-a)/(g2Tau*g2Tau)
	}

	A := a
	var B float64
	if delta*delta > phi*phi+v {
		B = math.Log(delta*delta - phi*phi - v)
	} else {
		k := 1.0
		for f(a-k*g2Tau) < 0 {
			k++
		}
		B = a - k*g2Tau
	}

	fA := f(A)
	fB := f(B)
	for math.Abs(B-A) > g2Epsilon {
		C := A + (A-B)*fA/(fB-fA)
		fC := f(C)
		if fC*fB <= 0 {
			A = B
			fA = fB
		} else {
			fA /= 2.0
		}
		B = C
		fB = fC
	}

	return math.Exp(A / 2.0)
}
