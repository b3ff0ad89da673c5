package effort

import (
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/track-synthesizer/internal/synth/rng"
)

// CoverageKind вид политики покрытия
type CoverageKind int

const (
	CoverageFull CoverageKind = iota
	CoverageSparse
	CoverageZipf
)

var coverageKindNames = map[CoverageKind]string{
	CoverageFull:   "full",
	CoverageSparse: "sparse",
	CoverageZipf:   "zipf",
}

func (k CoverageKind) String() string {
	if name, ok := coverageKindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("CoverageKind(%d)", int(k))
}

// CoveragePolicy решает, какие пары (сегмент, пользователь) получают прохождение.
// Fraction используется для Sparse, Alpha для Zipf.
type CoveragePolicy struct {
	Kind     CoverageKind `json:"kind"`
	Fraction float64      `json:"fraction,omitempty"`
	Alpha    float64      `json:"alpha,omitempty"`
}

// Full - каждый пользователь на каждом сегменте
func Full() CoveragePolicy {
	return CoveragePolicy{Kind: CoverageFull}
}

// Sparse - каждая пара с вероятностью fraction
func Sparse(fraction float64) CoveragePolicy {
	return CoveragePolicy{Kind: CoverageSparse, Fraction: fraction}
}

// Zipf - ранние сегменты популярнее, вес 1/(i+1)^alpha
func Zipf(alpha float64) CoveragePolicy {
	return CoveragePolicy{Kind: CoverageZipf, Alpha: alpha}
}

// ParseCoverage собирает политику по имени и параметрам
func ParseCoverage(name string, fraction, alpha float64) (CoveragePolicy, error) {
	var p CoveragePolicy
	switch name {
	case "", CoverageFull.String():
		p = Full()
	case CoverageSparse.String():
		p = Sparse(fraction)
	case CoverageZipf.String():
		p = Zipf(alpha)
	default:
		return CoveragePolicy{}, fmt.Errorf("unknown coverage policy %q", name)
	}
	return p, p.Validate()
}

// Validate проверяет параметры политики
func (p CoveragePolicy) Validate() error {
	switch p.Kind {
	case CoverageFull:
		return nil
	case CoverageSparse:
		if p.Fraction < 0 || p.Fraction > 1 {
			return fmt.Errorf("sparse coverage fraction must be in [0, 1], got %v", p.Fraction)
		}
		return nil
	case CoverageZipf:
		if p.Alpha < 0 {
			return fmt.Errorf("zipf coverage alpha must be >= 0, got %v", p.Alpha)
		}
		return nil
	default:
		return fmt.Errorf("unknown coverage kind %d", int(p.Kind))
	}
}

// InclusionProbabilities вероятность включения для каждого из n сегментов (в порядке создания)
func (p CoveragePolicy) InclusionProbabilities(n int) []float64 {
	probs := make([]float64, n)
	switch p.Kind {
	case CoverageSparse:
		for i := range probs {
			probs[i] = rng.Clamp(p.Fraction, 0, 1)
		}
	case CoverageZipf:
		weights := make([]float64, n)
		total := 0.0
		for i := range weights {
			weights[i] = 1 / math.Pow(float64(i+1), p.Alpha)
			total += weights[i]
		}
		for i, w := range weights {
			probs[i] = math.Min(1, w/total*float64(n))
		}
	default:
		for i := range probs {
			probs[i] = 1
		}
	}
	return probs
}

// Includes разыгрывает включение пары с вероятностью prob.
// Для Full случайность не расходуется.
func (p CoveragePolicy) Includes(r *rand.Rand, prob float64) bool {
	if p.Kind == CoverageFull || prob >= 1 {
		return true
	}
	return rng.Bernoulli(r, prob)
}

func (p CoveragePolicy) String() string {
	switch p.Kind {
	case CoverageSparse:
		return fmt.Sprintf("sparse(%g)", p.Fraction)
	case CoverageZipf:
		return fmt.Sprintf("zipf(%g)", p.Alpha)
	default:
		return p.Kind.String()
	}
}
