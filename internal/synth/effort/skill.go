// Package effort синтезирует время прохождения сегментов и решает,
// какие пары (сегмент, пользователь) получают прохождение.
package effort

import (
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/track-synthesizer/internal/synth/rng"
)

// SkillKind вид распределения уровня атлета
type SkillKind int

const (
	SkillUniform SkillKind = iota
	SkillNormal
	SkillPowerLaw
)

var skillKindNames = map[SkillKind]string{
	SkillUniform:  "uniform",
	SkillNormal:   "normal",
	SkillPowerLaw: "power_law",
}

func (k SkillKind) String() string {
	if name, ok := skillKindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("SkillKind(%d)", int(k))
}

// SkillDistribution - распределение множителя уровня (skill factor).
// Множитель < 1 означает быстрее ожидаемого.
// Используются поля, соответствующие Kind: Mean/StdDev для Normal, Alpha для PowerLaw.
type SkillDistribution struct {
	Kind   SkillKind `json:"kind"`
	Mean   float64   `json:"mean,omitempty"`
	StdDev float64   `json:"std_dev,omitempty"`
	Alpha  float64   `json:"alpha,omitempty"`
}

// UniformSkill - U(0.7, 1.5)
func UniformSkill() SkillDistribution {
	return SkillDistribution{Kind: SkillUniform}
}

// NormalSkill - N(mean, std), ограниченное [0.5, 2.0]
func NormalSkill(mean, std float64) SkillDistribution {
	return SkillDistribution{Kind: SkillNormal, Mean: mean, StdDev: std}
}

// PowerLawSkill - логнормальное приближение степенного закона со средним около 1
func PowerLawSkill(alpha float64) SkillDistribution {
	return SkillDistribution{Kind: SkillPowerLaw, Alpha: alpha}
}

// ParseSkill собирает распределение по имени вида и параметрам
func ParseSkill(name string, mean, std, alpha float64) (SkillDistribution, error) {
	var d SkillDistribution
	switch name {
	case "", SkillUniform.String():
		d = UniformSkill()
	case SkillNormal.String():
		d = NormalSkill(mean, std)
	case SkillPowerLaw.String():
		d = PowerLawSkill(alpha)
	default:
		return SkillDistribution{}, fmt.Errorf("unknown skill distribution %q", name)
	}
	return d, d.Validate()
}

// Validate проверяет параметры распределения
func (d SkillDistribution) Validate() error {
	switch d.Kind {
	case SkillUniform:
		return nil
	case SkillNormal:
		if d.Mean <= 0 || d.StdDev < 0 {
			return fmt.Errorf("normal skill needs mean > 0 and std >= 0, got %v/%v", d.Mean, d.StdDev)
		}
		return nil
	case SkillPowerLaw:
		if d.Alpha <= 0 {
			return fmt.Errorf("power law skill needs alpha > 0, got %v", d.Alpha)
		}
		return nil
	default:
		return fmt.Errorf("unknown skill kind %d", int(d.Kind))
	}
}

// Sample возвращает множитель уровня
func (d SkillDistribution) Sample(r *rand.Rand) float64 {
	switch d.Kind {
	case SkillNormal:
		return rng.Clamp(rng.Normal(r, d.Mean, d.StdDev), 0.5, 2.0)
	case SkillPowerLaw:
		sigma := 0.4 / math.Sqrt(d.Alpha)
		mu := -0.5 * sigma * sigma
		return rng.Clamp(rng.LogNormal(r, mu, sigma), 0.5, 3.0)
	default:
		return rng.Uniform(r, 0.7, 1.5)
	}
}

func (d SkillDistribution) String() string {
	switch d.Kind {
	case SkillNormal:
		return fmt.Sprintf("normal(%g, %g)", d.Mean, d.StdDev)
	case SkillPowerLaw:
		return fmt.Sprintf("power_law(%g)", d.Alpha)
	default:
		return d.Kind.String()
	}
}
