// Package athlete описывает профили атлетов: базовую скорость и зависимость скорости от уклона.
package athlete

import (
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/track-synthesizer/internal/domain"
	"github.com/track-synthesizer/internal/synth/rng"
)

// MinSpeedMPS нижняя граница скорости на любом уклоне
const MinSpeedMPS = 0.5

// Kind - закрытый набор профилей. Диспетчеризация через switch по варианту.
type Kind int

const (
	Runner Kind = iota
	Cyclist
	Hiker
	Dig // неподвижное устройство, только дрейф GPS
)

var kindNames = map[Kind]string{
	Runner:  "runner",
	Cyclist: "cyclist",
	Hiker:   "hiker",
	Dig:     "dig",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// ParseKind разбирает имя профиля
func ParseKind(s string) (Kind, error) {
	for k, name := range kindNames {
		if name == s {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown athlete profile %q", s)
}

// ForActivityType сопоставляет тип активности профилю
func ForActivityType(t domain.ActivityType) Kind {
	switch t {
	case domain.ActivityRide:
		return Cyclist
	case domain.ActivityHike:
		return Hiker
	case domain.ActivityDig:
		return Dig
	default:
		return Runner
	}
}

// BaseSpeedMPS скорость на ровной поверхности, м/с
func (k Kind) BaseSpeedMPS() float64 {
	switch k {
	case Cyclist:
		return 8.0
	case Hiker:
		return 1.5
	case Dig:
		return 0.2
	default:
		return 3.5
	}
}

// Variance коэффициент вариации скорости
func (k Kind) Variance() float64 {
	switch k {
	case Cyclist:
		return 0.12
	case Hiker:
		return 0.15
	case Dig:
		return 0.5
	default:
		return 0.10
	}
}

// gradeModel: штраф/бонус на 1.0 уклона (т.е. 0.15 на 1%) и допустимый диапазон множителя
type gradeModel struct {
	uphill, downhill float64
	min, max         float64
}

func (k Kind) model() (gradeModel, bool) {
	switch k {
	case Runner:
		return gradeModel{uphill: 15, downhill: 8, min: 0.2, max: 1.5}, true
	case Cyclist:
		return gradeModel{uphill: 25, downhill: 15, min: 0.15, max: 2.5}, true
	case Hiker:
		return gradeModel{uphill: 12, downhill: 5, min: 0.25, max: 1.3}, true
	default:
		return gradeModel{}, false
	}
}

// GradeFactor множитель скорости для уклона grade (0.05 = 5% в гору)
func (k Kind) GradeFactor(grade float64) float64 {
	m, ok := k.model()
	if !ok || math.IsNaN(grade) {
		return 1.0
	}

	var factor float64
	if grade >= 0 {
		factor = 1 - m.uphill*grade
	} else {
		factor = 1 + m.downhill*(-grade)
	}
	return rng.Clamp(factor, m.min, m.max)
}

// SpeedAtGrade скорость с учетом уклона и дневной вариации, не ниже MinSpeedMPS
func SpeedAtGrade(k Kind, grade, varianceFactor float64) float64 {
	return math.Max(k.BaseSpeedMPS()*k.GradeFactor(grade)*varianceFactor, MinSpeedMPS)
}

// SampleVariance - N(1, variance), ограниченное [0.7, 1.4]
func SampleVariance(r *rand.Rand, k Kind) float64 {
	return rng.Clamp(rng.Normal(r, 1, k.Variance()), 0.7, 1.4)
}
