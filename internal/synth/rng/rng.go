// Package rng содержит детерминированный источник случайности и семплеры распределений.
//
// Все генераторы движка получают *rand.Rand явно: глобального состояния нет,
// одинаковый seed и одинаковый порядок вызовов дают одинаковый результат.
package rng

import (
	"io"
	"math/rand/v2"

	"github.com/google/uuid"
	"gonum.org/v1/gonum/stat/distuv"
)

// pcgStream второе слово состояния PCG, чтобы 32-битный seed давал полное 128-битное состояние
const pcgStream = 0x9e3779b97f4a7c15

// New создает источник случайности из 32-битного seed
func New(seed uint32) *rand.Rand {
	return rand.New(rand.NewPCG(uint64(seed), uint64(seed)^pcgStream))
}

// Derive создает независимый дочерний источник, например для отдельного воркера
func Derive(r *rand.Rand) *rand.Rand {
	return rand.New(rand.NewPCG(r.Uint64(), r.Uint64()))
}

// Uniform - U(min, max)
func Uniform(r *rand.Rand, min, max float64) float64 {
	if max <= min {
		return min
	}
	return distuv.Uniform{Min: min, Max: max, Src: r}.Rand()
}

// Normal - N(mu, sigma). При sigma <= 0 возвращает mu без потребления случайности.
func Normal(r *rand.Rand, mu, sigma float64) float64 {
	if sigma <= 0 {
		return mu
	}
	return distuv.Normal{Mu: mu, Sigma: sigma, Src: r}.Rand()
}

// LogNormal - exp(N(mu, sigma))
func LogNormal(r *rand.Rand, mu, sigma float64) float64 {
	return distuv.LogNormal{Mu: mu, Sigma: sigma, Src: r}.Rand()
}

// Bernoulli возвращает true с вероятностью p
func Bernoulli(r *rand.Rand, p float64) bool {
	p = Clamp(p, 0, 1)
	return distuv.Bernoulli{P: p, Src: r}.Rand() == 1
}

// Poisson - количество событий при среднем lambda
func Poisson(r *rand.Rand, lambda float64) int {
	if lambda <= 0 {
		return 0
	}
	return int(distuv.Poisson{Lambda: lambda, Src: r}.Rand())
}

// Clamp ограничивает v диапазоном [lo, hi]
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Reader адаптирует источник к io.Reader (для uuid.NewRandomFromReader)
func Reader(r *rand.Rand) io.Reader {
	return reader{r: r}
}

type reader struct {
	r *rand.Rand
}

func (rd reader) Read(p []byte) (int, error) {
	for i := 0; i < len(p); i += 8 {
		v := rd.r.Uint64()
		for j := 0; j < 8 && i+j < len(p); j++ {
			p[i+j] = byte(v >> (8 * j))
		}
	}
	return len(p), nil
}

// UUID генерирует воспроизводимый UUID v4 из источника
func UUID(r *rand.Rand) uuid.UUID {
	// reader не возвращает ошибок
	id, _ := uuid.NewRandomFromReader(Reader(r))
	return id
}
