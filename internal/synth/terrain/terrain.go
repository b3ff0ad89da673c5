// Package terrain - детерминированное поле высот (fBm поверх OpenSimplex шума).
package terrain

import (
	"fmt"

	"github.com/ojrac/opensimplex-go"

	"github.com/track-synthesizer/internal/pkg/validator"
)

// Config параметры поля высот
type Config struct {
	Seed          uint32  `json:"seed"`
	BaseElevation float64 `json:"base_elevation" validate:"min=-500,max=9000"`
	HeightScale   float64 `json:"height_scale" validate:"min=0"`
	Frequency     float64 `json:"frequency" validate:"gt=0"`
	Octaves       int     `json:"octaves" validate:"min=1,max=12"`
}

// Field - чистая функция (lat, lon) -> высота в метрах.
// Не содержит изменяемого состояния, безопасна для конкурентного чтения.
type Field struct {
	cfg   Config
	noise opensimplex.Noise
	norm  float64
}

// New создает поле высот. Пустая конфигурация (нет октав, нулевая частота) - ошибка вызывающего.
func New(cfg Config) (*Field, error) {
	if err := validator.Validate(cfg); err != nil {
		return nil, fmt.Errorf("terrain: %w", err)
	}

	norm := 0.0
	amp := 1.0
	for k := 0; k < cfg.Octaves; k++ {
		norm += amp
		amp *= 0.5
	}

	return &Field{
		cfg:   cfg,
		noise: opensimplex.New(int64(cfg.Seed)),
		norm:  norm,
	}, nil
}

// Config возвращает параметры поля
func (f *Field) Config() Config {
	return f.cfg
}

// ElevationAt возвращает высоту в точке
func (f *Field) ElevationAt(lat, lon float64) float64 {
	sum := 0.0
	amp := 1.0
	freq := f.cfg.Frequency
	for k := 0; k < f.cfg.Octaves; k++ {
		sum += amp * f.noise.Eval2(lat*freq, lon*freq)
		amp *= 0.5
		freq *= 2
	}

	normalized := sum / f.norm
	if normalized > 1 {
		normalized = 1
	} else if normalized < -1 {
		normalized = -1
	}

	return f.cfg.BaseElevation + normalized*f.cfg.HeightScale
}
