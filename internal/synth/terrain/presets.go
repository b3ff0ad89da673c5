package terrain

import "fmt"

// Preset - региональный профиль рельефа
type Preset string

const (
	PresetFlat        Preset = "flat"
	PresetRolling     Preset = "rolling"
	PresetHilly       Preset = "hilly"
	PresetMountainous Preset = "mountainous"
	PresetAlpine      Preset = "alpine"
)

// Частота задается в "циклах на градус": при 30 рельеф меняется на масштабе ~3-4 км.
var presets = map[Preset]Config{
	PresetFlat:        {BaseElevation: 20, HeightScale: 8, Frequency: 15, Octaves: 2},
	PresetRolling:     {BaseElevation: 120, HeightScale: 40, Frequency: 25, Octaves: 3},
	PresetHilly:       {BaseElevation: 300, HeightScale: 150, Frequency: 30, Octaves: 4},
	PresetMountainous: {BaseElevation: 1200, HeightScale: 600, Frequency: 25, Octaves: 6},
	PresetAlpine:      {BaseElevation: 2200, HeightScale: 1100, Frequency: 20, Octaves: 7},
}

// Presets возвращает имена всех пресетов
func Presets() []Preset {
	return []Preset{PresetFlat, PresetRolling, PresetHilly, PresetMountainous, PresetAlpine}
}

// PresetConfig возвращает конфигурацию пресета с заданным seed
func PresetConfig(p Preset, seed uint32) (Config, error) {
	cfg, ok := presets[p]
	if !ok {
		return Config{}, fmt.Errorf("terrain: unknown preset %q", p)
	}
	cfg.Seed = seed
	return cfg, nil
}

// NewPreset создает поле высот по имени пресета
func NewPreset(p Preset, seed uint32) (*Field, error) {
	cfg, err := PresetConfig(p, seed)
	if err != nil {
		return nil, err
	}
	return New(cfg)
}
