package path

import "fmt"

// Pattern - шаблон маршрута
type Pattern int

const (
	RandomWalk Pattern = iota
	OutAndBack
	Loop
)

var patternNames = map[Pattern]string{
	RandomWalk: "random_walk",
	OutAndBack: "out_and_back",
	Loop:       "loop",
}

func (p Pattern) String() string {
	if name, ok := patternNames[p]; ok {
		return name
	}
	return fmt.Sprintf("pattern(%d)", int(p))
}

// ReturnsToOrigin - заканчивается ли маршрут рядом со стартом
func (p Pattern) ReturnsToOrigin() bool {
	return p == OutAndBack || p == Loop
}

// ParsePattern разбирает имя шаблона
func ParsePattern(s string) (Pattern, error) {
	for p, name := range patternNames {
		if name == s {
			return p, nil
		}
	}
	return 0, fmt.Errorf("unknown route pattern %q", s)
}
