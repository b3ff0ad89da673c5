package domain

import "time"

// Scenario - результат генерации: пользователи, активности, сегменты и попытки
type Scenario struct {
	Seed       uint32              `json:"seed"`
	Creator    GeneratedUser       `json:"creator"`
	Users      []GeneratedUser     `json:"users"`
	Activities []GeneratedActivity `json:"activities"`
	Segments   []GeneratedSegment  `json:"segments"`
	Efforts    []GeneratedEffort   `json:"efforts"`
}

// ScenarioSummary - агрегированная статистика по сценарию
type ScenarioSummary struct {
	Key              string         `json:"key"`
	Seed             uint32         `json:"seed"`
	Users            int            `json:"users"`
	Activities       int            `json:"activities"`
	Segments         int            `json:"segments"`
	Efforts          int            `json:"efforts"`
	TrackPoints      int            `json:"track_points"`
	TotalDistanceM   float64        `json:"total_distance_m"`
	ClimbsByCategory map[string]int `json:"climbs_by_category"`
	GeneratedAt      time.Time      `json:"generated_at"`
}

// Summarize считает статистику по сценарию
func (s *Scenario) Summarize(key string, generatedAt time.Time) *ScenarioSummary {
	summary := &ScenarioSummary{
		Key:              key,
		Seed:             s.Seed,
		Users:            len(s.Users),
		Activities:       len(s.Activities),
		Segments:         len(s.Segments),
		Efforts:          len(s.Efforts),
		ClimbsByCategory: make(map[string]int),
		GeneratedAt:      generatedAt,
	}

	for _, a := range s.Activities {
		summary.TrackPoints += len(a.Track)
		summary.TotalDistanceM += a.DistanceM
	}

	for _, seg := range s.Segments {
		if seg.ClimbCategory.IsCategorized() {
			summary.ClimbsByCategory[seg.ClimbCategory.String()]++
		}
	}

	return summary
}
