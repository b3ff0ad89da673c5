package segment

import (
	"fmt"
	"math"

	"github.com/google/uuid"

	"github.com/track-synthesizer/internal/domain"
)

// Пороговые значения очков для категорий подъема
const (
	scoreHC   = 320
	scoreCat1 = 160
	scoreCat2 = 80
	scoreCat3 = 40
	scoreCat4 = 20
)

// ClimbScore = gain * (distance/1000) * (1 + 10*|avgGrade|)
func ClimbScore(gainM, distanceM, avgGrade float64) float64 {
	return gainM * (distanceM / 1000) * (1 + 10*math.Abs(avgGrade))
}

// ClassifyClimb определяет категорию подъема. Набор ниже minGainM - всегда без категории.
func ClassifyClimb(gainM, distanceM, avgGrade, minGainM float64) domain.ClimbCategory {
	if gainM < minGainM {
		return domain.ClimbNone
	}

	score := ClimbScore(gainM, distanceM, avgGrade)
	switch {
	case score >= scoreHC:
		return domain.ClimbHC
	case score >= scoreCat1:
		return domain.ClimbCat1
	case score >= scoreCat2:
		return domain.ClimbCat2
	case score >= scoreCat3:
		return domain.ClimbCat3
	case score >= scoreCat4:
		return domain.ClimbCat4
	default:
		return domain.ClimbNone
	}
}

// climbRun - незакрытый подъем во время прохода
type climbRun struct {
	start       int
	peak        int
	peakElev    float64
	gain        float64
	gainAtPeak  float64
	lossSinceUp float64
}

// ExtractClimbs находит подъемы за один проход (жадно, не глобально оптимально).
// Подъем закрывается, когда спуск от последней вершины превышает MinClimbGainM/2;
// соседние подъемы с более мелкой ямой между ними сливаются.
// ID подъемов выводятся из meta.ID (UUID v5), имена - "<meta.Name> Climb N".
func (e *Extractor) ExtractClimbs(points []domain.TrackPoint, meta Meta) []domain.GeneratedSegment {
	threshold := e.cfg.MinClimbGainM / 2

	var (
		result []domain.GeneratedSegment
		run    *climbRun
	)

	flush := func() {
		if run == nil || run.gainAtPeak < e.cfg.MinClimbGainM {
			return
		}
		n := len(result) + 1
		climbMeta := meta
		climbMeta.ID = uuid.NewSHA1(meta.ID, []byte(fmt.Sprintf("climb-%d-%d", run.start, run.peak)))
		climbMeta.Name = fmt.Sprintf("%s Climb %d", meta.Name, n)
		climbMeta.Source = domain.SegmentFromClimb

		if seg, ok := e.FromPoints(points[run.start:run.peak+1], climbMeta); ok {
			result = append(result, *seg)
		}
	}

	for i := 1; i < len(points); i++ {
		prev, cur := points[i-1].Elevation, points[i].Elevation
		if prev == nil || cur == nil {
			continue
		}
		delta := *cur - *prev

		if run == nil {
			if delta > 0 {
				run = &climbRun{start: i - 1, peak: i, peakElev: *cur, gain: delta, gainAtPeak: delta}
			}
			continue
		}

		if delta > 0 {
			run.gain += delta
		} else {
			run.lossSinceUp += -delta
		}

		if *cur > run.peakElev {
			run.peak = i
			run.peakElev = *cur
			run.gainAtPeak = run.gain
			run.lossSinceUp = 0
			continue
		}

		if run.lossSinceUp > threshold {
			flush()
			run = nil
		}
	}
	flush()

	return result
}
