package parquet

import "github.com/track-synthesizer/internal/domain"

type trackPointRow struct {
	ActivityID string  `parquet:"name=activity_id, type=BYTE_ARRAY, convertedtype=UTF8, encoding=PLAIN_DICTIONARY"`
	UserID     string  `parquet:"name=user_id, type=BYTE_ARRAY, convertedtype=UTF8, encoding=PLAIN_DICTIONARY"`
	Seq        int64   `parquet:"name=seq, type=INT64"`
	Lat        float64 `parquet:"name=lat, type=DOUBLE"`
	Lon        float64 `parquet:"name=lon, type=DOUBLE"`
	ElevationM float64 `parquet:"name=elevation_m, type=DOUBLE"`
	TimeUnixMs int64   `parquet:"name=time_unix_ms, type=INT64"`
}

type segmentRow struct {
	ID             string  `parquet:"name=id, type=BYTE_ARRAY, convertedtype=UTF8"`
	CreatorID      string  `parquet:"name=creator_id, type=BYTE_ARRAY, convertedtype=UTF8, encoding=PLAIN_DICTIONARY"`
	Name           string  `parquet:"name=name, type=BYTE_ARRAY, convertedtype=UTF8"`
	ActivityType   string  `parquet:"name=activity_type, type=BYTE_ARRAY, convertedtype=UTF8, encoding=PLAIN_DICTIONARY"`
	Visibility     string  `parquet:"name=visibility, type=BYTE_ARRAY, convertedtype=UTF8, encoding=PLAIN_DICTIONARY"`
	Source         string  `parquet:"name=source, type=BYTE_ARRAY, convertedtype=UTF8, encoding=PLAIN_DICTIONARY"`
	Points         int64   `parquet:"name=points, type=INT64"`
	DistanceM      float64 `parquet:"name=distance_m, type=DOUBLE"`
	ElevationGainM float64 `parquet:"name=elevation_gain_m, type=DOUBLE"`
	ElevationLossM float64 `parquet:"name=elevation_loss_m, type=DOUBLE"`
	AverageGrade   float64 `parquet:"name=average_grade, type=DOUBLE"`
	MaxGrade       float64 `parquet:"name=max_grade, type=DOUBLE"`
	ClimbCategory  string  `parquet:"name=climb_category, type=BYTE_ARRAY, convertedtype=UTF8, encoding=PLAIN_DICTIONARY"`
}

type effortRow struct {
	ID              string  `parquet:"name=id, type=BYTE_ARRAY, convertedtype=UTF8"`
	SegmentID       string  `parquet:"name=segment_id, type=BYTE_ARRAY, convertedtype=UTF8, encoding=PLAIN_DICTIONARY"`
	UserID          string  `parquet:"name=user_id, type=BYTE_ARRAY, convertedtype=UTF8, encoding=PLAIN_DICTIONARY"`
	ActivityID      string  `parquet:"name=activity_id, type=BYTE_ARRAY, convertedtype=UTF8"`
	StartedAtUnixMs int64   `parquet:"name=started_at_unix_ms, type=INT64"`
	ElapsedTimeS    float64 `parquet:"name=elapsed_time_s, type=DOUBLE"`
	MovingTimeS     float64 `parquet:"name=moving_time_s, type=DOUBLE"`
	AverageSpeedMPS float64 `parquet:"name=average_speed_mps, type=DOUBLE"`
	MaxSpeedMPS     float64 `parquet:"name=max_speed_mps, type=DOUBLE"`
	StartFraction   float64 `parquet:"name=start_fraction, type=DOUBLE"`
	EndFraction     float64 `parquet:"name=end_fraction, type=DOUBLE"`
}

func trackPointRows(activities []domain.GeneratedActivity) []interface{} {
	var rows []interface{}
	for _, a := range activities {
		activityID := a.ID.String()
		userID := a.UserID.String()
		for i, p := range a.Track {
			row := trackPointRow{
				ActivityID: activityID,
				UserID:     userID,
				Seq:        int64(i),
				Lat:        p.Lat,
				Lon:        p.Lon,
			}
			if p.Elevation != nil {
				row.ElevationM = *p.Elevation
			}
			if p.Time != nil {
				row.TimeUnixMs = p.Time.UnixMilli()
			}
			rows = append(rows, row)
		}
	}
	return rows
}

func segmentRows(segments []domain.GeneratedSegment) []interface{} {
	rows := make([]interface{}, len(segments))
	for i, s := range segments {
		rows[i] = segmentRow{
			ID:             s.ID.String(),
			CreatorID:      s.CreatorID.String(),
			Name:           s.Name,
			ActivityType:   string(s.ActivityType),
			Visibility:     string(s.Visibility),
			Source:         string(s.Source),
			Points:         int64(len(s.Points)),
			DistanceM:      s.DistanceM,
			ElevationGainM: s.ElevationGainM,
			ElevationLossM: s.ElevationLossM,
			AverageGrade:   s.AverageGrade,
			MaxGrade:       s.MaxGrade,
			ClimbCategory:  s.ClimbCategory.String(),
		}
	}
	return rows
}

func effortRows(efforts []domain.GeneratedEffort) []interface{} {
	rows := make([]interface{}, len(efforts))
	for i, e := range efforts {
		rows[i] = effortRow{
			ID:              e.ID.String(),
			SegmentID:       e.SegmentID.String(),
			UserID:          e.UserID.String(),
			ActivityID:      e.ActivityID.String(),
			StartedAtUnixMs: e.StartedAt.UnixMilli(),
			ElapsedTimeS:    e.ElapsedTimeS,
			MovingTimeS:     e.MovingTimeS,
			AverageSpeedMPS: e.AverageSpeedMPS,
			MaxSpeedMPS:     e.MaxSpeedMPS,
			StartFraction:   e.StartFraction,
			EndFraction:     e.EndFraction,
		}
	}
	return rows
}
