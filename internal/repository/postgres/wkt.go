package postgres

import (
	"fmt"

	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/wkt"

	"github.com/track-synthesizer/internal/domain"
)

const wktDecimalDigits = 7

// trackLineString собирает LINESTRING Z (lon lat ele) в SRID 4326.
// Точка без высоты получает 0.
func trackLineString(points []domain.TrackPoint) *geom.LineString {
	flat := make([]float64, 0, len(points)*3)
	for _, p := range points {
		ele := 0.0
		if p.Elevation != nil {
			ele = *p.Elevation
		}
		flat = append(flat, p.Lon, p.Lat, ele)
	}
	return geom.NewLineStringFlat(geom.XYZ, flat).SetSRID(4326)
}

// lineStringZ кодирует трек в WKT для ST_GeomFromText
func lineStringZ(points []domain.TrackPoint) (string, error) {
	if len(points) < 2 {
		return "", fmt.Errorf("linestring needs at least 2 points, got %d", len(points))
	}
	s, err := wkt.Marshal(trackLineString(points), wkt.EncodeOptionWithMaxDecimalDigits(wktDecimalDigits))
	if err != nil {
		return "", fmt.Errorf("encode linestring: %w", err)
	}
	return s, nil
}
