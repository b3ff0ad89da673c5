package domain

import (
	"fmt"
	"time"
)

// GeoPoint - координата в градусах WGS84
type GeoPoint struct {
	Lat float64 `json:"lat" db:"lat"`
	Lon float64 `json:"lon" db:"lon"`
}

// TrackPoint - точка трека с необязательными высотой и временем
type TrackPoint struct {
	GeoPoint
	Elevation *float64   `json:"elevation,omitempty" db:"elevation"`
	Time      *time.Time `json:"time,omitempty" db:"time"`
}

// HasElevation проверяет наличие высоты
func (p TrackPoint) HasElevation() bool {
	return p.Elevation != nil
}

// BoundingBox - прямоугольная область генерации
type BoundingBox struct {
	MinLat float64 `json:"min_lat" db:"min_lat" validate:"min=-90,max=90"`
	MinLon float64 `json:"min_lon" db:"min_lon" validate:"min=-180,max=180"`
	MaxLat float64 `json:"max_lat" db:"max_lat" validate:"min=-90,max=90,gtfield=MinLat"`
	MaxLon float64 `json:"max_lon" db:"max_lon" validate:"min=-180,max=180,gtfield=MinLon"`
}

// Validate проверяет min < max по обеим осям
func (b BoundingBox) Validate() error {
	if b.MinLat < -90 || b.MaxLat > 90 || b.MinLon < -180 || b.MaxLon > 180 {
		return fmt.Errorf("bounding box out of range: %+v", b)
	}
	if b.MinLat >= b.MaxLat {
		return fmt.Errorf("bounding box has empty latitude span: %v >= %v", b.MinLat, b.MaxLat)
	}
	if b.MinLon >= b.MaxLon {
		return fmt.Errorf("bounding box has empty longitude span: %v >= %v", b.MinLon, b.MaxLon)
	}
	return nil
}

// Contains проверяет попадание точки в область с допуском eps градусов
func (b BoundingBox) Contains(p GeoPoint, eps float64) bool {
	return p.Lat >= b.MinLat-eps && p.Lat <= b.MaxLat+eps &&
		p.Lon >= b.MinLon-eps && p.Lon <= b.MaxLon+eps
}

// Clamp прижимает точку к границам области
func (b BoundingBox) Clamp(p GeoPoint) GeoPoint {
	return GeoPoint{
		Lat: clamp(p.Lat, b.MinLat, b.MaxLat),
		Lon: clamp(p.Lon, b.MinLon, b.MaxLon),
	}
}

// Center возвращает центр области
func (b BoundingBox) Center() GeoPoint {
	return GeoPoint{
		Lat: (b.MinLat + b.MaxLat) / 2,
		Lon: (b.MinLon + b.MaxLon) / 2,
	}
}

// LatSpan высота области в градусах
func (b BoundingBox) LatSpan() float64 {
	return b.MaxLat - b.MinLat
}

// LonSpan ширина области в градусах
func (b BoundingBox) LonSpan() float64 {
	return b.MaxLon - b.MinLon
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Visibility видимость сущности на платформе
type Visibility string

const (
	VisibilityPublic  Visibility = "public"
	VisibilityPrivate Visibility = "private"
)

// ActivityType - тип активности, определяет профиль атлета
type ActivityType string

const (
	ActivityRun  ActivityType = "run"
	ActivityRide ActivityType = "ride"
	ActivityHike ActivityType = "hike"
	ActivityWalk ActivityType = "walk"
	ActivityDig  ActivityType = "dig"
)

// AllActivityTypes возвращает все поддерживаемые типы активностей
func AllActivityTypes() []ActivityType {
	return []ActivityType{ActivityRun, ActivityRide, ActivityHike, ActivityWalk, ActivityDig}
}

// IsValid проверяет тип активности
func (t ActivityType) IsValid() bool {
	for _, v := range AllActivityTypes() {
		if t == v {
			return true
		}
	}
	return false
}
