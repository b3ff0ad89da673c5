package scenario

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/track-synthesizer/internal/domain"
)

const keyBytes = 16

// Key - ключ сценария: хеш от итоговой конфигурации.
// Одинаковые конфигурации дают одинаковые сценарии, поэтому и ключ у них общий.
func Key(cfg Config) (string, error) {
	data, err := json.Marshal(cfg)
	if err != nil {
		return "", fmt.Errorf("marshal scenario config: %w", err)
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:keyBytes]), nil
}

// Namespace - пространство UUID сценария с ключом key
func Namespace(key string) uuid.UUID {
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte("track-synthesizer:"+key))
}

// scopeIDs переводит идентификаторы сценария в пространство ns.
// Поток случайности при этом не расходуется, поэтому остальные значения не меняются.
func scopeIDs(sc *domain.Scenario, ns uuid.UUID) {
	scope := func(id uuid.UUID) uuid.UUID {
		return uuid.NewSHA1(ns, id[:])
	}

	sc.Creator.ID = scope(sc.Creator.ID)
	for i := range sc.Users {
		sc.Users[i].ID = scope(sc.Users[i].ID)
	}
	for i := range sc.Activities {
		a := &sc.Activities[i]
		a.ID = scope(a.ID)
		a.UserID = scope(a.UserID)
	}
	for i := range sc.Segments {
		s := &sc.Segments[i]
		s.ID = scope(s.ID)
		s.CreatorID = scope(s.CreatorID)
	}
	for i := range sc.Efforts {
		e := &sc.Efforts[i]
		e.ID = scope(e.ID)
		e.SegmentID = scope(e.SegmentID)
		e.UserID = scope(e.UserID)
		e.ActivityID = scope(e.ActivityID)
	}
}
