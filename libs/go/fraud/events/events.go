// Package events defines the NATS subjects and payloads published when a session
// earns points or unlocks a badge.
package events

import (
	"time"

	"github.com/google/uuid"

	"github.com/ShrutiGaur-tech/InFinsafe/libs/go/fraud/rewards"
)

const (
	SubjectBadgeUnlocked = "infinsafe.v1.badge.unlocked"
	SubjectPointsEarned  = "infinsafe.v1.points.earned"
	// SubjectAll matches every InFinsafe v1 event.
	SubjectAll = "infinsafe.v1.>"
)

// BadgeUnlocked is emitted once per badge per session.
type BadgeUnlocked struct {
	EventID     string    `json:"eventId"`
	SessionID   string    `json:"sessionId"`
	BadgeID     string    `json:"badgeId"`
	Threshold   int       `json:"threshold"`
	TotalPoints int       `json:"totalPoints"`
	Locale      string    `json:"locale,omitempty"`
	OccurredAt  time.Time `json:"occurredAt"`
}

// PointsEarned is emitted for every successful award.
type PointsEarned struct {
	EventID     string         `json:"eventId"`
	SessionID   string         `json:"sessionId"`
	Action      rewards.Action `json:"action"`
	Points      int            `json:"points"`
	TotalPoints int            `json:"totalPoints"`
	Locale      string         `json:"locale,omitempty"`
	OccurredAt  time.Time      `json:"occurredAt"`
}

// NewBadgeUnlocked builds an event for u with a fresh id.
func NewBadgeUnlocked(sessionID, locale string, u rewards.Unlock, at time.Time) BadgeUnlocked {
	return BadgeUnlocked{
		EventID:     uuid.NewString(),
		SessionID:   sessionID,
		BadgeID:     u.BadgeID,
		Threshold:   u.Threshold,
		TotalPoints: u.TotalPoints,
		Locale:      locale,
		OccurredAt:  at.UTC(),
	}
}

// NewPointsEarned builds an event with a fresh id.
func NewPointsEarned(sessionID, locale string, action rewards.Action, points, total int, at time.Time) PointsEarned {
	return PointsEarned{
		EventID:     uuid.NewString(),
		SessionID:   sessionID,
		Action:      action,
		Points:      points,
		TotalPoints: total,
		Locale:      locale,
		OccurredAt:  at.UTC(),
	}
}
