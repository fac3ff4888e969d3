// Package rewards implements the gamification counter: points per action, badge
// thresholds and level progression.
package rewards

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

// ErrUnknownAction is returned by Award for actions outside the points table.
var ErrUnknownAction = errors.New("unknown action")

// Action is a point-earning event.
type Action string

const (
	CheckAdvisor  Action = "check_advisor"
	CheckWebsite  Action = "check_website"
	FraudDetected Action = "fraud_detected"
	Referral      Action = "referral"
)

var points = map[Action]int{
	CheckAdvisor:  10,
	CheckWebsite:  15,
	FraudDetected: 100,
	Referral:      25,
}

// Points returns the award for a, or false when a is unknown.
func Points(a Action) (int, bool) {
	p, ok := points[a]
	return p, ok
}

// ParseAction accepts the snake_case action ids.
func ParseAction(s string) (Action, error) {
	a := Action(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := points[a]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownAction, s)
	}
	return a, nil
}

const levelSpan = 200

// Badge is one catalog entry with its derived unlock state.
type Badge struct {
	ID        string `json:"id"`
	Threshold int    `json:"threshold"`
	Unlocked  bool   `json:"unlocked"`
}

// Catalog is an ordered list of badge ids and thresholds.
type Catalog []Badge

// DefaultCatalog returns the canonical badge thresholds.
func DefaultCatalog() Catalog {
	return Catalog{
		{ID: "smart_starter", Threshold: 50},
		{ID: "alert_investor", Threshold: 200},
		{ID: "fraud_buster", Threshold: 300},
		{ID: "security_champion", Threshold: 500},
		{ID: "fraud_detective", Threshold: 750},
		{ID: "guardian_angel", Threshold: 1000},
	}
}

// State is one session's progress. Values are copied on every transition.
type State struct {
	TotalPoints     int     `json:"totalPoints"`
	Badges          []Badge `json:"badges"`
	ChecksCompleted int     `json:"checksCompleted"`
	FraudsDetected  int     `json:"fraudsDetected"`
	Referrals       int     `json:"referrals"`
}

// NewState starts a session at start points (negative values become 0) with
// badge state derived from the catalog.
func NewState(start int, catalog Catalog) State {
	if start < 0 {
		start = 0
	}
	s := State{TotalPoints: start, Badges: make([]Badge, len(catalog))}
	for i, b := range catalog {
		b.Unlocked = start >= b.Threshold
		s.Badges[i] = b
	}
	return s
}

// Level is points/200 + 1.
func (s State) Level() int { return s.TotalPoints/levelSpan + 1 }

// NextLevelPoints is the total at which the next level starts.
func (s State) NextLevelPoints() int { return s.Level() * levelSpan }

// Progress is the fraction of the current level completed, in [0,1).
func (s State) Progress() float64 {
	return float64(s.TotalPoints%levelSpan) / levelSpan
}

// Unlocked returns the ids of unlocked badges in catalog order.
func (s State) Unlocked() []string {
	var out []string
	for _, b := range s.Badges {
		if b.Unlocked {
			out = append(out, b.ID)
		}
	}
	return out
}

// Clone returns a copy that shares no memory with s.
func (s State) Clone() State {
	s.Badges = slices.Clone(s.Badges)
	return s
}

// Unlock reports a badge that flipped from locked to unlocked.
type Unlock struct {
	BadgeID     string `json:"badgeId"`
	Threshold   int    `json:"threshold"`
	TotalPoints int    `json:"totalPoints"`
}

// Award applies a to s and returns the new state plus one Unlock per badge
// that became unlocked in this step. s itself is not modified. Unknown actions
// leave the state unchanged and return ErrUnknownAction.
func Award(s State, a Action) (State, []Unlock, error) {
	p, ok := points[a]
	if !ok {
		return s, nil, fmt.Errorf("%w: %q", ErrUnknownAction, a)
	}
	next := s.Clone()
	next.TotalPoints += p
	switch a {
	case CheckAdvisor, CheckWebsite:
		next.ChecksCompleted++
	case FraudDetected:
		next.FraudsDetected++
	case Referral:
		next.Referrals++
	}
	var unlocks []Unlock
	for i, b := range next.Badges {
		if b.Unlocked || next.TotalPoints < b.Threshold {
			continue
		}
		next.Badges[i].Unlocked = true
		unlocks = append(unlocks, Unlock{BadgeID: b.ID, Threshold: b.Threshold, TotalPoints: next.TotalPoints})
	}
	return next, unlocks, nil
}

// AwardAll applies actions in order, collecting every unlock. It stops at the first
// unknown action and returns the state reached so far.
func AwardAll(s State, actions ...Action) (State, []Unlock, error) {
	var all []Unlock
	for _, a := range actions {
		next, u, err := Award(s, a)
		if err != nil {
			return s, all, err
		}
		s = next
		all = append(all, u...)
	}
	return s, all, nil
}
