// Package locale serves the static English and Hindi text used by every screen.
package locale

import (
	"errors"
	"fmt"
	"maps"
	"sort"
	"strings"

	"golang.org/x/text/language"

	"github.com/ShrutiGaur-tech/InFinsafe/libs/go/fraud/risk"
)

// ErrUnknownScreen is returned for screen names with no dictionary.
var ErrUnknownScreen = errors.New("unknown screen")

// Locale is a supported language code.
type Locale string

const (
	English Locale = "en"
	Hindi   Locale = "hi"
)

// Default is used when negotiation finds nothing better.
const Default = English

var matcher = language.NewMatcher([]language.Tag{language.English, language.Hindi})

// Parse maps a language tag to a supported locale; anything unrecognized is English.
func Parse(s string) Locale {
	tag, err := language.Parse(strings.TrimSpace(s))
	if err != nil {
		return Default
	}
	if base, _ := tag.Base(); base.String() == string(Hindi) {
		return Hindi
	}
	return English
}

// Negotiate picks a locale from an explicit override (e.g. ?lang=) and an
// Accept-Language header, in that order of preference.
func Negotiate(override, acceptLanguage string) Locale {
	if override = strings.TrimSpace(override); override != "" {
		if _, err := language.Parse(override); err == nil {
			return Parse(override)
		}
	}
	if strings.TrimSpace(acceptLanguage) == "" {
		return Default
	}
	tag, _ := language.MatchStrings(matcher, acceptLanguage)
	if base, _ := tag.Base(); base.String() == string(Hindi) {
		return Hindi
	}
	return English
}

// Screens lists the screen names in sorted order.
func Screens() []string {
	out := make([]string, 0, len(dictionaries[Default]))
	for k := range dictionaries[Default] {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Text returns a copy of the dictionary for screen. Unknown locales fall back to English.
func Text(loc Locale, screen string) (map[string]string, error) {
	d, ok := dictionaries[loc]
	if !ok {
		d = dictionaries[Default]
	}
	m, ok := d[screen]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownScreen, screen)
	}
	return maps.Clone(m), nil
}

// Get returns one string, falling back to English and finally to key itself.
func Get(loc Locale, screen, key string) string {
	if v, ok := dictionaries[loc][screen][key]; ok {
		return v
	}
	if v, ok := dictionaries[Default][screen][key]; ok {
		return v
	}
	return key
}

// TierLabel renders a tier for the advisor or website screen.
func TierLabel(loc Locale, screen string, t risk.Tier) string {
	switch t {
	case risk.TierSafe:
		return Get(loc, screen, "safeScore")
	case risk.TierMedium:
		return Get(loc, screen, "mediumScore")
	default:
		return Get(loc, screen, "highScore")
	}
}

// ScreenFor returns the result screen of a subject kind.
func ScreenFor(kind risk.Kind) string {
	if kind == risk.KindWebsite {
		return ScreenWebsite
	}
	return ScreenAdvisor
}

// PointsToast renders the points-earned notification.
func PointsToast(loc Locale, earned, total int) (title, body string) {
	return Get(loc, ScreenToast, "pointsTitle"), fmt.Sprintf(Get(loc, ScreenToast, "pointsBody"), earned, total)
}

// BadgeToast renders the badge-unlocked notification.
func BadgeToast(loc Locale, badgeID string) (title, body string) {
	b := badges[badgeID]
	emoji := b.emoji
	if emoji == "" {
		emoji = "🏅"
	}
	return Get(loc, ScreenToast, "badgeTitle"), fmt.Sprintf(Get(loc, ScreenToast, "badgeBody"), emoji, BadgeName(loc, badgeID))
}

// BadgeName is the display name of a badge; unknown ids are returned as is.
func BadgeName(loc Locale, badgeID string) string {
	b, ok := badges[badgeID]
	if !ok {
		return badgeID
	}
	if n, ok := b.name[loc]; ok {
		return n
	}
	return b.name[Default]
}

// BadgeDescription describes what a badge is awarded for.
func BadgeDescription(loc Locale, badgeID string) string {
	b, ok := badges[badgeID]
	if !ok {
		return ""
	}
	if d, ok := b.desc[loc]; ok {
		return d
	}
	return b.desc[Default]
}

// BadgeEmoji is the icon shown next to a badge.
func BadgeEmoji(badgeID string) string { return badges[badgeID].emoji }
