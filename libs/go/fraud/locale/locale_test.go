package locale

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ShrutiGaur-tech/InFinsafe/libs/go/fraud/risk"
	"github.com/ShrutiGaur-tech/InFinsafe/libs/go/fraud/rewards"
)

func TestDictionariesHaveSameKeys(t *testing.T) {
	for _, screen := range Screens() {
		en, err := Text(English, screen)
		require.NoError(t, err)
		hi, err := Text(Hindi, screen)
		require.NoError(t, err)
		for k := range en {
			assert.Contains(t, hi, k, "hindi %s missing %s", screen, k)
		}
		assert.Len(t, hi, len(en), screen)
	}
}

func TestTextFallbackAndCopy(t *testing.T) {
	m, err := Text(Locale("fr"), ScreenDashboard)
	require.NoError(t, err)
	assert.Equal(t, "Check Advisor", m["advisor"])
	m["advisor"] = "changed"
	assert.Equal(t, "Check Advisor", Get(English, ScreenDashboard, "advisor"))

	_, err = Text(English, "settings")
	assert.ErrorIs(t, err, ErrUnknownScreen)
	assert.Equal(t, "nope", Get(Hindi, ScreenAdvisor, "nope"))
}

func TestTierLabels(t *testing.T) {
	assert.Equal(t, "HIGH RISK", TierLabel(English, ScreenAdvisor, risk.Classify(25)))
	assert.Equal(t, "SUSPICIOUS", TierLabel(English, ScreenWebsite, risk.TierMedium))
	assert.Equal(t, "खतरनाक", TierLabel(Hindi, ScreenWebsite, risk.TierHigh))
	assert.Equal(t, "सुरक्षित", TierLabel(Hindi, ScreenFor(risk.KindAdvisor), risk.TierSafe))
}

func TestNegotiate(t *testing.T) {
	assert.Equal(t, English, Negotiate("", ""))
	assert.Equal(t, Hindi, Negotiate("", "hi-IN,hi;q=0.9,en;q=0.5"))
	assert.Equal(t, English, Negotiate("", "fr-FR,en;q=0.4"))
	assert.Equal(t, Hindi, Negotiate("hi", "en-US"))
	assert.Equal(t, English, Negotiate("en", "hi"))
	assert.Equal(t, Hindi, Negotiate("!!", "hi"))
}

func TestToasts(t *testing.T) {
	title, body := PointsToast(English, 15, 40)
	assert.Equal(t, "🎉 Points Earned!", title)
	assert.Equal(t, "You earned 15 points! Total: 40", body)

	_, body = PointsToast(Hindi, 15, 40)
	assert.Equal(t, "आपने 15 अंक अर्जित किए! कुल: 40", body)

	title, body = BadgeToast(English, "fraud_buster")
	assert.Equal(t, "🏅 New Badge Unlocked!", title)
	assert.Equal(t, "🔍 Fraud Buster badge unlocked!", body)

	_, body = BadgeToast(Hindi, "fraud_buster")
	assert.Equal(t, "🔍 धोखाधड़ी बस्टर बैज अनलॉक!", body)
}

func TestEveryCatalogBadgeHasText(t *testing.T) {
	for _, b := range rewards.DefaultCatalog() {
		assert.NotEqual(t, b.ID, BadgeName(English, b.ID))
		assert.NotEqual(t, b.ID, BadgeName(Hindi, b.ID))
		assert.NotEmpty(t, BadgeDescription(Hindi, b.ID))
		assert.NotEmpty(t, BadgeEmoji(b.ID))
	}
	assert.Equal(t, "mystery", BadgeName(English, "mystery"))
}
