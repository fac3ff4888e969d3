package risk

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyBoundaries(t *testing.T) {
	cases := map[int]Tier{
		100: TierSafe, 80: TierSafe, 79: TierMedium, 40: TierMedium, 39: TierHigh, 0: TierHigh,
		-5: TierHigh, 150: TierSafe,
	}
	for score, want := range cases {
		assert.Equal(t, want, Classify(score), "score %d", score)
	}
}

func TestClassifyPartitionsRange(t *testing.T) {
	counts := map[Tier]int{}
	for s := MinScore; s <= MaxScore; s++ {
		tier := Classify(s)
		require.True(t, tier.Valid(), "score %d", s)
		counts[tier]++
	}
	assert.Equal(t, 21, counts[TierSafe])
	assert.Equal(t, 40, counts[TierMedium])
	assert.Equal(t, 40, counts[TierHigh])
}

func TestDefaultTableJohnDoe(t *testing.T) {
	tbl := DefaultTable()
	rec, ok := tbl.Lookup(KindAdvisor, "John Doe")
	require.True(t, ok)
	assert.Equal(t, 25, rec.Score)
	assert.False(t, rec.Verified)
	assert.Equal(t, []string{"guaranteed returns"}, rec.Flags)
	assert.Equal(t, TierHigh, rec.Tier())

	_, ok = tbl.Lookup(KindAdvisor, "john doe")
	assert.False(t, ok, "advisor lookup is case sensitive")
	_, ok = tbl.Lookup(KindAdvisor, " John Doe")
	assert.False(t, ok, "table does not trim")
}

func TestDefaultTableContents(t *testing.T) {
	tbl := DefaultTable()
	assert.Equal(t, 4, tbl.Len(KindAdvisor))
	assert.Equal(t, 3, tbl.Len(KindWebsite))

	rec, ok := tbl.Lookup(KindAdvisor, "राज कुमार")
	require.True(t, ok)
	assert.Equal(t, "नई दिल्ली", rec.Location)
	assert.Equal(t, []string{"guaranteed returns", "quick money", "no risk"}, rec.Flags)

	site, ok := tbl.Lookup(KindWebsite, "https://TrustBank.com/")
	require.True(t, ok)
	assert.Equal(t, "trustbank.com", site.SubjectID)
	assert.Equal(t, 92, site.Score)
	assert.True(t, site.HTTPSEnabled)
	assert.Equal(t, []string{"SSL Certificate", "HTTPS", "Valid Domain"}, site.SecurityFeatures)

	_, ok = tbl.Lookup(KindWebsite, "John Doe")
	assert.False(t, ok, "kinds are separate tables")
}

func TestLookupReturnsCopies(t *testing.T) {
	tbl := DefaultTable()
	rec, _ := tbl.Lookup(KindAdvisor, "John Doe")
	rec.Flags[0] = "tampered"
	again, _ := tbl.Lookup(KindAdvisor, "John Doe")
	assert.Equal(t, "guaranteed returns", again.Flags[0])
}

func TestNormalizeWebsite(t *testing.T) {
	assert.Equal(t, "trustbank.com", NormalizeWebsite("HTTPS://TrustBank.com/"))
	assert.Equal(t, "trustbank.com", NormalizeWebsite("http://trustbank.com"))
	assert.Equal(t, "trustbank.com/", NormalizeWebsite("trustbank.com//"))
	assert.Equal(t, "ftp://x.com", NormalizeWebsite("ftp://x.com"))
}

func TestNewTableRejectsInvalid(t *testing.T) {
	cases := []Record{
		{Kind: KindAdvisor, SubjectID: "", Score: 50},
		{Kind: KindAdvisor, SubjectID: "x", Score: 101},
		{Kind: KindWebsite, SubjectID: "y.com", Score: -1},
		{Kind: "bank", SubjectID: "z", Score: 10},
	}
	for _, r := range cases {
		_, err := NewTable([]Record{r})
		assert.ErrorIs(t, err, ErrInvalidSeed, "%+v", r)
	}
	_, err := NewTable([]Record{
		{Kind: KindWebsite, SubjectID: "a.com", Score: 10},
		{Kind: KindWebsite, SubjectID: "https://A.com/", Score: 20},
	})
	assert.ErrorIs(t, err, ErrInvalidSeed)
}

func TestParseSeedRejectsUnknownFields(t *testing.T) {
	_, err := ParseSeed([]byte("advisors:\n  - id: a\n    score: 5\n    rating: 3\n"))
	assert.ErrorIs(t, err, ErrInvalidSeed)
}

func TestLoadSeedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seed.yaml")
	require.NoError(t, os.WriteFile(path, []byte("advisors:\n  - id: Only One\n    score: 90\n"), 0o600))
	tbl, err := LoadSeedFile(path)
	require.NoError(t, err)
	assert.Equal(t, 1, tbl.Len(KindAdvisor))
	assert.Equal(t, 0, tbl.Len(KindWebsite))
	assert.Equal(t, []string{"Only One"}, tbl.Subjects(KindAdvisor))

	_, err = LoadSeedFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestHolderSwap(t *testing.T) {
	h := NewHolder(DefaultTable())
	next, err := NewTable(nil)
	require.NoError(t, err)
	prev := h.Swap(next)
	assert.Equal(t, 4, prev.Len(KindAdvisor))
	assert.Equal(t, 0, h.Load().Len(KindAdvisor))
}

func TestDelayedSourceHonorsContext(t *testing.T) {
	src := &DelayedSource{Tables: NewHolder(DefaultTable()), Delay: time.Hour}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, _, err := src.Fetch(ctx, KindAdvisor, "John Doe")
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	src.Delay = 0
	rec, ok, err := src.Fetch(context.Background(), KindWebsite, "quick-money-scheme.net")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, TierHigh, rec.Tier())
}

func TestParseKind(t *testing.T) {
	k, err := ParseKind("Websites")
	require.NoError(t, err)
	assert.Equal(t, KindWebsite, k)
	_, err = ParseKind("bank")
	assert.Error(t, err)
}
