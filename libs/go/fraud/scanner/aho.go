// Package scanner finds suspicious marketing phrases in free text with an
// Aho-Corasick automaton.
package scanner

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"
)

// ErrInvalidPhrase is returned by Build for empty phrases or unknown severities.
var ErrInvalidPhrase = errors.New("invalid phrase")

// Severity grades how strongly a phrase indicates fraud.
type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// Phrase is one pattern. Text is matched case-insensitively.
type Phrase struct {
	Text     string   `json:"text" yaml:"text"`
	Severity Severity `json:"severity" yaml:"severity"`
}

// DefaultPhrases are the red flags attached to the demo seed records.
func DefaultPhrases() []Phrase {
	return []Phrase{
		{Text: "guaranteed returns", Severity: SeverityHigh},
		{Text: "guaranteed profits", Severity: SeverityHigh},
		{Text: "get rich quick", Severity: SeverityHigh},
		{Text: "no risk investment", Severity: SeverityHigh},
		{Text: "100% returns", Severity: SeverityHigh},
		{Text: "quick money", Severity: SeverityMedium},
		{Text: "instant money", Severity: SeverityMedium},
		{Text: "instant profit", Severity: SeverityMedium},
		{Text: "no risk", Severity: SeverityMedium},
	}
}

type acNode struct {
	next map[byte]*acNode
	fail *acNode
	out  []*Phrase
}

// Automaton is a compiled phrase set. It is safe for concurrent use.
type Automaton struct {
	root       *acNode
	count      int
	hash       string
	buildNanos int64
}

// Build compiles phrases. Duplicates (after lowercasing) are collapsed;
// severity defaults to medium.
func Build(phrases []Phrase) (*Automaton, error) {
	start := time.Now()
	root := &acNode{next: make(map[byte]*acNode)}
	h := sha256.New()
	seen := make(map[string]bool, len(phrases))
	added := 0
	for _, p := range phrases {
		text := strings.ToLower(strings.TrimSpace(p.Text))
		if text == "" {
			return nil, fmt.Errorf("%w: empty text", ErrInvalidPhrase)
		}
		switch p.Severity {
		case "":
			p.Severity = SeverityMedium
		case SeverityLow, SeverityMedium, SeverityHigh:
		default:
			return nil, fmt.Errorf("%w: %q has severity %q", ErrInvalidPhrase, text, p.Severity)
		}
		if seen[text] {
			continue
		}
		seen[text] = true
		added++
		h.Write([]byte(text))
		h.Write([]byte{0})
		h.Write([]byte(p.Severity))
		h.Write([]byte{0})
		cur := root
		for i := 0; i < len(text); i++ {
			b := text[i]
			nxt, ok := cur.next[b]
			if !ok {
				nxt = &acNode{next: make(map[byte]*acNode)}
				cur.next[b] = nxt
			}
			cur = nxt
		}
		cur.out = append(cur.out, &Phrase{Text: text, Severity: p.Severity})
	}
	// BFS failure links
	queue := make([]*acNode, 0, len(root.next))
	for _, n := range root.next {
		n.fail = root
		queue = append(queue, n)
	}
	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]
		for b, nxt := range n.next {
			f := n.fail
			for f != nil && f.next[b] == nil {
				f = f.fail
			}
			if f == nil {
				nxt.fail = root
			} else {
				nxt.fail = f.next[b]
			}
			if len(nxt.fail.out) > 0 {
				nxt.out = append(nxt.out, nxt.fail.out...)
			}
			queue = append(queue, nxt)
		}
	}
	return &Automaton{
		root:       root,
		count:      added,
		hash:       hex.EncodeToString(h.Sum(nil))[:16],
		buildNanos: time.Since(start).Nanoseconds(),
	}, nil
}

// MustBuild is Build for compiled-in phrase lists.
func MustBuild(phrases []Phrase) *Automaton {
	a, err := Build(phrases)
	if err != nil {
		panic(err)
	}
	return a
}

// Len reports the number of distinct phrases.
func (a *Automaton) Len() int { return a.count }

// Fingerprint identifies the phrase set.
func (a *Automaton) Fingerprint() string { return a.hash }

// Match is one phrase occurrence. Offset is a byte offset into the lowercased text.
type Match struct {
	Phrase   string   `json:"phrase"`
	Severity Severity `json:"severity"`
	Offset   int      `json:"offset"`
	Length   int      `json:"length"`
}

// Scan returns every occurrence, overlapping ones included, ordered by offset.
func (a *Automaton) Scan(text string) []Match {
	if a == nil || a.root == nil {
		return nil
	}
	data := strings.ToLower(text)
	var results []Match
	n := a.root
	for i := 0; i < len(data); i++ {
		b := data[i]
		for n != a.root && n.next[b] == nil {
			n = n.fail
		}
		if nxt, ok := n.next[b]; ok {
			n = nxt
		}
		for _, p := range n.out {
			results = append(results, Match{
				Phrase:   p.Text,
				Severity: p.Severity,
				Offset:   i - len(p.Text) + 1,
				Length:   len(p.Text),
			})
		}
	}
	sort.SliceStable(results, func(i, j int) bool { return results[i].Offset < results[j].Offset })
	return results
}

// Flags returns the distinct phrases found in text, in first-occurrence order.
func (a *Automaton) Flags(text string) []string {
	flags := []string{}
	seen := map[string]bool{}
	for _, m := range a.Scan(text) {
		if seen[m.Phrase] {
			continue
		}
		seen[m.Phrase] = true
		flags = append(flags, m.Phrase)
	}
	return flags
}

// MaxSeverity returns the strongest severity among matches, or "" when none.
func MaxSeverity(matches []Match) Severity {
	var best Severity
	rank := map[Severity]int{SeverityLow: 1, SeverityMedium: 2, SeverityHigh: 3}
	for _, m := range matches {
		if rank[m.Severity] > rank[best] {
			best = m.Severity
		}
	}
	return best
}
