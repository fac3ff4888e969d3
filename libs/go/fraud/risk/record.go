package risk

import (
	"fmt"
	"slices"
	"strings"
)

// Kind selects which lookup table a subject lives in.
type Kind string

const (
	KindAdvisor Kind = "advisor"
	KindWebsite Kind = "website"
)

// ParseKind accepts "advisor"/"advisors" and "website"/"websites".
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "advisor", "advisors":
		return KindAdvisor, nil
	case "website", "websites", "site":
		return KindWebsite, nil
	}
	return "", fmt.Errorf("unknown subject kind %q", s)
}

// Record is one evaluated subject. Records are never mutated after a table is built;
// accessors hand out copies.
type Record struct {
	SubjectID string   `json:"subjectId" yaml:"id"`
	Kind      Kind     `json:"kind" yaml:"-"`
	Score     int      `json:"score" yaml:"score"`
	Flags     []string `json:"flags" yaml:"flags"`
	Verified  bool     `json:"verified" yaml:"verified"`

	// advisor details
	Phone    string `json:"phone,omitempty" yaml:"phone,omitempty"`
	Location string `json:"location,omitempty" yaml:"location,omitempty"`

	// website details
	HTTPSEnabled     bool     `json:"httpsEnabled,omitempty" yaml:"https_enabled,omitempty"`
	SSLCertValid     bool     `json:"sslCertValid,omitempty" yaml:"ssl_cert_valid,omitempty"`
	SecurityFeatures []string `json:"securityFeatures,omitempty" yaml:"security_features,omitempty"`
}

// Tier classifies the record's score.
func (r Record) Tier() Tier { return Classify(r.Score) }

// Clone returns a deep copy.
func (r Record) Clone() Record {
	r.Flags = slices.Clone(r.Flags)
	if r.Flags == nil {
		r.Flags = []string{}
	}
	r.SecurityFeatures = slices.Clone(r.SecurityFeatures)
	return r
}
