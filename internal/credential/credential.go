// Package credential implements the bearer-credential acquisition core: a
// TTL-backed file cache and the acquirer that decides when to refresh it by
// driving an automated browser session.
package credential

import (
	"encoding/json"
	"math"
	"time"
)

// Credential is a bearer value plus the time it was obtained. A Credential is
// never mutated in place; a stale one is superseded by a new instance.
type Credential struct {
	Value     string
	SourcedAt time.Time
}

// credentialJSON is the wire form used in the cache document. The timestamp
// is unix seconds as a float, matching what earlier revisions of this tool
// wrote so existing cache files stay readable.
type credentialJSON struct {
	Value     string  `json:"value"`
	SourcedAt float64 `json:"sourced_at"`
}

func (c Credential) MarshalJSON() ([]byte, error) {
	var ts float64
	if !c.SourcedAt.IsZero() {
		ts = float64(c.SourcedAt.UnixNano()) / float64(time.Second)
	}
	return json.Marshal(credentialJSON{Value: c.Value, SourcedAt: ts})
}

func (c *Credential) UnmarshalJSON(data []byte) error {
	var raw credentialJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	c.Value = raw.Value
	c.SourcedAt = time.Time{}
	if raw.SourcedAt > 0 {
		sec, frac := math.Modf(raw.SourcedAt)
		c.SourcedAt = time.Unix(int64(sec), int64(frac*float64(time.Second)))
	}
	return nil
}

// Fresh reports whether the credential can still be served without a refresh.
// A nil credential, an empty value, or a missing timestamp is always stale;
// a zero SourcedAt must never silently pass the TTL arithmetic.
func (c *Credential) Fresh(ttl time.Duration, now time.Time) bool {
	if c == nil || c.Value == "" || c.SourcedAt.IsZero() {
		return false
	}
	return now.Sub(c.SourcedAt) <= ttl
}
