package browser

import (
	"math/rand"

	"github.com/matt-mccartney/AvnetScraper/internal/config"
)

// defaultUserAgent is a plain desktop Chrome identity. Keeping it current
// matters less than keeping it boring.
const defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// Profile is the randomized browser identity presented by one automation
// session: a non-default viewport inside a realistic desktop range plus a
// declared locale and user agent. Generated fresh per session, never
// persisted.
type Profile struct {
	ViewportWidth  int
	ViewportHeight int
	Locale         string
	UserAgent      string
}

// NewProfile draws a profile from the configured ranges. Unset locale and
// user agent fall back to the defaults the target page expects to see.
func NewProfile(cfg config.BrowserConfig, rng *rand.Rand) Profile {
	p := Profile{
		ViewportWidth:  randBetween(rng, cfg.Viewport.MinWidth, cfg.Viewport.MaxWidth),
		ViewportHeight: randBetween(rng, cfg.Viewport.MinHeight, cfg.Viewport.MaxHeight),
		Locale:         cfg.Locale,
		UserAgent:      cfg.UserAgent,
	}
	if p.Locale == "" {
		p.Locale = "en-US"
	}
	if p.UserAgent == "" {
		p.UserAgent = defaultUserAgent
	}
	return p
}

func randBetween(rng *rand.Rand, min, max int) int {
	if max <= min {
		return min
	}
	return min + rng.Intn(max-min+1)
}
