package browser

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Verdict is the challenge detector's classification of a loaded page.
type Verdict int

const (
	// Probing means no terminal classification has been reached yet.
	Probing Verdict = iota
	// Clear means no challenge signal fired before the wait window elapsed.
	Clear
	// Challenged means at least one interstitial signal fired.
	Challenged
)

func (v Verdict) String() string {
	switch v {
	case Clear:
		return "clear"
	case Challenged:
		return "challenged"
	default:
		return "probing"
	}
}

// SignalSet is the swappable anti-bot detection policy: the phrases, markers
// and URL fragments that identify a challenge interstitial. The lists are a
// best-effort snapshot of an unversioned external page, expected to be
// updated from config without touching the acquisition state machine.
type SignalSet struct {
	TitlePhrases  []string
	BodyPhrases   []string
	ContainerIDs  []string
	WidgetClasses []string
	URLFragments  []string
}

// DefaultSignals covers the interstitials observed on the target storefront:
// Cloudflare's waiting room, generic access-denied pages and reCAPTCHA.
func DefaultSignals() SignalSet {
	return SignalSet{
		TitlePhrases: []string{"Just a moment..."},
		BodyPhrases: []string{
			"Access Denied",
			"Verify you are human",
			"Please wait...",
			"Checking your browser",
		},
		ContainerIDs:  []string{"cf-browser-verification"},
		WidgetClasses: []string{"g-recaptcha"},
		URLFragments:  []string{"cdn-cgi", "challenge", "captcha"},
	}
}

// SnapshotFunc produces a fresh view of the current page for one probe.
type SnapshotFunc func(ctx context.Context) (PageSnapshot, error)

// Detector classifies pages as clear or challenged. It starts every run in
// the probing state and always terminates in Clear or Challenged within the
// configured window.
type Detector struct {
	signals  SignalSet
	window   time.Duration
	interval time.Duration
	log      *zap.Logger
}

func NewDetector(signals SignalSet, window time.Duration, logger *zap.Logger) *Detector {
	return &Detector{
		signals:  signals,
		window:   window,
		interval: 500 * time.Millisecond,
		log:      logger.Named("challenge_detector"),
	}
}

// Detect probes the page until a signal fires or the window elapses. Absence
// of evidence is treated as clearance: a slow-loading clear page and a
// resolved challenge are indistinguishable under this policy, and that
// ambiguity is accepted rather than guessed at.
func (d *Detector) Detect(ctx context.Context, snap SnapshotFunc) Verdict {
	deadline := time.Now().Add(d.window)
	for {
		page, err := snap(ctx)
		if err != nil {
			d.log.Debug("Page snapshot failed during challenge probe", zap.Error(err))
		} else if d.Classify(page) == Challenged {
			d.log.Warn("Challenge signal detected",
				zap.String("url", page.URL),
				zap.String("title", page.Title),
			)
			return Challenged
		}

		if time.Now().After(deadline) {
			d.log.Debug("No challenge signal within the wait window, treating page as clear")
			return Clear
		}
		select {
		case <-ctx.Done():
			return Clear
		case <-time.After(d.interval):
		}
	}
}

// Classify applies the signal set to a single snapshot. The URL check is
// independent of the content signals: a challenge-path fragment classifies
// the page even when nothing in the markup fired.
func (d *Detector) Classify(page PageSnapshot) Verdict {
	lowerURL := strings.ToLower(page.URL)
	for _, frag := range d.signals.URLFragments {
		if strings.Contains(lowerURL, frag) {
			return Challenged
		}
	}
	for _, phrase := range d.signals.TitlePhrases {
		if strings.Contains(page.Title, phrase) {
			return Challenged
		}
	}
	for _, phrase := range d.signals.BodyPhrases {
		if strings.Contains(page.BodyText, phrase) {
			return Challenged
		}
	}
	for _, id := range d.signals.ContainerIDs {
		if page.HasID(id) {
			return Challenged
		}
	}
	for _, class := range d.signals.WidgetClasses {
		if page.HasClass(class) {
			return Challenged
		}
	}
	return Clear
}
