// Package browser drives a single Chrome instance through navigation,
// anti-detection setup, challenge handling and target-field extraction.
package browser

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/aquilax/go-perlin"
	"github.com/chromedp/chromedp"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/matt-mccartney/AvnetScraper/internal/browser/stealth"
	"github.com/matt-mccartney/AvnetScraper/internal/config"
)

// Outcomes absorbed into the no-value result at the session boundary. They
// exist so the log line says what actually happened.
var (
	errChallengeUnresolved = errors.New("challenge still present after the hold window")
	errContentTimeout      = errors.New("page content never became ready")
	errElementTimeout      = errors.New("target element never appeared")
	errElementEmpty        = errors.New("target element carries no extractable value")
)

// Options tunes one automated session. Zero values fall back to the bounds
// the target page has historically needed.
type Options struct {
	// ElementID is the id of the input element carrying the token seed.
	ElementID string
	// ElementTimeout bounds waits for page content and the target element.
	ElementTimeout time.Duration
	// ChallengeHold is the fixed, unconditional wait after a challenge is
	// detected, modeling a manual-intervention window.
	ChallengeHold time.Duration
	// DetectWindow bounds each challenge-detection probe cycle.
	DetectWindow time.Duration
	// Signals is the challenge-detection policy.
	Signals SignalSet
}

func (o Options) withDefaults() Options {
	if o.ElementID == "" {
		o.ElementID = "randomVal"
	}
	if o.ElementTimeout <= 0 {
		o.ElementTimeout = 20 * time.Second
	}
	if o.ChallengeHold <= 0 {
		o.ChallengeHold = 60 * time.Second
	}
	if o.DetectWindow <= 0 {
		o.DetectWindow = 5 * time.Second
	}
	if o.Signals.empty() {
		o.Signals = DefaultSignals()
	}
	return o
}

func (s SignalSet) empty() bool {
	return len(s.TitlePhrases) == 0 && len(s.BodyPhrases) == 0 &&
		len(s.ContainerIDs) == 0 && len(s.WidgetClasses) == 0 &&
		len(s.URLFragments) == 0
}

// Session owns one browser-automation instance. Sessions are single-use and
// not safe for concurrent use: one acquisition drives one session, then
// closes it. Callers needing parallel acquisition must serialize externally.
type Session struct {
	id       string
	profile  Profile
	opts     Options
	log      *zap.Logger
	rng      *rand.Rand
	noise    *perlin.Perlin
	detector *Detector

	lastScroll float64

	allocCancel   context.CancelFunc
	browserCtx    context.Context
	browserCancel context.CancelFunc
	closeOnce     sync.Once
}

// NewSession launches a stealth-configured browser. The fingerprint profile
// is drawn once here and presented for the session's whole lifetime. A
// browser that cannot start fails construction; nothing is retried.
func NewSession(ctx context.Context, cfg config.BrowserConfig, opts Options, logger *zap.Logger) (*Session, error) {
	seed := time.Now().UnixNano()
	rng := rand.New(rand.NewSource(seed))
	profile := NewProfile(cfg, rng)

	s := &Session{
		id:      uuid.NewString(),
		profile: profile,
		opts:    opts.withDefaults(),
		rng:     rng,
		noise:   perlin.NewPerlin(2, 2, 3, seed),
	}
	s.log = logger.Named("session").With(zap.String("session_id", s.id))
	s.detector = NewDetector(s.opts.Signals, s.opts.DetectWindow, s.log)

	allocOpts := stealth.AllocatorOptions(
		profile.UserAgent, profile.Locale,
		profile.ViewportWidth, profile.ViewportHeight,
		cfg.Headless,
	)
	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, allocOpts...)
	s.allocCancel = allocCancel
	s.browserCtx, s.browserCancel = chromedp.NewContext(allocCtx,
		chromedp.WithLogf(s.log.Sugar().Debugf),
	)

	// Start the browser and register the navigator patches up front: a
	// missing Chrome binary should fail construction, not extraction.
	if err := chromedp.Run(s.browserCtx, stealth.Prime(profile.UserAgent, profile.Locale)); err != nil {
		s.Close()
		return nil, fmt.Errorf("starting browser: %w", err)
	}

	s.log.Info("Automated session ready",
		zap.Int("viewport_width", profile.ViewportWidth),
		zap.Int("viewport_height", profile.ViewportHeight),
		zap.String("locale", profile.Locale),
		zap.Bool("headless", cfg.Headless),
	)
	return s, nil
}

// Profile returns the fingerprint drawn for this session.
func (s *Session) Profile() Profile {
	return s.profile
}

// ExtractValue navigates to the target page and reads the token seed from
// the well-known input element. The second return is false when no value
// could be obtained; automation failures never propagate past this boundary.
func (s *Session) ExtractValue(ctx context.Context, targetURL string) (string, bool) {
	value, err := s.extract(ctx, targetURL)
	if err != nil {
		s.log.Warn("Extraction attempt failed",
			zap.String("url", targetURL),
			zap.Error(err),
		)
		return "", false
	}
	return value, true
}

func (s *Session) extract(ctx context.Context, targetURL string) (string, error) {
	s.log.Info("Navigating to target page", zap.String("url", targetURL))
	if err := s.run(ctx, 0, chromedp.Navigate(targetURL)); err != nil {
		return "", fmt.Errorf("navigating: %w", err)
	}

	// Reading delay before any interaction; landing on a page and touching
	// the DOM in the same instant is a strong behavioral tell.
	if err := pauseBetween(ctx, s.rng, 2500*time.Millisecond, 4500*time.Millisecond); err != nil {
		return "", err
	}

	if err := resolveChallenge(ctx, s.detector, s.snapshot, s.opts.ChallengeHold, hesitate, s.log); err != nil {
		return "", err
	}

	if err := s.waitReady(ctx, "body"); err != nil {
		return "", fmt.Errorf("%w: %v", errContentTimeout, err)
	}

	if err := s.simulateReading(ctx); err != nil {
		return "", err
	}

	sel := "#" + s.opts.ElementID
	s.log.Debug("Locating target element", zap.String("selector", sel))
	if err := s.waitReady(ctx, sel); err != nil {
		return "", fmt.Errorf("%w: %v", errElementTimeout, err)
	}

	var current, placeholder, dataValue string
	if err := s.run(ctx, s.opts.ElementTimeout,
		chromedp.Value(sel, &current, chromedp.ByQuery),
		chromedp.AttributeValue(sel, "placeholder", &placeholder, nil, chromedp.ByQuery),
		chromedp.AttributeValue(sel, "data-value", &dataValue, nil, chromedp.ByQuery),
	); err != nil {
		return "", fmt.Errorf("reading element attributes: %w", err)
	}

	value := firstNonEmpty(current, placeholder, dataValue)
	if value == "" {
		return "", errElementEmpty
	}
	return value, nil
}

// resolveChallenge applies the bounded challenge policy: detect, hold once
// for the fixed intervention window, re-detect once. Still challenged after
// that means unresolved; there is no further looping. The sleep function is
// injected so the policy is testable without the hold.
func resolveChallenge(
	ctx context.Context,
	det *Detector,
	snap SnapshotFunc,
	hold time.Duration,
	sleep func(context.Context, time.Duration) error,
	log *zap.Logger,
) error {
	if det.Detect(ctx, snap) != Challenged {
		return nil
	}

	log.Warn("Challenge interstitial detected, holding for the intervention window",
		zap.Duration("hold", hold))
	if err := sleep(ctx, hold); err != nil {
		return err
	}

	if det.Detect(ctx, snap) == Challenged {
		return errChallengeUnresolved
	}
	log.Info("Challenge appears resolved, continuing")
	return nil
}

// simulateReading models a human skimming the page before the extraction:
// a few idle pauses, a scroll down, a scroll back to the top.
func (s *Session) simulateReading(ctx context.Context) error {
	for i := 0; i < 3; i++ {
		if err := pauseBetween(ctx, s.rng, 500*time.Millisecond, 1500*time.Millisecond); err != nil {
			return err
		}
	}
	if err := s.scrollTo(ctx, 300); err != nil {
		return err
	}
	if err := pauseBetween(ctx, s.rng, time.Second, 2*time.Second); err != nil {
		return err
	}
	if err := s.scrollTo(ctx, 0); err != nil {
		return err
	}
	return pauseBetween(ctx, s.rng, 500*time.Millisecond, time.Second)
}

func (s *Session) scrollTo(ctx context.Context, target float64) error {
	for _, offset := range scrollPlan(s.noise, s.lastScroll, target, 8) {
		script := fmt.Sprintf("window.scrollTo(0, %.0f);", offset)
		if err := s.run(ctx, 0, chromedp.Evaluate(script, nil)); err != nil {
			return fmt.Errorf("scrolling: %w", err)
		}
		if err := hesitate(ctx, time.Duration(20+s.rng.Intn(40))*time.Millisecond); err != nil {
			return err
		}
	}
	s.lastScroll = target
	return nil
}

// snapshot captures the current URL and document markup for one detector
// probe.
func (s *Session) snapshot(ctx context.Context) (PageSnapshot, error) {
	var rawURL, rawHTML string
	if err := s.run(ctx, s.opts.DetectWindow,
		chromedp.Location(&rawURL),
		chromedp.OuterHTML("html", &rawHTML, chromedp.ByQuery),
	); err != nil {
		return PageSnapshot{}, err
	}
	return ParseSnapshot(rawURL, rawHTML), nil
}

// waitReady blocks until the selector resolves, bounded by ElementTimeout.
func (s *Session) waitReady(ctx context.Context, sel string) error {
	return s.run(ctx, s.opts.ElementTimeout, chromedp.WaitReady(sel, chromedp.ByQuery))
}

// run executes chromedp actions against the session's browser context,
// bounded by the given timeout (if any) and the caller's context.
func (s *Session) run(ctx context.Context, timeout time.Duration, actions ...chromedp.Action) error {
	runCtx, cancel := context.WithCancel(s.browserCtx)
	defer cancel()
	if timeout > 0 {
		var tcancel context.CancelFunc
		runCtx, tcancel = context.WithTimeout(runCtx, timeout)
		defer tcancel()
	}
	stop := context.AfterFunc(ctx, cancel)
	defer stop()
	return chromedp.Run(runCtx, actions...)
}

// Close releases the browser instance. It is idempotent and safe to call on
// every exit path.
func (s *Session) Close() {
	s.closeOnce.Do(func() {
		if s.browserCancel != nil {
			s.browserCancel()
		}
		if s.allocCancel != nil {
			s.allocCancel()
		}
		s.log.Info("Browser session closed")
	})
}

// firstNonEmpty implements the extraction fallback order: the element's
// current value wins, then its placeholder, then the designated data
// attribute.
func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
