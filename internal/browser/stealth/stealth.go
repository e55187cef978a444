// Package stealth holds the anti-detection policy applied to every automated
// session: browser launch flags that suppress the automation markers Chrome
// would otherwise expose, plus navigator patches injected into each new
// document. The policy is deliberately separate from the acquisition state
// machine so the flag and patch lists can evolve with the target page.
package stealth

import (
	"context"

	_ "embed"

	"github.com/chromedp/cdproto/emulation"
	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
)

// PatchesJS is the embedded script that normalizes the runtime properties
// (navigator.webdriver, plugin and language lists) bot checks inspect.
//
//go:embed patches.js
var PatchesJS string

// AllocatorOptions builds the launch flags for an automation-hardened Chrome
// instance with the given declared identity.
func AllocatorOptions(userAgent, locale string, width, height int, headless bool) []chromedp.ExecAllocatorOption {
	opts := append([]chromedp.ExecAllocatorOption{}, chromedp.DefaultExecAllocatorOptions[:]...)

	opts = append(opts,
		chromedp.UserAgent(userAgent),
		chromedp.WindowSize(width, height),

		// The two flags that matter most: without them Chrome announces the
		// automation up front (infobar, navigator.webdriver).
		chromedp.Flag("enable-automation", false),
		chromedp.Flag("disable-blink-features", "AutomationControlled"),

		chromedp.Flag("lang", locale),

		// Background services produce traffic and first-run UI a real,
		// settled profile would not.
		chromedp.Flag("disable-background-networking", true),
		chromedp.Flag("disable-client-side-phishing-detection", true),
		chromedp.Flag("disable-component-update", true),
		chromedp.Flag("disable-default-apps", true),
		chromedp.Flag("disable-extensions", true),
		chromedp.Flag("disable-hang-monitor", true),
		chromedp.Flag("disable-sync", true),
		chromedp.Flag("no-first-run", true),
	)

	if headless {
		opts = append(opts, chromedp.Flag("disable-gpu", true))
	} else {
		// DefaultExecAllocatorOptions enables headless mode; turn it back off.
		opts = append(opts, chromedp.Flag("headless", false))
	}
	return opts
}

// Prime returns the actions that prepare a fresh browser context: navigator
// patches registered for every new document, and the user-agent override with
// a matching Accept-Language.
func Prime(userAgent, locale string) chromedp.Tasks {
	return chromedp.Tasks{
		chromedp.ActionFunc(func(ctx context.Context) error {
			_, err := page.AddScriptToEvaluateOnNewDocument(PatchesJS).Do(ctx)
			return err
		}),
		emulation.SetUserAgentOverride(userAgent).WithAcceptLanguage(locale + ",en;q=0.9"),
	}
}
