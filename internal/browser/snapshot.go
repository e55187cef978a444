package browser

import (
	"strings"

	"golang.org/x/net/html"
)

// PageSnapshot is a one-shot view of a rendered page: the current URL plus
// the title text, visible body text, and the element id/class inventory
// pulled from the document markup. The challenge detector classifies
// snapshots; it never touches the live page directly.
type PageSnapshot struct {
	URL      string
	Title    string
	BodyText string

	ids     map[string]struct{}
	classes map[string]struct{}
}

func (p PageSnapshot) HasID(id string) bool {
	_, ok := p.ids[id]
	return ok
}

func (p PageSnapshot) HasClass(class string) bool {
	_, ok := p.classes[class]
	return ok
}

// ParseSnapshot builds a snapshot from raw document markup. Parse errors
// yield an empty (but usable) snapshot; the detector treats an unreadable
// page the same as one with no signals.
func ParseSnapshot(rawURL, src string) PageSnapshot {
	snap := PageSnapshot{
		URL:     rawURL,
		ids:     make(map[string]struct{}),
		classes: make(map[string]struct{}),
	}

	doc, err := html.Parse(strings.NewReader(src))
	if err != nil {
		return snap
	}

	var title, body strings.Builder
	var walk func(n *html.Node, inTitle, inBody bool)
	walk = func(n *html.Node, inTitle, inBody bool) {
		switch n.Type {
		case html.ElementNode:
			switch n.Data {
			case "script", "style", "noscript":
				return
			case "title":
				inTitle = true
			case "body":
				inBody = true
			}
			for _, attr := range n.Attr {
				switch attr.Key {
				case "id":
					if attr.Val != "" {
						snap.ids[attr.Val] = struct{}{}
					}
				case "class":
					for _, class := range strings.Fields(attr.Val) {
						snap.classes[class] = struct{}{}
					}
				}
			}
		case html.TextNode:
			if inTitle {
				title.WriteString(n.Data)
			} else if inBody {
				body.WriteString(n.Data)
				body.WriteByte(' ')
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c, inTitle, inBody)
		}
	}
	walk(doc, false, false)

	snap.Title = strings.TrimSpace(title.String())
	snap.BodyText = strings.TrimSpace(body.String())
	return snap
}
