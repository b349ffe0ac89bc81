package addons

import (
	"io"
	"strings"

	"golang.org/x/net/html"
)

const siteBase = "https://kubejs.com"

// ParseAddonsPage extracts addon links from the wiki's addons page.
//
// An addon link is an <a href> inside <main> whose href contains
// "/wiki/addons/" and whose text is non-empty. Relative hrefs are
// absolutized against kubejs.com. Order follows document order.
func ParseAddonsPage(r io.Reader) ([]Addon, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, err
	}

	var addons []Addon
	var walk func(n *html.Node, inMain bool)
	walk = func(n *html.Node, inMain bool) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "main":
				inMain = true
			case "a":
				if inMain {
					if a, ok := addonLink(n); ok {
						addons = append(addons, a)
					}
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c, inMain)
		}
	}
	walk(doc, false)
	return addons, nil
}

func addonLink(n *html.Node) (Addon, bool) {
	var href string
	for _, attr := range n.Attr {
		if attr.Key == "href" {
			href = attr.Val
			break
		}
	}
	name := strings.TrimSpace(nodeText(n))
	if href == "" || name == "" || !strings.Contains(href, "/wiki/addons/") {
		return Addon{}, false
	}
	if strings.HasPrefix(href, "/") {
		href = siteBase + href
	}
	return Addon{Name: name, URL: href}, true
}

func nodeText(n *html.Node) string {
	var sb strings.Builder
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return sb.String()
}
