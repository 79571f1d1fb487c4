package scan

import (
	"strings"

	"github.com/synnbad/fixbot/internal/model"
	"golang.org/x/net/html"
)

// CollectFacts parses page HTML and flattens it into the DOM facts the
// analyzers and the CMS detector consume: images and headings in document
// order (1-based indices) plus the raw CMS signals.
func CollectFacts(htmlContent string) (*model.PageFacts, error) {
	doc, err := html.Parse(strings.NewReader(htmlContent))
	if err != nil {
		return nil, err
	}

	facts := &model.PageFacts{}
	imageIndex := 0
	headingIndex := 0

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "script", "style", "noscript", "template":
				return

			case "img":
				imageIndex++
				alt, hasAlt := attr(n, "alt")
				facts.Images = append(facts.Images, model.ImageElement{
					Src:    attrValue(n, "src"),
					Alt:    alt,
					HasAlt: hasAlt,
					Index:  imageIndex,
				})

			case "h1", "h2", "h3", "h4", "h5", "h6":
				headingIndex++
				level := int(n.Data[1] - '0')
				facts.Headings = append(facts.Headings, model.HeadingElement{
					Level:   level,
					Text:    strings.TrimSpace(textContent(n)),
					TagName: "H" + n.Data[1:],
					Index:   headingIndex,
				})

			case "meta":
				if strings.EqualFold(attrValue(n, "name"), "generator") {
					facts.CMS.Generator = attrValue(n, "content")
				}

			case "body":
				class := attrValue(n, "class")
				if strings.Contains(class, "wp-") {
					facts.CMS.HasWordPressMarkers = true
				}
				if strings.Contains(strings.ToLower(class), "drupal") {
					facts.CMS.HasDrupalMarkers = true
				}
			}

			if strings.Contains(attrValue(n, "class"), "wp-block-") {
				facts.CMS.HasWordPressMarkers = true
			}
			if _, ok := attr(n, "data-drupal-selector"); ok {
				facts.CMS.HasDrupalMarkers = true
			}
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	return facts, nil
}

// attr returns the attribute value and whether the attribute is present
func attr(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

func attrValue(n *html.Node, key string) string {
	v, _ := attr(n, key)
	return v
}

// textContent concatenates all descendant text nodes
func textContent(n *html.Node) string {
	var buf strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			buf.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return buf.String()
}
