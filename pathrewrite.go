package mdpress

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// resolveImagePaths rewrites image src attributes to absolute file:// URLs so
// the rendering engine can embed them, resolving relative paths against the
// source file's directory. A referenced image that does not exist fails the
// conversion with an error naming both the image and the source file.
//
// Remote (http/https), data:, and file: URLs pass through untouched.
func resolveImagePaths(htmlContent, sourcePath string) (string, error) {
	sourceDir, err := filepath.Abs(filepath.Dir(sourcePath))
	if err != nil {
		return "", err
	}

	doc, isFragment, err := parseHTML(htmlContent)
	if err != nil {
		return "", err
	}

	if err := rewriteImageNodes(doc, sourceDir, sourcePath); err != nil {
		return "", err
	}

	return renderHTML(doc, isFragment)
}

// parseHTML parses HTML content, handling both full documents and fragments.
// Returns the parsed node, whether it was a fragment, and any error.
func parseHTML(content string) (*html.Node, bool, error) {
	trimmed := strings.ToLower(strings.TrimSpace(content))

	// Full document: starts with <!DOCTYPE or <html
	if strings.HasPrefix(trimmed, "<!doctype") || strings.HasPrefix(trimmed, "<html") {
		doc, err := html.Parse(strings.NewReader(content))
		return doc, false, err
	}

	// Fragment: parse with body context to avoid wrapping
	context := &html.Node{
		Type:     html.ElementNode,
		DataAtom: atom.Body,
		Data:     "body",
	}
	nodes, err := html.ParseFragment(strings.NewReader(content), context)
	if err != nil {
		return nil, true, err
	}

	container := &html.Node{Type: html.DocumentNode}
	for _, n := range nodes {
		container.AppendChild(n)
	}

	return container, true, nil
}

// renderHTML renders the document back to string.
// For fragments, only renders the children (avoids adding <html><body> wrapper).
func renderHTML(doc *html.Node, isFragment bool) (string, error) {
	var buf strings.Builder

	if isFragment {
		for c := doc.FirstChild; c != nil; c = c.NextSibling {
			if err := html.Render(&buf, c); err != nil {
				return "", err
			}
		}
		return buf.String(), nil
	}

	if err := html.Render(&buf, doc); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// rewriteImageNodes traverses the DOM rewriting img src attributes.
func rewriteImageNodes(n *html.Node, sourceDir, sourcePath string) error {
	if n.Type == html.ElementNode && n.Data == "img" {
		if err := rewriteImageSrc(n, sourceDir, sourcePath); err != nil {
			return err
		}
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if err := rewriteImageNodes(c, sourceDir, sourcePath); err != nil {
			return err
		}
	}
	return nil
}

// rewriteImageSrc resolves and validates one img element's src attribute.
func rewriteImageSrc(n *html.Node, sourceDir, sourcePath string) error {
	for i, attr := range n.Attr {
		if attr.Key != "src" || isExternalRef(attr.Val) {
			continue
		}

		imgPath := attr.Val
		if !filepath.IsAbs(imgPath) {
			imgPath = filepath.Join(sourceDir, imgPath)
		}

		if _, err := os.Stat(imgPath); err != nil {
			return fmt.Errorf("%w: %s (referenced in %s)", ErrImageNotFound, attr.Val, sourcePath)
		}

		n.Attr[i].Val = pathToFileURL(imgPath)
	}
	return nil
}

// isExternalRef returns true for references that are already resolvable by
// the engine and must not be rewritten.
func isExternalRef(ref string) bool {
	return ref == "" ||
		strings.HasPrefix(ref, "http://") ||
		strings.HasPrefix(ref, "https://") ||
		strings.HasPrefix(ref, "file://") ||
		strings.HasPrefix(ref, "data:") ||
		strings.HasPrefix(ref, "//")
}

// pathToFileURL converts an absolute path to a file:// URL.
// filepath.ToSlash handles Windows backslashes.
func pathToFileURL(absPath string) string {
	u := url.URL{
		Scheme: "file",
		Path:   filepath.ToSlash(absPath),
	}
	return u.String()
}
