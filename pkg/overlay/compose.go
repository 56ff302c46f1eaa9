package overlay

import (
	"fmt"
	"os"
	"regexp"
	"strings"
)

// Frame is the geometry of an SVG document's outer element. Two documents
// with identical frames can be stacked without registration error.
type Frame struct {
	ViewBox string
	Width   string
	Height  string
}

var (
	svgTagRe  = regexp.MustCompile(`(?s)<svg\b[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([^"]*)"`)
	widthRe   = regexp.MustCompile(`width="([^"]*)"`)
	heightRe  = regexp.MustCompile(`height="([^"]*)"`)
)

// ExtractFrame reads the viewBox, width and height attributes from a
// document's opening svg tag.
func ExtractFrame(doc string) (Frame, error) {
	tag := svgTagRe.FindString(doc)
	if tag == "" {
		return Frame{}, fmt.Errorf("no svg element found")
	}
	var f Frame
	if m := viewBoxRe.FindStringSubmatch(tag); m != nil {
		f.ViewBox = m[1]
	}
	if m := widthRe.FindStringSubmatch(tag); m != nil {
		f.Width = m[1]
	}
	if m := heightRe.FindStringSubmatch(tag); m != nil {
		f.Height = m[1]
	}
	if f.ViewBox == "" {
		return Frame{}, fmt.Errorf("svg element has no viewBox")
	}
	return f, nil
}

// ExtractFrameFile extracts the frame of an SVG file on disk.
func ExtractFrameFile(path string) (Frame, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Frame{}, fmt.Errorf("read base svg: %w", err)
	}
	f, err := ExtractFrame(string(data))
	if err != nil {
		return Frame{}, fmt.Errorf("%s: %w", path, err)
	}
	return f, nil
}

// markerElements returns the empty group elements bracketing injected
// overlay content. Elements rather than comments, so tooling that walks
// the XML tree can find them by id.
func markerElements(groupID string) (start, end string) {
	return fmt.Sprintf(`<g id="%s-contents-start"/>`, groupID),
		fmt.Sprintf(`<g id="%s-contents-end"/>`, groupID)
}

// HasOverlayMarkers reports whether the document already carries the
// overlay marker pair for the given group id.
func HasOverlayMarkers(doc, groupID string) bool {
	start, end := markerElements(groupID)
	si := strings.Index(doc, start)
	ei := strings.Index(doc, end)
	return si >= 0 && ei > si
}

// AddOverlayMarkers inserts an empty marker pair just before the closing
// svg tag. Documents that already carry the markers are returned as is.
func AddOverlayMarkers(doc, groupID string) (string, error) {
	if HasOverlayMarkers(doc, groupID) {
		return doc, nil
	}
	start, end := markerElements(groupID)
	closing := strings.LastIndex(doc, "</svg>")
	if closing < 0 {
		return "", fmt.Errorf("no closing svg tag")
	}
	return doc[:closing] + start + "\n" + end + "\n" + doc[closing:], nil
}

// ReplaceOverlayGroup swaps the content between the marker pair for the
// given overlay group markup. The replacement markup must itself carry
// the same markers, as RenderOverlayGroup's output does.
func ReplaceOverlayGroup(doc, group, groupID string) (string, error) {
	start, end := markerElements(groupID)
	si := strings.Index(doc, start)
	if si < 0 {
		return "", fmt.Errorf("marker %q not found", start)
	}
	ei := strings.Index(doc, end)
	if ei < si {
		return "", fmt.Errorf("marker %q not found after start marker", end)
	}
	return doc[:si] + group + doc[ei+len(end):], nil
}

// Composite injects the overlay group into a base document, verifying
// that the overlay was built against the same frame. A frame mismatch
// means the overlay coordinates do not register with the base drawing,
// so it is an error rather than a best-effort paste.
func Composite(baseDoc string, overlayFrame Frame, group, groupID string) (string, error) {
	baseFrame, err := ExtractFrame(baseDoc)
	if err != nil {
		return "", err
	}
	if baseFrame != overlayFrame {
		return "", fmt.Errorf("frame mismatch: base viewBox=%q width=%q height=%q, overlay viewBox=%q width=%q height=%q",
			baseFrame.ViewBox, baseFrame.Width, baseFrame.Height,
			overlayFrame.ViewBox, overlayFrame.Width, overlayFrame.Height)
	}
	doc, err := AddOverlayMarkers(baseDoc, groupID)
	if err != nil {
		return "", err
	}
	return ReplaceOverlayGroup(doc, group, groupID)
}
