// Package cms maps raw page signals to a platform guess. Detection is a
// fixed priority-ordered rule list; the first matching rule wins and the
// detector always returns a value.
package cms

import (
	"strings"

	"github.com/synnbad/fixbot/internal/model"
)

// Detector classifies CMS signals into a {platform, confidence} pair
type Detector struct {
	rules []rule
}

type rule struct {
	name  string
	match func(model.CMSSignals) (model.CMSInfo, bool)
}

// NewDetector creates a detector with the standard rule set
func NewDetector() *Detector {
	return &Detector{
		rules: []rule{
			{name: "generator-meta", match: matchGenerator},
			{name: "wordpress-markers", match: matchWordPressMarkers},
			{name: "drupal-markers", match: matchDrupalMarkers},
		},
	}
}

// Detect evaluates the rules in priority order. Signals that were not
// gathered (empty generator, false markers) simply fail to match; there
// is no error path.
func (d *Detector) Detect(signals model.CMSSignals) model.CMSInfo {
	for _, r := range d.rules {
		if info, ok := r.match(signals); ok {
			return info
		}
	}
	return model.CMSInfo{Platform: model.PlatformUnknown, Confidence: model.ConfidenceNone}
}

func matchGenerator(s model.CMSSignals) (model.CMSInfo, bool) {
	gen := strings.ToLower(s.Generator)
	if gen == "" {
		return model.CMSInfo{}, false
	}
	for _, p := range []model.Platform{model.PlatformWordPress, model.PlatformDrupal, model.PlatformUmbraco} {
		if strings.Contains(gen, string(p)) {
			return model.CMSInfo{Platform: p, Confidence: model.ConfidenceHigh}, true
		}
	}
	return model.CMSInfo{}, false
}

func matchWordPressMarkers(s model.CMSSignals) (model.CMSInfo, bool) {
	if s.HasWordPressMarkers {
		return model.CMSInfo{Platform: model.PlatformWordPress, Confidence: model.ConfidenceMedium}, true
	}
	return model.CMSInfo{}, false
}

func matchDrupalMarkers(s model.CMSSignals) (model.CMSInfo, bool) {
	if s.HasDrupalMarkers {
		return model.CMSInfo{Platform: model.PlatformDrupal, Confidence: model.ConfidenceMedium}, true
	}
	return model.CMSInfo{}, false
}
