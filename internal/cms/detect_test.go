package cms

import (
	"testing"

	"github.com/synnbad/fixbot/internal/model"
)

func TestDetector_GeneratorMeta(t *testing.T) {
	detector := NewDetector()

	tests := []struct {
		name      string
		generator string
		platform  model.Platform
	}{
		{"wordpress", "WordPress 6.4.2", model.PlatformWordPress},
		{"drupal", "Drupal 10 (https://www.drupal.org)", model.PlatformDrupal},
		{"umbraco", "umbraco", model.PlatformUmbraco},
		{"case insensitive", "WORDPRESS", model.PlatformWordPress},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info := detector.Detect(model.CMSSignals{Generator: tt.generator})
			if info.Platform != tt.platform {
				t.Errorf("Expected platform %s, got %s", tt.platform, info.Platform)
			}
			if info.Confidence != model.ConfidenceHigh {
				t.Errorf("Expected high confidence, got %s", info.Confidence)
			}
		})
	}
}

func TestDetector_GeneratorBeatsMarkers(t *testing.T) {
	detector := NewDetector()

	// Generator naming Drupal wins over WordPress body markers
	info := detector.Detect(model.CMSSignals{
		Generator:           "Drupal 10",
		HasWordPressMarkers: true,
	})

	if info.Platform != model.PlatformDrupal {
		t.Errorf("Expected drupal, got %s", info.Platform)
	}
	if info.Confidence != model.ConfidenceHigh {
		t.Errorf("Expected high confidence, got %s", info.Confidence)
	}
}

func TestDetector_StructuralMarkers(t *testing.T) {
	detector := NewDetector()

	info := detector.Detect(model.CMSSignals{HasWordPressMarkers: true})
	if info.Platform != model.PlatformWordPress || info.Confidence != model.ConfidenceMedium {
		t.Errorf("Expected {wordpress, medium}, got {%s, %s}", info.Platform, info.Confidence)
	}

	info = detector.Detect(model.CMSSignals{HasDrupalMarkers: true})
	if info.Platform != model.PlatformDrupal || info.Confidence != model.ConfidenceMedium {
		t.Errorf("Expected {drupal, medium}, got {%s, %s}", info.Platform, info.Confidence)
	}

	// WordPress markers take priority over Drupal markers
	info = detector.Detect(model.CMSSignals{HasWordPressMarkers: true, HasDrupalMarkers: true})
	if info.Platform != model.PlatformWordPress {
		t.Errorf("Expected wordpress to win, got %s", info.Platform)
	}
}

func TestDetector_NoSignals(t *testing.T) {
	detector := NewDetector()

	info := detector.Detect(model.CMSSignals{})

	if info.Platform != model.PlatformUnknown {
		t.Errorf("Expected unknown platform, got %s", info.Platform)
	}
	if info.Confidence != model.ConfidenceNone {
		t.Errorf("Expected none confidence, got %s", info.Confidence)
	}
}

func TestDetector_UnrecognizedGenerator(t *testing.T) {
	detector := NewDetector()

	info := detector.Detect(model.CMSSignals{Generator: "Hugo 0.120"})

	if info.Platform != model.PlatformUnknown || info.Confidence != model.ConfidenceNone {
		t.Errorf("Expected {unknown, none}, got {%s, %s}", info.Platform, info.Confidence)
	}
}
