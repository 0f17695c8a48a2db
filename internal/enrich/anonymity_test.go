package enrich

import (
	"testing"

	"github.com/dennis-web-tech-hub/proxy-checker/internal/model"
)

func TestDetermineAnonymity_Transparent(t *testing.T) {
	got := DetermineAnonymity(AnonymityInput{
		RealIP:     "203.0.113.7",
		ReportedIP: "203.0.113.7",
	})
	if got != model.AnonymityTransparent {
		t.Fatalf("expected transparent, got %q", got)
	}
}

func TestDetermineAnonymity_TransparentViaLeakHeader(t *testing.T) {
	got := DetermineAnonymity(AnonymityInput{
		RealIP:     "203.0.113.7",
		ReportedIP: "198.51.100.1",
		HeadersObserved: map[string]string{
			"X-Forwarded-For": "203.0.113.7, 198.51.100.1",
		},
	})
	if got != model.AnonymityTransparent {
		t.Fatalf("expected transparent, got %q", got)
	}
}

func TestDetermineAnonymity_Anonymous(t *testing.T) {
	got := DetermineAnonymity(AnonymityInput{
		RealIP:     "203.0.113.7",
		ReportedIP: "198.51.100.1",
		HeadersObserved: map[string]string{
			"Via": "1.1 squid", // announces a proxy but leaks nothing
		},
	})
	if got != model.AnonymityAnonymous {
		t.Fatalf("expected anonymous, got %q", got)
	}
}

func TestDetermineAnonymity_UnknownOnMissingInput(t *testing.T) {
	if got := DetermineAnonymity(AnonymityInput{ReportedIP: "198.51.100.1"}); got != model.AnonymityUnknown {
		t.Fatalf("expected unknown without real IP, got %q", got)
	}
	if got := DetermineAnonymity(AnonymityInput{RealIP: "203.0.113.7"}); got != model.AnonymityUnknown {
		t.Fatalf("expected unknown without reported IP, got %q", got)
	}
}

func TestFirstIPToken(t *testing.T) {
	if got := firstIPToken("1.2.3.4, 5.6.7.8"); got != "1.2.3.4" {
		t.Fatalf("got %q", got)
	}
	if got := firstIPToken(""); got != "" {
		t.Fatalf("got %q", got)
	}
}
