package recommend

import "testing"

func TestParseNumberedList(t *testing.T) {
	text := `Here are some hidden gems near you:

1. **Quiet Corner Cafe** - A tiny espresso bar tucked behind the bookshop.
2. [Riverside Walk](https://example.com/walk) - Overlooked trail along the old mill race.
3. Basement Records: Crates of vinyl under a barber shop.

Enjoy exploring!`

	places := Parse(text)
	if len(places) != 3 {
		t.Fatalf("expected 3 places, got %d: %+v", len(places), places)
	}
	if places[0].Name != "Quiet Corner Cafe" {
		t.Fatalf("bold markers not stripped: %q", places[0].Name)
	}
	if places[0].Description != "A tiny espresso bar tucked behind the bookshop." {
		t.Fatalf("unexpected description: %q", places[0].Description)
	}
	if places[1].Name != "Riverside Walk" {
		t.Fatalf("link not unwrapped: %q", places[1].Name)
	}
	if places[2].Name != "Basement Records" || places[2].Description == "" {
		t.Fatalf("colon-separated entry mishandled: %+v", places[2])
	}
}

func TestParseBulletedList(t *testing.T) {
	places := Parse("- First Spot - great\n* Second Spot - also great\n")
	if len(places) != 2 {
		t.Fatalf("expected 2 places, got %d", len(places))
	}
}

func TestParseUnparseableTextYieldsNothing(t *testing.T) {
	for _, text := range []string{"", "no list here, just prose", "{\"weird\": true}"} {
		if got := Parse(text); len(got) != 0 {
			t.Fatalf("expected no places for %q, got %+v", text, got)
		}
	}
}

func TestParseEntryWithoutDescription(t *testing.T) {
	places := Parse("1. Lone Name")
	if len(places) != 1 || places[0].Name != "Lone Name" || places[0].Description != "" {
		t.Fatalf("unexpected result: %+v", places)
	}
}

func TestExtractTextFromEnvelope(t *testing.T) {
	payload := []byte(`{"response":"1. A Place - nice"}`)
	if got := ExtractText(payload); got != "1. A Place - nice" {
		t.Fatalf("unexpected text: %q", got)
	}
}

func TestExtractTextFallsBackToRaw(t *testing.T) {
	payload := []byte("1. A Place - nice")
	if got := ExtractText(payload); got != "1. A Place - nice" {
		t.Fatalf("unexpected text: %q", got)
	}
}
