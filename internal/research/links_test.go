package research

import (
	"errors"
	"net/url"
	"testing"
)

func byName(t *testing.T, links []Shortcut) map[string]string {
	t.Helper()
	out := make(map[string]string, len(links))
	for _, l := range links {
		out[l.Name] = l.URL
	}
	return out
}

func TestShortcutsKeywordOnly(t *testing.T) {
	links, err := Shortcuts(Query{Keyword: "  silicone baking mat "})
	if err != nil {
		t.Fatalf("Shortcuts failed: %v", err)
	}
	if len(links) != 4 {
		t.Fatalf("expected 4 keyword links, got %d", len(links))
	}
	got := byName(t, links)

	if got["amazon_search"] != "https://www.amazon.com/s?k=silicone+baking+mat" {
		t.Errorf("unexpected search url %s", got["amazon_search"])
	}
	if _, ok := got["amazon_product"]; ok {
		t.Error("expected no product link without an asin")
	}

	u, err := url.Parse(got["google_trends"])
	if err != nil {
		t.Fatal(err)
	}
	if u.Host != "trends.google.com" || u.Query().Get("q") != "silicone baking mat" || u.Query().Get("geo") != "US" {
		t.Errorf("unexpected trends url %s", got["google_trends"])
	}
}

func TestShortcutsWithASINAndMarketplace(t *testing.T) {
	links, err := Shortcuts(Query{Keyword: "yoga mat", ASIN: "b07xyz1234", Marketplace: "CO.UK"})
	if err != nil {
		t.Fatalf("Shortcuts failed: %v", err)
	}
	got := byName(t, links)
	if got["amazon_product"] != "https://www.amazon.co.uk/dp/B07XYZ1234" {
		t.Errorf("unexpected product url %s", got["amazon_product"])
	}
	if got["amazon_search"] != "https://www.amazon.co.uk/s?k=yoga+mat" {
		t.Errorf("unexpected search url %s", got["amazon_search"])
	}

	u, err := url.Parse(got["keyword_research"])
	if err != nil {
		t.Fatal(err)
	}
	if u.Query().Get("mid") != "A1F83G8C2ARO7P" {
		t.Errorf("expected the co.uk marketplace id, got %s", got["keyword_research"])
	}
}

func TestLookupMarketplace(t *testing.T) {
	mp, err := LookupMarketplace("")
	if err != nil || mp.ID != "ATVPDKIKX0DER" {
		t.Errorf("expected com default, got %+v %v", mp, err)
	}
	mp, err = LookupMarketplace(" DE ")
	if err != nil || mp.Host != "www.amazon.de" {
		t.Errorf("expected de, got %+v %v", mp, err)
	}
	if _, err := LookupMarketplace("moon"); !errors.Is(err, ErrUnknownMarketplace) {
		t.Errorf("expected ErrUnknownMarketplace, got %v", err)
	}
}

func TestShortcutsASINOnly(t *testing.T) {
	links, err := Shortcuts(Query{ASIN: "B000TEST01"})
	if err != nil {
		t.Fatalf("Shortcuts failed: %v", err)
	}
	if len(links) != 1 || links[0].Name != "amazon_product" {
		t.Errorf("expected only the product link, got %+v", links)
	}
}

func TestShortcutsErrors(t *testing.T) {
	if _, err := Shortcuts(Query{Keyword: "   "}); !errors.Is(err, ErrEmptyQuery) {
		t.Errorf("expected ErrEmptyQuery, got %v", err)
	}
	if _, err := Shortcuts(Query{Keyword: "mat", Marketplace: "xx"}); !errors.Is(err, ErrUnknownMarketplace) {
		t.Errorf("expected ErrUnknownMarketplace, got %v", err)
	}
}

func TestShortcutsEscapeKeyword(t *testing.T) {
	links, err := Shortcuts(Query{Keyword: "cups & saucers"})
	if err != nil {
		t.Fatalf("Shortcuts failed: %v", err)
	}
	got := byName(t, links)
	u, _ := url.Parse(got["alibaba_suppliers"])
	if u.Query().Get("SearchText") != "cups & saucers" {
		t.Errorf("keyword not round-tripped: %s", got["alibaba_suppliers"])
	}
}
