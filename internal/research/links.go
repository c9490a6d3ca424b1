// Package research builds outbound research links for a product idea.
package research

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

var (
	ErrEmptyQuery         = errors.New("keyword or asin is required")
	ErrUnknownMarketplace = errors.New("unknown marketplace")
)

// Marketplace is one Amazon storefront. Geo is the Google Trends region and
// ID the Amazon marketplace id used by the search suggestion API.
type Marketplace struct {
	Host string
	Geo  string
	ID   string
}

// Marketplaces maps a marketplace code to its storefront.
var Marketplaces = map[string]Marketplace{
	"com":    {Host: "www.amazon.com", Geo: "US", ID: "ATVPDKIKX0DER"},
	"ca":     {Host: "www.amazon.ca", Geo: "CA", ID: "A2EUQ1WTGCTBG2"},
	"co.uk":  {Host: "www.amazon.co.uk", Geo: "GB", ID: "A1F83G8C2ARO7P"},
	"de":     {Host: "www.amazon.de", Geo: "DE", ID: "A1PA6795UKMFR9"},
	"fr":     {Host: "www.amazon.fr", Geo: "FR", ID: "A13V1IB3VIYZZH"},
	"es":     {Host: "www.amazon.es", Geo: "ES", ID: "A1RKKUPIHCS9HS"},
	"it":     {Host: "www.amazon.it", Geo: "IT", ID: "APJ6JRA9NG5V4"},
	"com.au": {Host: "www.amazon.com.au", Geo: "AU", ID: "A39IBJ37TRP1C6"},
	"co.jp":  {Host: "www.amazon.co.jp", Geo: "JP", ID: "A1VC38T7YXB528"},
}

// LookupMarketplace resolves a code case-insensitively. An empty code
// means "com".
func LookupMarketplace(code string) (Marketplace, error) {
	c := strings.ToLower(strings.TrimSpace(code))
	if c == "" {
		c = "com"
	}
	mp, ok := Marketplaces[c]
	if !ok {
		return Marketplace{}, fmt.Errorf("%w: %q", ErrUnknownMarketplace, code)
	}
	return mp, nil
}

type Shortcut struct {
	Name  string `json:"name"`
	Label string `json:"label"`
	URL   string `json:"url"`
}

type Query struct {
	Keyword     string `json:"keyword"`
	ASIN        string `json:"asin,omitempty"`
	Marketplace string `json:"marketplace,omitempty"`
}

// Shortcuts returns the research links for q in a stable order. An empty
// marketplace means "com". The product page link is only included when an
// ASIN is known; keyword links need a keyword.
func Shortcuts(q Query) ([]Shortcut, error) {
	keyword := strings.TrimSpace(q.Keyword)
	asin := strings.ToUpper(strings.TrimSpace(q.ASIN))
	if keyword == "" && asin == "" {
		return nil, ErrEmptyQuery
	}

	mp, err := LookupMarketplace(q.Marketplace)
	if err != nil {
		return nil, err
	}

	var out []Shortcut
	if keyword != "" {
		out = append(out,
			Shortcut{
				Name:  "amazon_search",
				Label: "Amazon search results",
				URL:   buildURL(mp.Host, "/s", url.Values{"k": {keyword}}),
			},
			Shortcut{
				Name:  "google_trends",
				Label: "Google Trends interest",
				URL:   buildURL("trends.google.com", "/trends/explore", url.Values{"q": {keyword}, "geo": {mp.Geo}}),
			},
			Shortcut{
				Name:  "keyword_research",
				Label: "Amazon search suggestions",
				URL: buildURL("completion.amazon.com", "/api/2017/suggestions",
					url.Values{"prefix": {keyword}, "alias": {"aps"}, "mid": {mp.ID}}),
			},
			Shortcut{
				Name:  "alibaba_suppliers",
				Label: "Alibaba supplier search",
				URL:   buildURL("www.alibaba.com", "/trade/search", url.Values{"SearchText": {keyword}}),
			},
		)
	}
	if asin != "" {
		out = append(out, Shortcut{
			Name:  "amazon_product",
			Label: "Amazon product page",
			URL:   buildURL(mp.Host, "/dp/"+url.PathEscape(asin), nil),
		})
	}
	return out, nil
}

func buildURL(host, path string, query url.Values) string {
	u := url.URL{Scheme: "https", Host: host, Path: path}
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}
	return u.String()
}
