package scraper

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/dealscope/dealscope/internal/models"
)

// ParseDocument parses an already-fetched page body as HTML.
func ParseDocument(body []byte) (*goquery.Document, error) {
	return goquery.NewDocumentFromReader(bytes.NewReader(body))
}

// vehicleTypes are the schema.org @type values that describe a vehicle
// listing. Product is included because several marketplaces publish their
// listings as plain Product offers.
var vehicleTypes = map[string]bool{
	"Vehicle":    true,
	"Car":        true,
	"Motorcycle": true,
	"Product":    true,
}

// FindVehicleLD scans the page's ld+json blocks for the first object
// describing a vehicle and returns it.
func FindVehicleLD(doc *goquery.Document) (map[string]any, bool) {
	var found map[string]any

	doc.Find(`script[type="application/ld+json"]`).EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		var payload any
		if err := json.Unmarshal([]byte(sel.Text()), &payload); err != nil {
			return true // malformed block, keep scanning
		}
		if m, ok := matchVehicleNode(payload); ok {
			found = m
			return false
		}
		return true
	})

	return found, found != nil
}

func matchVehicleNode(node any) (map[string]any, bool) {
	switch v := node.(type) {
	case map[string]any:
		if t, _ := v["@type"].(string); vehicleTypes[t] {
			return v, true
		}
		if graph, ok := v["@graph"]; ok {
			return matchVehicleNode(graph)
		}
	case []any:
		for _, item := range v {
			if m, ok := matchVehicleNode(item); ok {
				return m, true
			}
		}
	}
	return nil, false
}

// ExtractVehicleLD maps a schema.org vehicle object onto a RawListing.
// Fields the object does not carry stay empty; the normalizer fills the
// defaults.
func ExtractVehicleLD(ld map[string]any, platform, rawURL string) *models.RawListing {
	raw := &models.RawListing{
		Platform:   platform,
		URL:        rawURL,
		Title:      ldString(ld, "name"),
		Make:       ldString(ldChild(ld, "brand"), "name"),
		Model:      ldStringOf(ld["model"]),
		Year:       firstNonEmpty(ldString(ld, "vehicleModelDate"), ldString(ld, "productionDate"), ldString(ld, "modelDate")),
		Condition:  conditionFromLD(ld),
		FuelType:   ldStringOf(ld["fuelType"]),
		Location:   ldString(ldChild(ld, "availableAtOrFrom"), "name"),
		Attributes: map[string]string{},
	}

	if odo := ldChild(ld, "mileageFromOdometer"); odo != nil {
		raw.Mileage = ldString(odo, "value")
		raw.MileageKm = strings.EqualFold(ldString(odo, "unitCode"), "KMT")
	}
	if engine := ldChild(ld, "vehicleEngine"); engine != nil {
		if disp := ldChild(engine, "engineDisplacement"); disp != nil {
			raw.EngineSize = ldString(disp, "value")
		}
		raw.Cylinders = ldString(engine, "cylinder")
		if raw.FuelType == "" {
			raw.FuelType = ldStringOf(engine["fuelType"])
		}
	}
	if offers := ldChild(ld, "offers"); offers != nil {
		raw.Price = ldString(offers, "price")
		raw.Currency = ldString(offers, "priceCurrency")
		if raw.Condition == "" {
			raw.Condition = schemaCondition(ldString(offers, "itemCondition"))
		}
	}
	raw.ImageURLs = ldImages(ld["image"])

	return raw
}

// MetaContent returns the content attribute of a <meta property=...> or
// <meta name=...> tag, og: tags included.
func MetaContent(doc *goquery.Document, key string) string {
	sel := doc.Find(fmt.Sprintf(`meta[property=%q]`, key))
	if sel.Length() == 0 {
		sel = doc.Find(fmt.Sprintf(`meta[name=%q]`, key))
	}
	content, _ := sel.First().Attr("content")
	return strings.TrimSpace(content)
}

// SelectorText returns the trimmed text of the first node matching the
// selector.
func SelectorText(doc *goquery.Document, selector string) string {
	return strings.TrimSpace(doc.Find(selector).First().Text())
}

func conditionFromLD(ld map[string]any) string {
	if cond := ldString(ld, "itemCondition"); cond != "" {
		return schemaCondition(cond)
	}
	return ""
}

// schemaCondition strips the schema.org URL prefix from condition values
// like "https://schema.org/UsedCondition".
func schemaCondition(v string) string {
	v = strings.TrimSuffix(v[strings.LastIndex(v, "/")+1:], "Condition")
	switch strings.ToLower(v) {
	case "new":
		return "New"
	case "used":
		return "Good"
	case "refurbished":
		return "Excellent"
	case "damaged":
		return "Poor"
	default:
		return v
	}
}

func ldChild(m map[string]any, key string) map[string]any {
	if m == nil {
		return nil
	}
	switch v := m[key].(type) {
	case map[string]any:
		return v
	case []any:
		if len(v) > 0 {
			if child, ok := v[0].(map[string]any); ok {
				return child
			}
		}
	}
	return nil
}

func ldString(m map[string]any, key string) string {
	if m == nil {
		return ""
	}
	return ldStringOf(m[key])
}

// ldStringOf renders a JSON-LD scalar as a string. Numbers come back from
// encoding/json as float64; integral values must not pick up a ".0".
func ldStringOf(v any) string {
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case float64:
		if t == float64(int64(t)) {
			return fmt.Sprintf("%d", int64(t))
		}
		return fmt.Sprintf("%g", t)
	case map[string]any:
		return ldString(t, "name")
	default:
		return ""
	}
}

func ldImages(v any) []string {
	switch t := v.(type) {
	case string:
		if t == "" {
			return nil
		}
		return []string{t}
	case []any:
		urls := make([]string, 0, len(t))
		for _, item := range t {
			if s, ok := item.(string); ok && s != "" {
				urls = append(urls, s)
			} else if m, ok := item.(map[string]any); ok {
				if u := ldString(m, "url"); u != "" {
					urls = append(urls, u)
				}
			}
		}
		return urls
	case map[string]any:
		if u := ldString(t, "url"); u != "" {
			return []string{u}
		}
	}
	return nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
