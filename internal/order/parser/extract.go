package parser

import (
	"regexp"
	"strings"
)

const (
	// VendorDomain is the seller notification domain; addresses under it are
	// never the buyer.
	VendorDomain = "etsy.com"
	// VendorSender is the transactional notification sender address.
	VendorSender = "transaction@etsy.com"

	// UnknownProduct is the sentinel product name when no pattern matches.
	UnknownProduct = "Unknown Product"
	// UnknownShop is the sentinel shop name when no pattern matches.
	UnknownShop = "Unknown Shop"
)

var (
	mailtoPattern  = regexp.MustCompile(`mailto:\s*([a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,})`)
	generalPattern = regexp.MustCompile(`[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`)

	productPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)<div[^>]*class="item-name"[^>]*>([^<]+)</div>`),
		regexp.MustCompile(`(?i)Item:\s*([^\n]+)`),
		regexp.MustCompile(`(?i)Title:\s*([^\n]+)`),
	}
	productSubjectPattern = regexp.MustCompile(`(?i)Subject:.*Order.*?\[(.*?)\]`)

	shopPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)Shop name:\s*([^<\n]+)`),
		regexp.MustCompile(`(?i)Shop:\s*([^<\n]+)`),
		regexp.MustCompile(`(?i)Seller:\s*([^<\n]+)`),
	}
	shopSubjectPattern = regexp.MustCompile(`(?i)Subject:[^\n]*?from\s+([^-\n]+)`)

	optionsPattern = regexp.MustCompile(`(?i)(Size|Color|Style|Type):\s*([^,\n]+)`)
)

// firstMatch runs the patterns in priority order and returns the first
// captured group, trimmed. The ordering matters: each matcher is independent
// and the first hit wins.
func firstMatch(content string, patterns []*regexp.Regexp) (string, bool) {
	for _, p := range patterns {
		if m := p.FindStringSubmatch(content); m != nil && strings.TrimSpace(m[1]) != "" {
			return strings.TrimSpace(m[1]), true
		}
	}
	return "", false
}

// ExtractBuyerEmail finds the purchaser's contact address. mailto links are
// preferred; any address on the vendor's domain is skipped. Returns false when
// no usable address exists, which makes the message unusable.
func ExtractBuyerEmail(content string) (string, bool) {
	for _, m := range mailtoPattern.FindAllStringSubmatch(content, -1) {
		if !strings.Contains(m[1], VendorSender) {
			return m[1], true
		}
	}

	for _, m := range generalPattern.FindAllString(content, -1) {
		if !strings.Contains(m, VendorDomain) {
			return m, true
		}
	}

	return "", false
}

// ExtractProductName tries the structured tag, then "Item:"/"Title:" lines,
// then a bracketed segment in an embedded subject line. Never empty: falls
// back to the sentinel.
func ExtractProductName(content string) string {
	if name, ok := firstMatch(content, productPatterns); ok {
		return name
	}
	if m := productSubjectPattern.FindStringSubmatch(content); m != nil && strings.TrimSpace(m[1]) != "" {
		return strings.TrimSpace(m[1])
	}
	return UnknownProduct
}

// ExtractShopName tries the "Shop name:"/"Shop:"/"Seller:" lines, then a
// "from <name>" subject fragment. Never empty: falls back to the sentinel.
func ExtractShopName(content string) string {
	if name, ok := firstMatch(content, shopPatterns); ok {
		return name
	}
	if m := shopSubjectPattern.FindStringSubmatch(content); m != nil && strings.TrimSpace(m[1]) != "" {
		return strings.TrimSpace(m[1])
	}
	return UnknownShop
}

// ExtractProductOptions scans for known option keys. Returns nil when no pair
// is found so callers can distinguish "no options" from an empty mapping.
func ExtractProductOptions(content string) map[string]string {
	var options map[string]string
	for _, m := range optionsPattern.FindAllStringSubmatch(content, -1) {
		key := strings.TrimSpace(m[1])
		value := strings.TrimSpace(m[2])
		if key == "" || value == "" {
			continue
		}
		if options == nil {
			options = make(map[string]string)
		}
		options[key] = value
	}
	return options
}
