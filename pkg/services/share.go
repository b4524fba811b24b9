package services

import (
	"net/url"
	"strings"
)

// componentEscaper turns url.QueryEscape output into the encoding browsers
// produce with encodeURIComponent: spaces as %20 and !'()* left literal.
var componentEscaper = strings.NewReplacer(
	"+", "%20",
	"%21", "!",
	"%27", "'",
	"%28", "(",
	"%29", ")",
	"%2A", "*",
)

// EncodeURIComponent percent-encodes s for use inside a URL component
func EncodeURIComponent(s string) string {
	return componentEscaper.Replace(url.QueryEscape(s))
}

// BuildShareLink returns the WhatsApp deep link that opens a chat with phone
// and prefills message. The phone is inserted exactly as entered.
func BuildShareLink(baseURL, phone, message string) string {
	return strings.TrimRight(baseURL, "/") + "/" + phone + "?text=" + EncodeURIComponent(message)
}
