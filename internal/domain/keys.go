package domain

import "strings"

// ItemKey normalises a dish or POS item name so reviews, sales and
// inventory rows can be joined.
func ItemKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
