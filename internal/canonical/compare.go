package canonical

import (
	"strings"
	"sync"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// collator is not safe for concurrent use; mu guards it.
var (
	mu       sync.Mutex
	collator = collate.New(language.AmericanEnglish)
)

// Compare orders two strings the way a human-facing, locale-aware sort
// would (en-US collation). Strings the collator considers equal fall back
// to byte order so the result is a total order.
func Compare(a, b string) int {
	mu.Lock()
	c := collator.CompareString(a, b)
	mu.Unlock()
	if c != 0 {
		return c
	}
	return strings.Compare(a, b)
}
