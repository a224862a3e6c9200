package ui

import (
	"fmt"

	"github.com/jinzhu/inflection"
)

// CountNoun formats n with the noun pluralized when n != 1, e.g. "3 workbooks".
func CountNoun(n int, noun string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", noun)
	}
	return fmt.Sprintf("%d %s", n, inflection.Plural(noun))
}
