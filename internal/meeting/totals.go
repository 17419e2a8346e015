package meeting

import (
	"regexp"
	"strconv"
)

var totalRe = regexp.MustCompile(`- Total:: (\d+)`)

// Totals sums the "- Total:: N" lines of a purchase order export.
func Totals(body string) (Result, error) {
	total := 0
	for _, m := range totalRe.FindAllStringSubmatch(FormatEventBody(body), -1) {
		n, err := strconv.Atoi(m[1])
		if err != nil {
			return Result{}, wrapInvalidEvent(err)
		}
		total += n
	}
	return ok(total), nil
}
