package report

import (
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"
)

const (
	// UnknownCategoryNumber is used for categories without digits so they sort
	// after every distance.
	UnknownCategoryNumber = 9999
	// UnknownRank places unrecognized ticket types and jersey sizes last.
	UnknownRank = 999
)

// TicketTypePriority is the display order of ticket type names.
var TicketTypePriority = []string{"Early", "Regular", "Kids", "Late"}

var digitRun = regexp.MustCompile(`\d+`)

// CompareCategories orders categories by their embedded number, then by unit
// (K before M), then case-insensitively. The unit rule only knows K and M.
func CompareCategories(a, b string) int {
	numA := categoryNumber(a)
	numB := categoryNumber(b)
	if numA != numB {
		return compareFloat(numA, numB)
	}

	unitA := lastUpper(a)
	unitB := lastUpper(b)
	switch {
	case unitA == "M" && unitB == "K":
		return 1
	case unitA == "K" && unitB == "M":
		return -1
	}
	return sign(strings.Compare(strings.ToLower(a), strings.ToLower(b)))
}

// CompareTicketTypeNames orders ticket type names by TicketTypePriority.
// Names outside the list tie with each other.
func CompareTicketTypeNames(a, b string) int {
	pa := ticketTypeRank(a)
	pb := ticketTypeRank(b)
	switch {
	case pa < pb:
		return -1
	case pa > pb:
		return 1
	}
	return 0
}

// CompareTicketKeys orders keys by category, then by ticket type name.
func CompareTicketKeys(a, b TicketKey) int {
	if c := CompareCategories(a.Category, b.Category); c != 0 {
		return c
	}
	return CompareTicketTypeNames(a.TicketType, b.TicketType)
}

// CompareTicketLabels orders display labels the same way as CompareTicketKeys,
// parsing category and ticket type out of each label first.
func CompareTicketLabels(a, b string) int {
	pa := ParseLabel(a)
	pb := ParseLabel(b)
	if c := CompareCategories(pa.Category, pb.Category); c != 0 {
		return c
	}
	return CompareTicketTypeNames(pa.Ticket, pb.Ticket)
}

func categoryNumber(category string) float64 {
	digits := digitRun.FindString(category)
	if digits == "" {
		return UnknownCategoryNumber
	}
	n, err := strconv.ParseFloat(digits, 64)
	if err != nil {
		return UnknownCategoryNumber
	}
	return n
}

func ticketTypeRank(name string) int {
	for i, candidate := range TicketTypePriority {
		if candidate == name {
			return i
		}
	}
	return UnknownRank
}

func lastUpper(s string) string {
	if s == "" {
		return ""
	}
	r, _ := utf8.DecodeLastRuneInString(s)
	return strings.ToUpper(string(r))
}

func compareFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func sign(n int) int {
	switch {
	case n < 0:
		return -1
	case n > 0:
		return 1
	}
	return 0
}
