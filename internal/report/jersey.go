package report

import (
	"sort"
	"strings"
)

// JerseySizeOrder is the adult size order; kids sizes follow in the same order.
var JerseySizeOrder = []string{"XS", "S", "M", "L", "XL", "XXL"}

// SizeCount is one entry of a jersey size histogram.
type SizeCount struct {
	Size  string `json:"size"`
	Count int    `json:"count"`
}

// JerseySizeIndex maps a size to its display rank. The first entry of
// JerseySizeOrder that prefixes the size wins; sizes mentioning "kids" are pushed
// after every adult size. Unrecognized sizes rank UnknownRank.
func JerseySizeIndex(size string) int {
	base := -1
	for i, prefix := range JerseySizeOrder {
		if strings.HasPrefix(size, prefix) {
			base = i
			break
		}
	}
	if base < 0 {
		return UnknownRank
	}
	if strings.Contains(strings.ToLower(size), "kids") {
		return base + len(JerseySizeOrder)
	}
	return base
}

// SortSizes turns a size histogram into ranked pairs. Sizes with the same rank
// are ordered by name so the result does not depend on map iteration.
func SortSizes(counts map[string]int) []SizeCount {
	out := make([]SizeCount, 0, len(counts))
	for size, count := range counts {
		out = append(out, SizeCount{Size: size, Count: count})
	}
	sort.Slice(out, func(i, j int) bool {
		ri, rj := JerseySizeIndex(out[i].Size), JerseySizeIndex(out[j].Size)
		if ri == rj {
			return out[i].Size < out[j].Size
		}
		return ri < rj
	})
	return out
}

// sizeHistogram counts sizes in first-appearance order and ranks them with a
// stable sort.
type sizeHistogram struct {
	order  []string
	counts map[string]int
}

func newSizeHistogram() *sizeHistogram {
	return &sizeHistogram{counts: map[string]int{}}
}

func (h *sizeHistogram) add(size string) {
	if _, ok := h.counts[size]; !ok {
		h.order = append(h.order, size)
	}
	h.counts[size]++
}

func (h *sizeHistogram) sorted() []SizeCount {
	out := make([]SizeCount, 0, len(h.order))
	for _, size := range h.order {
		out = append(out, SizeCount{Size: size, Count: h.counts[size]})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return JerseySizeIndex(out[i].Size) < JerseySizeIndex(out[j].Size)
	})
	return out
}

func rankSizes(sizes []string) []string {
	out := append([]string(nil), sizes...)
	sort.SliceStable(out, func(i, j int) bool {
		return JerseySizeIndex(out[i]) < JerseySizeIndex(out[j])
	})
	return out
}
