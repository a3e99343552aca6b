package index

import "sort"

// PostingList is an ascending list of entry sequence numbers.
type PostingList []int

// Intersect returns the sequence numbers present in every list, smallest
// list first. No lists yields an empty result.
func Intersect(lists ...PostingList) PostingList {
	if len(lists) == 0 {
		return PostingList{}
	}
	ordered := append([]PostingList(nil), lists...)
	sort.Slice(ordered, func(i, j int) bool { return len(ordered[i]) < len(ordered[j]) })
	result := append(PostingList(nil), ordered[0]...)
	for _, list := range ordered[1:] {
		result = intersectPair(result, list)
		if len(result) == 0 {
			break
		}
	}
	return result
}

func intersectPair(a, b PostingList) PostingList {
	out := a[:0]
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		switch {
		case a[i] == b[j]:
			out = append(out, a[i])
			i++
			j++
		case a[i] < b[j]:
			i++
		default:
			j++
		}
	}
	return out
}

// Union merges lists into one ascending list without duplicates.
func Union(lists ...PostingList) PostingList {
	switch len(lists) {
	case 0:
		return nil
	case 1:
		return append(PostingList(nil), lists[0]...)
	}
	total := 0
	for _, l := range lists {
		total += len(l)
	}
	merged := make(PostingList, 0, total)
	for _, l := range lists {
		merged = append(merged, l...)
	}
	sort.Ints(merged)
	out := merged[:0]
	for i, seq := range merged {
		if i == 0 || seq != merged[i-1] {
			out = append(out, seq)
		}
	}
	return out
}
