package vdom

// Unset marks a slot of the keyed diff's source array that has no old
// node. It lies outside the valid index range.
const Unset = -1

// LIS returns the indices of a longest strictly increasing subsequence of
// arr, in ascending order. Entries equal to Unset (or any negative value)
// are skipped.
//
// It runs in O(n log n): tails[k] holds the index of the smallest value
// ending an increasing run of length k+1, and prev links each index to its
// predecessor in that run.
func LIS(arr []int) []int {
	n := len(arr)
	if n == 0 {
		return nil
	}
	prev := make([]int, n)
	tails := make([]int, 0, n)

	for i, v := range arr {
		if v < 0 {
			continue
		}
		if len(tails) == 0 || arr[tails[len(tails)-1]] < v {
			if len(tails) > 0 {
				prev[i] = tails[len(tails)-1]
			} else {
				prev[i] = -1
			}
			tails = append(tails, i)
			continue
		}

		// First tail whose value is >= v
		lo, hi := 0, len(tails)-1
		for lo < hi {
			mid := (lo + hi) / 2
			if arr[tails[mid]] < v {
				lo = mid + 1
			} else {
				hi = mid
			}
		}
		if v < arr[tails[lo]] {
			if lo > 0 {
				prev[i] = tails[lo-1]
			} else {
				prev[i] = -1
			}
			tails[lo] = i
		}
	}

	if len(tails) == 0 {
		return nil
	}
	result := make([]int, len(tails))
	k := tails[len(tails)-1]
	for j := len(tails) - 1; j >= 0; j-- {
		result[j] = k
		k = prev[k]
	}
	return result
}
