package util

import (
	"golang.org/x/exp/constraints"
)

func GetKeys[A constraints.Ordered, B any](m map[A]B) []A {
	keys := make([]A, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	return keys
}

func Min[A constraints.Ordered](num1 A, num2 A) A {
	if num1 > num2 {
		return num2
	}
	return num1
}

// Max returns the largest value in nums. It panics on an empty slice.
func Max[A constraints.Ordered](nums []A) A {
	if len(nums) == 0 {
		panic("Max of empty slice")
	}
	res := nums[0]
	for _, v := range nums[1:] {
		if v > res {
			res = v
		}
	}
	return res
}
