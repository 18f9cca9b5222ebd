// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package matcher

// Ratio computes a normalized similarity score between two strings, scaled
// to [0,100]. The score is the standard Levenshtein ratio
//
//	100 * (1 - indel(a,b) / (len(a)+len(b)))
//
// where indel is the edit distance restricted to insertions and deletions.
// Since indel(a,b) = len(a)+len(b) - 2*LCS(a,b), the ratio reduces to
// 100 * 2*LCS(a,b) / (len(a)+len(b)). Identical strings score 100,
// strings with no common subsequence score 0. Comparison is case-sensitive;
// callers lowercase their inputs.
func Ratio(a, b string) float64 {
	s1 := []rune(a)
	s2 := []rune(b)

	total := len(s1) + len(s2)
	if total == 0 {
		return 100.0
	}

	lcs := longestCommonSubsequence(s1, s2)
	return 100.0 * float64(2*lcs) / float64(total)
}

// longestCommonSubsequence calculates the length of the longest common
// subsequence between two rune slices using dynamic programming.
func longestCommonSubsequence(s1, s2 []rune) int {
	m, n := len(s1), len(s2)
	if m == 0 || n == 0 {
		return 0
	}

	// Two-row table; only the previous row is needed
	prev := make([]int, n+1)
	curr := make([]int, n+1)

	for i := 1; i <= m; i++ {
		for j := 1; j <= n; j++ {
			if s1[i-1] == s2[j-1] {
				curr[j] = prev[j-1] + 1
			} else {
				curr[j] = max(prev[j], curr[j-1])
			}
		}
		prev, curr = curr, prev
	}

	return prev[n]
}
