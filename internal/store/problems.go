// ABOUTME: Encoding of the solved-problems list stored in Users.solved_problems
// ABOUTME: A JSON integer array; order and duplicates are preserved on round-trip

package store

import (
	"encoding/json"
	"fmt"
)

// SolvedProblemsEncodingVersion is stamped into PRAGMA user_version at bootstrap.
// Bump it if the text format of solved_problems ever changes.
const SolvedProblemsEncodingVersion = 1

// EncodeSolvedProblems serializes problem ids as a JSON array. A nil slice is
// written as "[]", never "null".
func EncodeSolvedProblems(solved []int) (string, error) {
	if solved == nil {
		solved = []int{}
	}
	data, err := json.Marshal(solved)
	if err != nil {
		return "", fmt.Errorf("encoding solved problems: %w", err)
	}
	return string(data), nil
}

// DecodeSolvedProblems is the inverse of EncodeSolvedProblems. It always returns
// a non-nil slice on success.
func DecodeSolvedProblems(text string) ([]int, error) {
	solved := []int{}
	if err := json.Unmarshal([]byte(text), &solved); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptSolvedProblems, err)
	}
	if solved == nil {
		// "null" decodes to a nil slice
		return nil, fmt.Errorf("%w: null", ErrCorruptSolvedProblems)
	}
	return solved, nil
}
