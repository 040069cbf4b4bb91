// apps/go-solver/internal/feedback/compute.go
//
// Feedback computation and the consistency predicate.
//
// Compute implements the standard Wordle two-pass scoring algorithm.
// Matches answers "could this guess have produced this mask if word were
// the answer?" without building the full mask first.
//
// Both functions take words of exactly WordLen lowercase ASCII letters.
// Anything else is a caller bug and panics.

package feedback

import "fmt"

// Compute scores guess against answer.
//
// Pass 1:
//   - Mark exact matches as Correct.
//   - Count remaining (non-matching) answer letters by letter index.
//
// Pass 2:
//   - For each non-Correct guess letter: if there is remaining count for that
//     letter, mark Misplaced and decrement the count; otherwise mark Wrong.
//
// This never double-credits a letter that appears more often in the guess
// than in the answer.
func Compute(answer, guess string) Mask {
	mustWord("answer", answer)
	mustWord("guess", guess)

	res := Mask{Wrong, Wrong, Wrong, Wrong, Wrong}
	var counts [26]uint8

	for i := 0; i < WordLen; i++ {
		if guess[i] == answer[i] {
			res[i] = Correct
		} else {
			counts[idx(answer[i])]++
		}
	}

	for i := 0; i < WordLen; i++ {
		if res[i] == Correct {
			continue
		}
		if j := idx(guess[i]); counts[j] > 0 {
			res[i] = Misplaced
			counts[j]--
		}
	}
	return res
}

// Matches reports whether Compute(word, guess) == mask.
//
// Correct positions are checked first in both directions: a letter match
// must be marked Correct and a Correct mark must be a letter match. Those
// positions of word are then claimed. Every other position of guess must
// find an unclaimed occurrence in word exactly when it is marked Misplaced,
// claiming the first such occurrence left to right.
func Matches(word, guess string, mask Mask) bool {
	mustWord("word", word)
	mustWord("guess", guess)

	var used [WordLen]bool
	for i := 0; i < WordLen; i++ {
		if word[i] == guess[i] {
			if mask[i] != Correct {
				return false
			}
			used[i] = true
		} else if mask[i] == Correct {
			return false
		}
	}

	for i := 0; i < WordLen; i++ {
		if mask[i] == Correct {
			continue
		}
		if claim(word, guess[i], &used) != (mask[i] == Misplaced) {
			return false
		}
	}
	return true
}

// claim marks the first unused occurrence of letter in word as used.
func claim(word string, letter byte, used *[WordLen]bool) bool {
	for j := 0; j < WordLen; j++ {
		if word[j] == letter && !used[j] {
			used[j] = true
			return true
		}
	}
	return false
}

// idx maps a lowercase ASCII letter to 0..25.
func idx(c byte) int { return int(c - 'a') }

func mustWord(name, w string) {
	if len(w) != WordLen {
		panic(fmt.Sprintf("feedback: %s %q has length %d, want %d", name, w, len(w), WordLen))
	}
	for i := 0; i < WordLen; i++ {
		if w[i] < 'a' || w[i] > 'z' {
			panic(fmt.Sprintf("feedback: %s %q is not lowercase a-z", name, w))
		}
	}
}
