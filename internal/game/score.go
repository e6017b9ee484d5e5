package game

import (
	"regexp"
	"strconv"
)

var intLiteral = regexp.MustCompile(`\d+`)

// DigitSum returns the sum of the decimal digits of |n|.
func DigitSum(n int) int {
	if n < 0 {
		n = -n
	}
	sum := 0
	for n > 0 {
		sum += n % 10
		n /= 10
	}
	return sum
}

// HandScore sums, per tile, the digits of the answer face plus the digits of
// every integer literal in the problem text. Lower is better when a blocked
// game is scored.
func HandScore(tiles []Tile) int {
	total := 0
	for _, t := range tiles {
		total += DigitSum(t.DisplayAnswer)
		for _, lit := range intLiteral.FindAllString(t.Problem, -1) {
			total += literalDigitSum(lit)
		}
	}
	return total
}

// literalDigitSum adds digits straight from the text so very long literals
// cannot overflow.
func literalDigitSum(lit string) int {
	if n, err := strconv.Atoi(lit); err == nil {
		return DigitSum(n)
	}
	sum := 0
	for _, r := range lit {
		sum += int(r - '0')
	}
	return sum
}
