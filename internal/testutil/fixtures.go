package testutil

// TAC programs used across package tests.
const (
	// Chained has one shared subexpression and an independent product.
	// Heuristic order: b c x y *_7 e +_2 a d. Optimal order: a d e.
	Chained = "a = b + c\nd = b + c\ne = x * y\n"

	// Straight is a three-instruction dependency chain.
	Straight = "t1 = a + b\nt2 = t1 * c\nt3 = t2 - d\n"

	// Malformed has one bad line (line 2) between two good ones.
	Malformed = "a = b + c\nx = b +\nd = a * 2\n"

	// Blank has no instructions at all.
	Blank = "\n# comment only\n\n"
)
