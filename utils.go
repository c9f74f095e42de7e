package chimpmock

import "strconv"

// intOrDefault parses s as a non-negative base 10 integer. Anything else,
// including an empty string, yields def.
func intOrDefault(s []byte, def int) int {
	if len(s) == 0 {
		return def
	}

	n, err := strconv.Atoi(string(s))
	if err != nil || n < 0 {
		return def
	}

	return n
}
