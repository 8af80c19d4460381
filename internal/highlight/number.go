package highlight

// IsValidNumber reports whether word is a numeric literal: either a base
// prefixed integer such as 0x1F, or decimal digits with optional
// underscores, one '.', and one exponent marker, each placed directly after
// a digit, ending on a digit.
func IsValidNumber(word string) bool {
	if word == "" {
		return false
	}
	if isBaseLiteral(word) {
		return true
	}
	if !isDigit(word[0]) {
		return false
	}
	seenDot, seenExp := false, false
	prevDigit := true
	for i := 1; i < len(word); i++ {
		switch c := word[i]; {
		case isDigit(c):
			prevDigit = true
		case c == '_':
			if !prevDigit {
				return false
			}
			prevDigit = false
		case c == '.':
			if seenDot || seenExp || !prevDigit {
				return false
			}
			seenDot = true
			prevDigit = false
		case c == 'e' || c == 'E':
			if seenExp || !prevDigit {
				return false
			}
			seenExp = true
			prevDigit = false
		default:
			return false
		}
	}
	return prevDigit
}

func isBaseLiteral(word string) bool {
	if len(word) < 3 || word[0] != '0' {
		return false
	}
	var valid func(byte) bool
	switch word[1] {
	case 'b', 'B':
		valid = func(c byte) bool { return c == '0' || c == '1' }
	case 'o', 'O':
		valid = func(c byte) bool { return c >= '0' && c <= '7' }
	case 'x', 'X':
		valid = func(c byte) bool {
			return isDigit(c) || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
		}
	default:
		return false
	}
	for i := 2; i < len(word); i++ {
		if !valid(word[i]) {
			return false
		}
	}
	return true
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
