package alphabet

import "strings"

// WUSS is a secondary structure symbol from the WUSS51 alphabet: unpaired
// markers, four bracket kinds and the pseudoknot letters A-R (open) and
// a-r (close).
type WUSS byte

// wussSymbols lists WUSS51 in rank order.
const wussSymbols = ".:,-_~;<>()[]{}" +
	"AaBbCcDdEeFfGgHhIiJjKkLlMmNnOoPpQqRr"

const (
	unpairedSymbols = ".:,-_~;"
	openBrackets    = "<([{"
	closeBrackets   = ">)]}"
	lastKnotLetter  = 'R'
)

// Unpaired is the plain unpaired symbol.
const Unpaired WUSS = '.'

// ParseWUSS converts a character to a structure symbol.
func ParseWUSS(c byte) (WUSS, bool) {
	if strings.IndexByte(wussSymbols, c) < 0 {
		return 0, false
	}
	return WUSS(c), true
}

// Char returns the symbol character.
func (w WUSS) Char() byte {
	return byte(w)
}

func (w WUSS) String() string {
	return string(rune(w))
}

// Rank returns the position of w in the WUSS51 alphabet, -1 if w is invalid.
func (w WUSS) Rank() int {
	return strings.IndexByte(wussSymbols, byte(w))
}

// IsUnpaired reports whether w marks an unpaired position.
func (w WUSS) IsUnpaired() bool {
	return strings.IndexByte(unpairedSymbols, byte(w)) >= 0
}

// IsPairOpen reports whether w opens a base pair.
func (w WUSS) IsPairOpen() bool {
	return strings.IndexByte(openBrackets, byte(w)) >= 0 || (w >= 'A' && w <= lastKnotLetter)
}

// IsPairClose reports whether w closes a base pair.
func (w WUSS) IsPairClose() bool {
	return strings.IndexByte(closeBrackets, byte(w)) >= 0 || (w >= 'a' && w <= lastKnotLetter+('a'-'A'))
}

// IsLetter reports whether w is a pseudoknot letter. Letters overlap with
// residue characters, so line-oriented formats treat them specially.
func (w WUSS) IsLetter() bool {
	return (w >= 'A' && w <= 'Z') || (w >= 'a' && w <= 'z')
}

// closer returns the symbol that closes an opening symbol.
func (w WUSS) closer() WUSS {
	if i := strings.IndexByte(openBrackets, byte(w)); i >= 0 {
		return WUSS(closeBrackets[i])
	}
	return w + ('a' - 'A')
}
