package alphabet

import "fmt"

// PairingError describes a structure whose brackets or partner table are
// inconsistent. Pos is the 0-based position of the offending symbol.
type PairingError struct {
	Pos     int
	Message string
}

func (e *PairingError) Error() string {
	return fmt.Sprintf("position %d: %s", e.Pos+1, e.Message)
}

// Pairs resolves the partner of every position of structure: partner[i] is
// the 0-based position paired with i, or -1 when i is unpaired.
func Pairs(structure []WUSS) ([]int, error) {
	partner := make([]int, len(structure))
	stacks := make(map[WUSS][]int)
	for i, s := range structure {
		partner[i] = -1
		switch {
		case s.IsPairOpen():
			closer := s.closer()
			stacks[closer] = append(stacks[closer], i)
		case s.IsPairClose():
			open := stacks[s]
			if len(open) == 0 {
				return nil, &PairingError{Pos: i, Message: fmt.Sprintf("unmatched closing %q", s.Char())}
			}
			j := open[len(open)-1]
			stacks[s] = open[:len(open)-1]
			partner[i], partner[j] = j, i
		case s.IsUnpaired():
		default:
			return nil, &PairingError{Pos: i, Message: fmt.Sprintf("invalid structure symbol %q", s.Char())}
		}
	}
	first := -1
	for _, open := range stacks {
		if len(open) > 0 && (first < 0 || open[0] < first) {
			first = open[0]
		}
	}
	if first >= 0 {
		return nil, &PairingError{Pos: first, Message: fmt.Sprintf("unterminated %q", structure[first].Char())}
	}
	return partner, nil
}

// bracketLevels are the open/close pairs assigned to nested pair layers,
// plain brackets first.
var bracketLevels = func() [][2]WUSS {
	levels := [][2]WUSS{{'(', ')'}, {'[', ']'}, {'{', '}'}, {'<', '>'}}
	for c := WUSS('A'); c <= lastKnotLetter; c++ {
		levels = append(levels, [2]WUSS{c, c + ('a' - 'A')})
	}
	return levels
}()

// FromPairs renders a partner table (as returned by Pairs) in bracket
// notation. Crossing pairs are pushed to the next bracket kind, so
// pseudoknots survive the conversion.
func FromPairs(partner []int) ([]WUSS, error) {
	n := len(partner)
	out := make([]WUSS, n)
	var layers [][][2]int
	for i := 0; i < n; i++ {
		j := partner[i]
		switch {
		case j < 0:
			out[i] = Unpaired
			continue
		case j >= n:
			return nil, &PairingError{Pos: i, Message: fmt.Sprintf("partner %d out of range", j+1)}
		case j == i:
			return nil, &PairingError{Pos: i, Message: "position paired with itself"}
		case partner[j] != i:
			return nil, &PairingError{Pos: i, Message: fmt.Sprintf("pair with %d is not symmetric", j+1)}
		case j < i:
			continue
		}
		level := 0
		for ; level < len(layers); level++ {
			if !crossesAny(layers[level], i, j) {
				break
			}
		}
		if level >= len(bracketLevels) {
			return nil, &PairingError{Pos: i, Message: "too many crossing pair layers"}
		}
		if level == len(layers) {
			layers = append(layers, nil)
		}
		layers[level] = append(layers[level], [2]int{i, j})
		out[i], out[j] = bracketLevels[level][0], bracketLevels[level][1]
	}
	return out, nil
}

func crossesAny(layer [][2]int, i, j int) bool {
	for _, p := range layer {
		a, b := p[0], p[1]
		if (a < i && i < b && b < j) || (i < a && a < j && j < b) {
			return true
		}
	}
	return false
}
