package logo

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/image/vector"
)

// pathCommands are the SVG path commands trace understands.
const pathCommands = "MmLlCcZz"

var arity = map[byte]int{'m': 2, 'l': 2, 'c': 6}

// tokenize splits path data into command letters and numbers.
func tokenize(d string) []string {
	sep := func(r rune) bool { return r == ',' || unicode.IsSpace(r) }
	var out []string
	for _, field := range strings.FieldsFunc(d, sep) {
		start := 0
		for i := 0; i < len(field); i++ {
			if strings.IndexByte(pathCommands, field[i]) < 0 {
				continue
			}
			if i > start {
				out = append(out, field[start:i])
			}
			out = append(out, field[i:i+1])
			start = i + 1
		}
		if start < len(field) {
			out = append(out, field[start:])
		}
	}
	return out
}

func isCommand(tok string) bool {
	return len(tok) == 1 && strings.IndexByte(pathCommands, tok[0]) >= 0
}

// trace feeds path data into z with every coordinate multiplied by k.
// Numbers that follow a command without a new letter repeat it, and a
// repeated moveto becomes a lineto.
func trace(z *vector.Rasterizer, d string, k float32) error {
	toks := tokenize(d)
	var (
		cmd            byte
		x, y           float32
		startX, startY float32
	)
	for i := 0; i < len(toks); {
		if isCommand(toks[i]) {
			cmd = toks[i][0]
			i++
		}
		if cmd == 'Z' || cmd == 'z' {
			z.ClosePath()
			x, y = startX, startY
			cmd = 0
			continue
		}
		if cmd == 0 {
			return fmt.Errorf("path data: number %q without a command", toks[i])
		}

		lower := cmd | 0x20
		n := arity[lower]
		if i+n > len(toks) {
			return fmt.Errorf("path data: %c needs %d numbers, got %d", cmd, n, len(toks)-i)
		}
		v := make([]float32, n)
		for j := range v {
			f, err := strconv.ParseFloat(toks[i+j], 32)
			if err != nil {
				return fmt.Errorf("path data: %w", err)
			}
			v[j] = float32(f)
			if cmd == lower {
				if j%2 == 0 {
					v[j] += x
				} else {
					v[j] += y
				}
			}
		}
		i += n

		switch lower {
		case 'm':
			z.MoveTo(v[0]*k, v[1]*k)
			startX, startY = v[0], v[1]
			if cmd == 'M' {
				cmd = 'L'
			} else {
				cmd = 'l'
			}
		case 'l':
			z.LineTo(v[0]*k, v[1]*k)
		case 'c':
			z.CubeTo(v[0]*k, v[1]*k, v[2]*k, v[3]*k, v[4]*k, v[5]*k)
		}
		x, y = v[n-2], v[n-1]
	}
	return nil
}
