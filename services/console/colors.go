package console

import (
	"errors"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"

	"ledcode-go/types"
	"ledcode-go/x/mathx"
	"ledcode-go/x/strx"
)

var errBadColor = errors.New("invalid color")

// namedColors are the predefined colours. WHITE drives only the W channel.
var namedColors = map[string]types.Pixel{
	"RED":           {R: 255},
	"GREEN":         {G: 255},
	"BLUE":          {B: 255},
	"WHITE":         {W: 255},
	"FULLWHITE_RGB": {R: 255, G: 255, B: 255},
	"BLACK":         {},
	"OFF":           {},
	"YELLOW":        {R: 255, G: 255},
	"CYAN":          {G: 255, B: 255},
	"MAGENTA":       {R: 255, B: 255},
	"FUCHSIA":       {R: 255, B: 255},
	"ORANGE":        {R: 255, G: 128},
	"PURPLE":        {R: 128, B: 128},
	"PINK":          {R: 255, G: 192, B: 203},
	"WARMWHITE_RGB": {R: 255, G: 147, B: 41},
	"COOLWHITE_RGB": {R: 201, G: 226, B: 255},
}

// parseColor accepts "r g b w", "r,g,b,w", a predefined name, or a hex
// colour written #RRGGBB, 0xRRGGBB (or the three digit short forms).
func parseColor(args []string) (types.Pixel, error) {
	fields := strings.Fields(strings.ReplaceAll(strings.Join(args, " "), ",", " "))
	switch len(fields) {
	case 4:
		var v [4]uint8
		for i, f := range fields {
			n, err := strconv.Atoi(f)
			if err != nil {
				return types.Pixel{}, errBadColor
			}
			v[i] = uint8(mathx.Clamp(n, 0, 255))
		}
		return types.Pixel{R: v[0], G: v[1], B: v[2], W: v[3]}, nil
	case 1:
		return parseColorWord(fields[0])
	}
	return types.Pixel{}, errBadColor
}

func parseColorWord(s string) (types.Pixel, error) {
	if px, ok := namedColors[strx.Norm(s)]; ok {
		return px, nil
	}
	hex := s
	switch {
	case strings.HasPrefix(s, "0x"), strings.HasPrefix(s, "0X"):
		hex = "#" + s[2:]
	case strings.HasPrefix(s, "#"):
	default:
		return types.Pixel{}, errBadColor
	}
	c, err := colorful.Hex(strings.ToLower(hex))
	if err != nil {
		return types.Pixel{}, errBadColor
	}
	r, g, b := c.RGB255()
	return types.Pixel{R: r, G: g, B: b}, nil
}

// hexWords rewrites a '#' that starts a word to "0x" so the shell-style
// tokenizer does not read it as a comment.
func hexWords(line string) string {
	if !strings.Contains(line, "#") {
		return line
	}
	var sb strings.Builder
	for i := 0; i < len(line); i++ {
		if line[i] == '#' && (i == 0 || line[i-1] == ' ' || line[i-1] == '\t') {
			sb.WriteString("0x")
			continue
		}
		sb.WriteByte(line[i])
	}
	return sb.String()
}
