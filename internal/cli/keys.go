package cli

import "unicode/utf8"

// Key is a decoded keypress. Printable keys carry their rune; the
// navigation keys use values outside the Unicode range.
type Key rune

const (
	KeyCtrlC Key = 0x03
	KeyTab   Key = '\t'
	KeyEnter Key = '\r'
	KeyEsc   Key = 0x1b
	KeySpace Key = ' '

	KeyUp Key = utf8.MaxRune + 1 + iota
	KeyDown
	KeyRight
	KeyLeft
)

func (k Key) String() string {
	switch k {
	case KeyCtrlC:
		return "ctrl+c"
	case KeyTab:
		return "tab"
	case KeyEnter:
		return "enter"
	case KeyEsc:
		return "esc"
	case KeySpace:
		return "space"
	case KeyUp:
		return "up"
	case KeyDown:
		return "down"
	case KeyRight:
		return "right"
	case KeyLeft:
		return "left"
	}
	return string(rune(k))
}

// ParseKeys decodes a chunk of raw terminal input.
// CSI arrow sequences (ESC [ A..D) become arrow keys; an ESC that does not
// start a known sequence is reported on its own.
func ParseKeys(buf []byte) []Key {
	var keys []Key
	for len(buf) > 0 {
		if buf[0] == byte(KeyEsc) {
			if len(buf) >= 3 && (buf[1] == '[' || buf[1] == 'O') {
				if k, ok := arrow(buf[2]); ok {
					keys = append(keys, k)
					buf = buf[3:]
					continue
				}
			}
			keys = append(keys, KeyEsc)
			buf = buf[1:]
			continue
		}

		r, size := utf8.DecodeRune(buf)
		buf = buf[size:]
		if r == utf8.RuneError {
			continue
		}
		if r == '\n' {
			r = '\r'
		}
		keys = append(keys, Key(r))
	}
	return keys
}

func arrow(b byte) (Key, bool) {
	switch b {
	case 'A':
		return KeyUp, true
	case 'B':
		return KeyDown, true
	case 'C':
		return KeyRight, true
	case 'D':
		return KeyLeft, true
	}
	return 0, false
}
