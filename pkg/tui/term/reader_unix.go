//go:build unix

package term

import (
	"io"
	"os"
	"sync"
	"syscall"
	"time"
	"unicode/utf8"

	"github.com/loomui/loom/pkg/sys"
	"github.com/loomui/loom/pkg/ui"
)

// reader reads terminal escape sequences and decodes them into events. A
// pipe pair is used to abort an outstanding read from Close.
type reader struct {
	file  *os.File
	rStop *os.File
	wStop *os.File
	// Held while a read is in progress.
	mutex sync.Mutex
}

func newReader(f *os.File) (*reader, error) {
	rStop, wStop, err := os.Pipe()
	if err != nil {
		return nil, err
	}
	return &reader{file: f, rStop: rStop, wStop: wStop}, nil
}

func (rd *reader) ReadEvent() (Event, error) {
	return readEvent(rd)
}

func (rd *reader) Close() {
	rd.wStop.Write([]byte{'q'})
	rd.mutex.Lock()
	rd.mutex.Unlock()
	rd.rStop.Close()
	rd.wStop.Close()
}

func (rd *reader) readByte(timeout time.Duration) (byte, error) {
	rd.mutex.Lock()
	defer rd.mutex.Unlock()
	for {
		ready, err := sys.WaitForRead(timeout, rd.file, rd.rStop)
		if err != nil {
			if err == syscall.EINTR {
				continue
			}
			return 0, err
		}
		if ready[1] {
			var b [1]byte
			rd.rStop.Read(b[:])
			return 0, ErrStopped
		}
		if !ready[0] {
			return 0, errTimeout
		}
		var b [1]byte
		nr, err := rd.file.Read(b[:])
		if err != nil {
			return 0, err
		}
		if nr != 1 {
			return 0, io.ErrNoProgress
		}
		return b[0], nil
	}
}

// readRune reads a possibly multi-byte UTF-8 rune. The timeout applies to the
// first byte; continuation bytes are expected to arrive promptly.
func (rd *reader) readRune(timeout time.Duration) (rune, error) {
	b, err := rd.readByte(timeout)
	if err != nil {
		return 0, err
	}
	if b < utf8.RuneSelf {
		return rune(b), nil
	}
	buf := []byte{b}
	for !utf8.FullRune(buf) && len(buf) < utf8.UTFMax {
		b, err := rd.readByte(keySeqTimeout)
		if err != nil {
			break
		}
		buf = append(buf, b)
	}
	r, _ := utf8.DecodeRune(buf)
	return r, nil
}

// Used by the decoding functions to signal end of current sequence.
const runeEndOfSeq rune = -1

// Timeout for bytes in escape sequences. Modern terminal emulators send
// escape sequences very fast, so 10ms is more than sufficient. SSH
// connections on a slow link might be problematic though.
var keySeqTimeout = 10 * time.Millisecond

func readEvent(rd *reader) (event Event, err error) {
	r, err := rd.readRune(-1)
	if err != nil {
		return nil, err
	}

	currentSeq := string(r)
	// Attempts to read a rune within keySeqTimeout, returning runeEndOfSeq on
	// any error; the caller terminates the current sequence on that value.
	readRune := func() rune {
		r, e := rd.readRune(keySeqTimeout)
		if e != nil {
			return runeEndOfSeq
		}
		currentSeq += string(r)
		return r
	}
	badSeq := func(msg string) {
		err = seqError{msg, currentSeq}
	}

	if r != 0x1b {
		return KeyEvent(ctrlModify(r)), nil
	}

	r2 := readRune()
	// rxvt and derivatives prepend another ESC to a CSI-style or G3-style
	// sequence to signal Alt.
	hasTwoLeadingESC := false
	if r2 == 0x1b {
		hasTwoLeadingESC = true
		r2 = readRune()
	}
	if r2 == runeEndOfSeq {
		// Nothing follows. Taken as a lone Escape.
		return KeyEvent{Rune: '[', Mod: ui.Ctrl}, nil
	}
	switch r2 {
	case '[':
		// CSI style function key sequence.
		r = readRune()
		if r == runeEndOfSeq {
			return KeyEvent{Rune: '[', Mod: ui.Alt}, nil
		}

		nums := make([]int, 0, 2)
		var starter rune
		switch r {
		case '<':
			starter = r
			r = readRune()
		case 'M':
			// X10-style mouse event: three bytes follow.
			cb, cx, cy := readRune(), readRune(), readRune()
			if cb == runeEndOfSeq || cx == runeEndOfSeq || cy == runeEndOfSeq {
				badSeq("incomplete mouse event")
				return
			}
			down := true
			button := int(cb & 3)
			if button == 3 {
				down = false
				button = -1
			}
			mod := mouseModify(int(cb))
			event = MouseEvent{
				Pos{int(cy) - 32, int(cx) - 32}, down, button, mod}
			return
		}
	CSISeq:
		for {
			switch {
			case r == ';':
				nums = append(nums, 0)
			case '0' <= r && r <= '9':
				if len(nums) == 0 {
					nums = append(nums, 0)
				}
				cur := len(nums) - 1
				nums[cur] = nums[cur]*10 + int(r-'0')
			case r == runeEndOfSeq:
				badSeq("incomplete CSI")
				return
			default: // Treat as a terminator.
				break CSISeq
			}
			r = readRune()
		}
		if starter == 0 && r == 'R' {
			// Cursor position report.
			if len(nums) != 2 {
				badSeq("bad CPR")
				return
			}
			event = CursorPosition{nums[0], nums[1]}
		} else if starter == '<' && (r == 'm' || r == 'M') {
			// SGR-style mouse event.
			if len(nums) != 3 {
				badSeq("bad SGR mouse event")
				return
			}
			down := r == 'M'
			button := nums[0] & 3
			mod := mouseModify(nums[0])
			event = MouseEvent{Pos{nums[2], nums[1]}, down, button, mod}
		} else if r == '~' && len(nums) == 1 && (nums[0] == 200 || nums[0] == 201) {
			event = PasteSetting(nums[0] == 200)
		} else {
			k := parseCSI(nums, r)
			if k == (ui.Key{}) {
				badSeq("bad CSI")
			} else {
				if hasTwoLeadingESC {
					k.Mod |= ui.Alt
				}
				event = KeyEvent(k)
			}
		}
	case 'O':
		// G3 style function key sequence: exactly one rune follows.
		r = readRune()
		if r == runeEndOfSeq {
			return KeyEvent{Rune: 'O', Mod: ui.Alt}, nil
		}
		k, ok := g3Seq[r]
		if !ok {
			badSeq("bad G3")
			return
		}
		if hasTwoLeadingESC {
			k.Mod |= ui.Alt
		}
		event = KeyEvent(k)
	default:
		// Taken as an Alt-modified key, possibly also modified by Ctrl.
		k := ctrlModify(r2)
		k.Mod |= ui.Alt
		event = KeyEvent(k)
	}
	return event, err
}

// Determines whether a rune corresponds to a Ctrl-modified key and returns
// the ui.Key the rune represents.
func ctrlModify(r rune) ui.Key {
	switch r {
	case 0x0:
		return ui.K('`', ui.Ctrl) // ^@
	case 0x1e:
		return ui.K('6', ui.Ctrl) // ^^
	case 0x1f:
		return ui.K('/', ui.Ctrl) // ^_
	case ui.Tab, ui.Enter, ui.Backspace: // ^I ^J ^?
		// Ambiguous Ctrl keys; prefer the non-Ctrl form as they are more
		// likely.
		return ui.K(r)
	default:
		if 0x1 <= r && r <= 0x1d {
			return ui.K(r+0x40, ui.Ctrl)
		}
	}
	return ui.K(r)
}

// G3-style key sequences: \eO followed by exactly one character. For
// instance, \eOP is F1.
var g3Seq = map[rune]ui.Key{
	'A': ui.K(ui.Up), 'B': ui.K(ui.Down), 'C': ui.K(ui.Right), 'D': ui.K(ui.Left),
	'H': ui.K(ui.Home), 'F': ui.K(ui.End), 'M': ui.K(ui.Insert),
	// urxvt sends these for Ctrl-modified arrow keys.
	'a': ui.K(ui.Up, ui.Ctrl), 'b': ui.K(ui.Down, ui.Ctrl),
	'c': ui.K(ui.Right, ui.Ctrl), 'd': ui.K(ui.Left, ui.Ctrl),
	'P': ui.K(ui.F1), 'Q': ui.K(ui.F2), 'R': ui.K(ui.F3), 'S': ui.K(ui.F4),
}

// CSI-style key sequences identified by the last rune. For instance, \e[A is
// Up. When modified, two numerical arguments are added, the first always
// being 1 and the second identifying the modifier. For instance, \e[1;5A is
// Ctrl-Up.
var csiSeqByLast = map[rune]ui.Key{
	'A': ui.K(ui.Up), 'B': ui.K(ui.Down), 'C': ui.K(ui.Right), 'D': ui.K(ui.Left),
	// urxvt
	'a': ui.K(ui.Up, ui.Shift), 'b': ui.K(ui.Down, ui.Shift),
	'c': ui.K(ui.Right, ui.Shift), 'd': ui.K(ui.Left, ui.Shift),
	'H': ui.K(ui.Home), 'F': ui.K(ui.End),
	'Z': ui.K(ui.Tab, ui.Shift),
}

// CSI-style key sequences ending with '~', with one or two numerical
// arguments. The first argument identifies the key, the optional second one
// the modifier. For instance, \e[3~ is Delete, and \e[3;5~ is Ctrl-Delete.
var csiSeqTilde = map[int]rune{
	1: ui.Home, 4: ui.End,
	2: ui.Insert,
	3: ui.Delete,
	5: ui.PageUp, 6: ui.PageDown,
	// urxvt
	7: ui.Home, 8: ui.End,
	11: ui.F1, 12: ui.F2, 13: ui.F3, 14: ui.F4,
	15: ui.F5, 17: ui.F6, 18: ui.F7, 19: ui.F8,
	20: ui.F9, 21: ui.F10, 23: ui.F11, 24: ui.F12,
}

// CSI-style key sequences ending with '~', with the first argument always 27,
// the second identifying the modifier and the third the key. For instance,
// \e[27;5;9~ is Ctrl-Tab.
var csiSeqTilde27 = map[int]rune{
	9: '\t', 13: '\r',
	33: '!', 35: '#', 39: '\'', 40: '(', 41: ')', 43: '+', 44: ',', 45: '-',
	46: '.',
	48: '0', 49: '1', 50: '2', 51: '3', 52: '4', 53: '5', 54: '6', 55: '7',
	56: '8', 57: '9',
	58: ':', 59: ';', 60: '<', 61: '=', 62: '>', 63: ';',
}

// parseCSI parses a CSI-style key sequence; see the comments above the
// tables for the variants handled.
func parseCSI(nums []int, last rune) ui.Key {
	if k, ok := csiSeqByLast[last]; ok {
		if len(nums) == 0 {
			// Unmodified: \e[A (Up)
			return k
		} else if len(nums) == 2 && nums[0] == 1 {
			// Modified: \e[1;5A (Ctrl-Up)
			return xtermModify(k, nums[1])
		}
		return ui.Key{}
	}

	switch last {
	case '~':
		if len(nums) == 1 || len(nums) == 2 {
			if r, ok := csiSeqTilde[nums[0]]; ok {
				k := ui.K(r)
				if len(nums) == 1 {
					// Unmodified: \e[5~ (e.g. PageUp)
					return k
				}
				// Modified: \e[5;5~ (e.g. Ctrl-PageUp)
				return xtermModify(k, nums[1])
			}
		} else if len(nums) == 3 && nums[0] == 27 {
			if r, ok := csiSeqTilde27[nums[2]]; ok {
				return xtermModify(ui.K(r), nums[1])
			}
		}
	case '$', '^', '@':
		// urxvt encodes the modifier in the last rune instead; the numeric
		// argument stays unchanged. For instance, \e[3^ is Ctrl-Delete.
		if len(nums) == 1 {
			if r, ok := csiSeqTilde[nums[0]]; ok {
				var mod ui.Mod
				switch last {
				case '$':
					mod = ui.Shift
				case '^':
					mod = ui.Ctrl
				case '@':
					mod = ui.Shift | ui.Ctrl
				}
				return ui.K(r, mod)
			}
		}
	}
	return ui.Key{}
}

func xtermModify(k ui.Key, mod int) ui.Key {
	if mod < 0 || mod > 16 {
		return ui.Key{}
	}
	if mod == 0 {
		return k
	}
	modFlags := mod - 1
	if modFlags&0x1 != 0 {
		k.Mod |= ui.Shift
	}
	if modFlags&0x2 != 0 {
		k.Mod |= ui.Alt
	}
	if modFlags&0x4 != 0 {
		k.Mod |= ui.Ctrl
	}
	if modFlags&0x8 != 0 {
		// Meta, conflated with Alt.
		k.Mod |= ui.Alt
	}
	return k
}

func mouseModify(n int) ui.Mod {
	var mod ui.Mod
	if n&4 != 0 {
		mod |= ui.Shift
	}
	if n&8 != 0 {
		mod |= ui.Alt
	}
	if n&16 != 0 {
		mod |= ui.Ctrl
	}
	return mod
}
