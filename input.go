package mtty

import "unicode"

// Key names the non-literal keys the core knows how to encode. A
// KeyRune event carries its own rune instead of a named Key.
type Key int

const (
	KeyRune Key = iota
	KeyEnter
	KeyTab
	KeyEscape
	KeyBackspace
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeyHome
	KeyEnd
	KeyPageUp
	KeyPageDown
	KeyDelete
	KeyInsert
)

// KeyEvent is a single keyboard input, as produced by whatever input
// plumbing sits in front of the core (out of scope per the purpose and
// scope section). Ctrl combines with KeyRune to form a control byte.
type KeyEvent struct {
	Key  Key
	Rune rune
	Ctrl bool
}

// Bytes encodes the event into the byte sequence a PTY expects, per the
// input encoding table: named keys become their fixed escape sequence,
// Ctrl+letter becomes the corresponding control byte, and a bare
// KeyRune is encoded as UTF-8.
func (k KeyEvent) Bytes() []byte {
	if k.Key == KeyRune && k.Ctrl {
		return []byte{ctrlByte(k.Rune)}
	}

	switch k.Key {
	case KeyEnter:
		return []byte{0x0D}
	case KeyTab:
		return []byte{0x09}
	case KeyEscape:
		return []byte{0x1B}
	case KeyBackspace:
		return []byte{0x08}
	case KeyUp:
		return []byte{0x1B, '[', 'A'}
	case KeyDown:
		return []byte{0x1B, '[', 'B'}
	case KeyRight:
		return []byte{0x1B, '[', 'C'}
	case KeyLeft:
		return []byte{0x1B, '[', 'D'}
	case KeyHome:
		return []byte("\x1b[H")
	case KeyEnd:
		return []byte("\x1b[F")
	case KeyPageUp:
		return []byte("\x1b[5~")
	case KeyPageDown:
		return []byte("\x1b[6~")
	case KeyDelete:
		return []byte("\x1b[3~")
	case KeyInsert:
		return []byte("\x1b[2~")
	case KeyRune:
		return []byte(string(k.Rune))
	default:
		return nil
	}
}

// ctrlByte maps a Ctrl+letter combination to its control byte: the
// letter's value with bits 6 and 7 cleared (Ctrl+C -> 0x03, Ctrl+D ->
// 0x04, Ctrl+L -> 0x0C, Ctrl+U -> 0x15, Ctrl+W -> 0x17, and so on for
// the rest of the alphabet).
func ctrlByte(r rune) byte {
	return byte(unicode.ToUpper(r)) & 0x1F
}

const (
	bracketedPasteStart = "\x1b[200~"
	bracketedPasteEnd   = "\x1b[201~"
)

// EncodePaste returns the bytes to send for a pasted string, wrapping
// it in bracketed-paste markers when bracketed is true (the
// application in the PTY requested CSI ?2004h).
func EncodePaste(text string, bracketed bool) []byte {
	if !bracketed {
		return []byte(text)
	}
	out := make([]byte, 0, len(bracketedPasteStart)+len(text)+len(bracketedPasteEnd))
	out = append(out, bracketedPasteStart...)
	out = append(out, text...)
	out = append(out, bracketedPasteEnd...)
	return out
}
