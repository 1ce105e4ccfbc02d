package mtty

import "image/color"

type parserState int

const (
	stateGround parserState = iota
	stateEscape
	stateEscapeIntermediate
	stateCsiEntry
	stateCsiParam
	stateCsiIntermediate
	stateCsiIgnore
	stateOscString
	stateDcsPassthrough
	stateDcsIgnore
	stateSosPmApcString
)

const maxCsiParams = 32

// Parser is a single-threaded VT/ANSI state machine: it consumes raw
// PTY bytes and emits Commands in byte order, with no internal
// blocking and no fatal error path. Malformed sequences are swallowed
// by transitioning to an ignore state rather than surfacing an error.
type Parser struct {
	state parserState

	params   []int
	curParam int
	hasParam bool
	private  byte

	intermediates []byte
	oscBuf        []byte
	oscEscSeen    bool

	utf8Buf [4]byte
	utf8Len int
	utf8Got int
}

// NewParser returns a Parser in the Ground state.
func NewParser() *Parser {
	return &Parser{state: stateGround}
}

// Parse feeds data through the state machine and returns every Command
// produced. Calling Parse repeatedly with successive chunks of the same
// stream is equivalent to calling it once with the concatenation,
// including when a control sequence is split across chunks.
func (p *Parser) Parse(data []byte) []Command {
	var cmds []Command
	emit := func(c Command) { cmds = append(cmds, c) }
	for _, b := range data {
		p.step(b, emit)
	}
	return cmds
}

func (p *Parser) resetCsi() {
	p.params = p.params[:0]
	p.curParam = 0
	p.hasParam = false
	p.private = 0
	p.intermediates = p.intermediates[:0]
}

func (p *Parser) step(b byte, emit func(Command)) {
	switch p.state {
	case stateGround:
		p.stepGround(b, emit)
	case stateEscape:
		p.stepEscape(b, emit)
	case stateEscapeIntermediate:
		p.stepEscapeIntermediate(b, emit)
	case stateCsiEntry:
		p.stepCsiEntry(b, emit)
	case stateCsiParam:
		p.stepCsiParam(b, emit)
	case stateCsiIntermediate:
		p.stepCsiIntermediate(b, emit)
	case stateCsiIgnore:
		p.stepCsiIgnore(b)
	case stateOscString:
		p.stepOsc(b, emit)
	case stateDcsPassthrough, stateDcsIgnore:
		p.stepDcs(b)
	case stateSosPmApcString:
		p.stepSosPmApc(b)
	}
}

func (p *Parser) stepGround(b byte, emit func(Command)) {
	if p.utf8Len > 0 {
		p.feedUtf8(b, emit)
		return
	}

	switch {
	case b == 0x1B:
		p.state = stateEscape
		p.resetCsi()
	case b < 0x20:
		p.executeControl(b, emit)
	case b == 0x7F:
		// DEL, no defined action in the emission table.
	case b < 0x80:
		emit(Print{Char: rune(b)})
	case b >= 0xC0:
		p.startUtf8(b, emit)
	default:
		// Stray continuation byte with no pending sequence.
		emit(Print{Char: 0xFFFD})
	}
}

func (p *Parser) executeControl(b byte, emit func(Command)) {
	switch b {
	case 0x08:
		emit(Backspace{})
	case 0x09:
		emit(PutTab{})
	case 0x0A, 0x0B, 0x0C:
		emit(NewLine{})
	case 0x0D:
		emit(CarriageReturn{})
	}
}

func (p *Parser) startUtf8(b byte, emit func(Command)) {
	switch {
	case b&0xE0 == 0xC0:
		p.utf8Len = 2
	case b&0xF0 == 0xE0:
		p.utf8Len = 3
	case b&0xF8 == 0xF0:
		p.utf8Len = 4
	default:
		emit(Print{Char: 0xFFFD})
		return
	}
	p.utf8Buf[0] = b
	p.utf8Got = 1
}

func (p *Parser) feedUtf8(b byte, emit func(Command)) {
	if b&0xC0 != 0x80 {
		// Continuation expected but not found: abandon the sequence and
		// reprocess b as a fresh byte.
		p.utf8Len = 0
		emit(Print{Char: 0xFFFD})
		p.stepGround(b, emit)
		return
	}
	p.utf8Buf[p.utf8Got] = b
	p.utf8Got++
	if p.utf8Got < p.utf8Len {
		return
	}
	r := decodeUtf8(p.utf8Buf[:p.utf8Got])
	p.utf8Len = 0
	p.utf8Got = 0
	emit(Print{Char: r})
}

func decodeUtf8(buf []byte) rune {
	switch len(buf) {
	case 2:
		return rune(buf[0]&0x1F)<<6 | rune(buf[1]&0x3F)
	case 3:
		return rune(buf[0]&0x0F)<<12 | rune(buf[1]&0x3F)<<6 | rune(buf[2]&0x3F)
	case 4:
		return rune(buf[0]&0x07)<<18 | rune(buf[1]&0x3F)<<12 | rune(buf[2]&0x3F)<<6 | rune(buf[3]&0x3F)
	default:
		return 0xFFFD
	}
}

func (p *Parser) stepEscape(b byte, emit func(Command)) {
	switch {
	case b == '[':
		p.state = stateCsiEntry
	case b == ']':
		p.state = stateOscString
		p.oscBuf = p.oscBuf[:0]
		p.oscEscSeen = false
	case b == 'P':
		p.state = stateDcsPassthrough
	case b == 'X' || b == '^' || b == '_':
		p.state = stateSosPmApcString
	case b >= 0x20 && b <= 0x2F:
		p.intermediates = append(p.intermediates, b)
		p.state = stateEscapeIntermediate
	case b >= 0x30 && b <= 0x7E:
		p.dispatchEscape(b, emit)
		p.state = stateGround
	default:
		p.state = stateGround
	}
}

func (p *Parser) stepEscapeIntermediate(b byte, emit func(Command)) {
	switch {
	case b >= 0x20 && b <= 0x2F:
		p.intermediates = append(p.intermediates, b)
	case b >= 0x30 && b <= 0x7E:
		p.dispatchEscape(b, emit)
		p.state = stateGround
	default:
		p.state = stateGround
	}
}

func (p *Parser) dispatchEscape(final byte, emit func(Command)) {
	switch final {
	case '7':
		emit(SaveCursor{})
	case '8':
		emit(RestoreCursor{})
	}
}

func (p *Parser) stepCsiEntry(b byte, emit func(Command)) {
	switch {
	case b == '?' || b == '>' || b == '=':
		p.private = b
		p.state = stateCsiParam
	case b >= '0' && b <= '9':
		p.state = stateCsiParam
		p.stepCsiParam(b, emit)
	case b == ';':
		p.state = stateCsiParam
		p.stepCsiParam(b, emit)
	case b >= 0x20 && b <= 0x2F:
		p.intermediates = append(p.intermediates, b)
		p.state = stateCsiIntermediate
	case b >= 0x40 && b <= 0x7E:
		p.pushParam()
		p.dispatchCsi(b, emit)
		p.state = stateGround
	default:
		p.state = stateCsiIgnore
	}
}

func (p *Parser) pushParam() {
	if len(p.params) >= maxCsiParams {
		return
	}
	p.params = append(p.params, p.curParam)
	p.curParam = 0
	p.hasParam = false
}

func (p *Parser) stepCsiParam(b byte, emit func(Command)) {
	switch {
	case b >= '0' && b <= '9':
		p.hasParam = true
		p.curParam = p.curParam*10 + int(b-'0')
		if p.curParam > 1<<20 {
			p.curParam = 1 << 20 // clamp, never overflow
		}
	case b == ';' || b == ':':
		p.pushParam()
	case b >= 0x20 && b <= 0x2F:
		p.pushParam()
		p.intermediates = append(p.intermediates, b)
		p.state = stateCsiIntermediate
	case b >= 0x40 && b <= 0x7E:
		p.pushParam()
		p.dispatchCsi(b, emit)
		p.state = stateGround
	default:
		p.state = stateCsiIgnore
	}
}

func (p *Parser) stepCsiIntermediate(b byte, emit func(Command)) {
	switch {
	case b >= 0x20 && b <= 0x2F:
		p.intermediates = append(p.intermediates, b)
	case b >= 0x40 && b <= 0x7E:
		p.dispatchCsi(b, emit)
		p.state = stateGround
	default:
		p.state = stateCsiIgnore
	}
}

func (p *Parser) stepCsiIgnore(b byte) {
	if b >= 0x40 && b <= 0x7E {
		p.state = stateGround
	}
}

// param returns the i'th CSI parameter or def if absent/zero, matching
// the VT convention that an omitted or zero parameter means "default".
func (p *Parser) param(i, def int) int {
	if i >= len(p.params) || p.params[i] == 0 {
		return def
	}
	return p.params[i]
}

// paramRaw returns the i'th CSI parameter or -1 if absent, with no
// default substitution. No dispatch uses it: J/K/n read param(0, 0).
func (p *Parser) paramRaw(i int) int {
	if i >= len(p.params) {
		return -1
	}
	return p.params[i]
}

func (p *Parser) dispatchCsi(final byte, emit func(Command)) {
	n := p.param(0, 1)

	switch final {
	case 'A':
		emit(MoveCursorVertical{Delta: -n})
	case 'B':
		emit(MoveCursorVertical{Delta: n})
	case 'C':
		emit(MoveCursorHorizontal{Delta: n})
	case 'D':
		emit(MoveCursorHorizontal{Delta: -n})
	case 'E':
		emit(MoveCursorVerticalWithCarriageReturn{Delta: n})
	case 'F':
		emit(MoveCursorVerticalWithCarriageReturn{Delta: -n})
	case 'G':
		emit(MoveCursorAbsoluteHorizontal{Col: n - 1})
	case 'H', 'f':
		row := p.param(0, 1)
		col := p.param(1, 1)
		emit(MoveCursor{Row: row - 1, Col: col - 1})
	case 'J':
		switch p.param(0, 0) {
		case 1:
			emit(ClearAbove{})
		case 2, 3:
			emit(ClearScreen{})
		default:
			emit(ClearBelow{})
		}
	case 'K':
		switch p.param(0, 0) {
		case 1:
			emit(ClearLineBeforeCursor{})
		case 2:
			emit(ClearLine{})
		default:
			emit(ClearLineAfterCursor{})
		}
	case 'X':
		emit(ClearCount{N: n})
	case 'M':
		emit(DeleteLines{N: n})
	case 's':
		if p.private == 0 {
			emit(SaveCursor{})
		}
	case 'u':
		if p.private == 0 {
			emit(RestoreCursor{})
		}
	case 'h', 'l':
		p.dispatchMode(final == 'h', emit)
	case 'm':
		p.dispatchSgr(emit)
	case 'c':
		if p.private == '>' {
			emit(IdentifyTerminal{Kind: TerminalIDSecondary})
		} else if p.private == 0 {
			emit(IdentifyTerminal{Kind: TerminalIDPrimary})
		}
	case 'n':
		switch p.param(0, 0) {
		case 5:
			emit(ReportCondition{Healthy: true})
		case 6:
			emit(ReportCursorPosition{})
		}
	case 'q':
		if len(p.intermediates) == 1 && p.intermediates[0] == ' ' {
			emit(SetCursorShape{Shape: cursorShapeFromParam(p.param(0, 1))})
		}
	}
}

func cursorShapeFromParam(n int) CursorShape {
	switch n {
	case 3, 4:
		return CursorShapeUnderline
	case 5, 6:
		return CursorShapeBar
	default:
		return CursorShapeBlock
	}
}

func (p *Parser) dispatchMode(set bool, emit func(Command)) {
	if p.private != '?' {
		return
	}
	for _, mode := range p.params {
		switch mode {
		case 25:
			if set {
				emit(ShowCursor{})
			} else {
				emit(HideCursor{})
			}
		case 1049:
			emit(SwapScreenAndSetRestoreCursor{})
		case 2004:
			emit(BrackPasteMode{Enabled: set})
		}
	}
}

func (p *Parser) dispatchSgr(emit func(Command)) {
	params := p.params
	if len(params) == 0 {
		params = []int{0}
	}
	for i := 0; i < len(params); i++ {
		n := params[i]
		switch {
		case n == 0:
			emit(SGR{Attribute: SgrAttribute{Kind: SgrReset}})
		case n == 1:
			emit(SGR{Attribute: SgrAttribute{Kind: SgrBold}})
		case n == 2:
			emit(SGR{Attribute: SgrAttribute{Kind: SgrDim}})
		case n == 3:
			emit(SGR{Attribute: SgrAttribute{Kind: SgrItalic}})
		case n == 4:
			emit(SGR{Attribute: SgrAttribute{Kind: SgrUnderline}})
		case n == 5:
			emit(SGR{Attribute: SgrAttribute{Kind: SgrBlinkSlow}})
		case n == 6:
			emit(SGR{Attribute: SgrAttribute{Kind: SgrBlinkFast}})
		case n == 7:
			emit(SGR{Attribute: SgrAttribute{Kind: SgrReverse}})
		case n == 8:
			emit(SGR{Attribute: SgrAttribute{Kind: SgrHidden}})
		case n == 9:
			emit(SGR{Attribute: SgrAttribute{Kind: SgrStrike}})
		case n == 21:
			emit(SGR{Attribute: SgrAttribute{Kind: SgrDoubleUnderline}})
		case n == 22:
			emit(SGR{Attribute: SgrAttribute{Kind: SgrCancelBold}})
			emit(SGR{Attribute: SgrAttribute{Kind: SgrCancelDim}})
		case n == 23:
			emit(SGR{Attribute: SgrAttribute{Kind: SgrCancelItalic}})
		case n == 24:
			emit(SGR{Attribute: SgrAttribute{Kind: SgrCancelUnderline}})
		case n == 25:
			emit(SGR{Attribute: SgrAttribute{Kind: SgrCancelBlink}})
		case n == 27:
			emit(SGR{Attribute: SgrAttribute{Kind: SgrCancelReverse}})
		case n == 28:
			emit(SGR{Attribute: SgrAttribute{Kind: SgrCancelHidden}})
		case n == 29:
			emit(SGR{Attribute: SgrAttribute{Kind: SgrCancelStrike}})
		case n >= 30 && n <= 37:
			emit(SGR{Attribute: SgrAttribute{Kind: SgrForeground, Color: &NamedColor{Name: n - 30}}})
		case n == 38:
			c, consumed := parseExtendedColor(params[i+1:])
			emit(SGR{Attribute: SgrAttribute{Kind: SgrForeground, Color: c}})
			i += consumed
		case n == 39:
			emit(SGR{Attribute: SgrAttribute{Kind: SgrForeground, Color: &NamedColor{Name: ColorForeground}}})
		case n >= 40 && n <= 47:
			emit(SGR{Attribute: SgrAttribute{Kind: SgrBackground, Color: &NamedColor{Name: n - 40}}})
		case n == 48:
			c, consumed := parseExtendedColor(params[i+1:])
			emit(SGR{Attribute: SgrAttribute{Kind: SgrBackground, Color: c}})
			i += consumed
		case n == 49:
			emit(SGR{Attribute: SgrAttribute{Kind: SgrBackground, Color: &NamedColor{Name: ColorBackground}}})
		case n == 58:
			c, consumed := parseExtendedColor(params[i+1:])
			emit(SGR{Attribute: SgrAttribute{Kind: SgrUnderlineColor, Color: c}})
			i += consumed
		case n == 59:
			emit(SGR{Attribute: SgrAttribute{Kind: SgrUnderlineColor, Color: nil}})
		case n >= 90 && n <= 97:
			emit(SGR{Attribute: SgrAttribute{Kind: SgrForeground, Color: &NamedColor{Name: ColorBrightBlack + (n - 90)}}})
		case n >= 100 && n <= 107:
			emit(SGR{Attribute: SgrAttribute{Kind: SgrBackground, Color: &NamedColor{Name: ColorBrightBlack + (n - 100)}}})
		default:
			// unrecognized SGR param: skip without aborting the sequence.
		}
	}
}

// parseExtendedColor decodes the `5;i` (indexed) or `2;r;g;b` (RGB) tail
// of a 38/48/58 compound SGR param, returning the resolved Color and
// how many additional params it consumed.
func parseExtendedColor(rest []int) (Color, int) {
	if len(rest) == 0 {
		return nil, 0
	}
	switch rest[0] {
	case 5:
		if len(rest) >= 2 {
			return &IndexedColor{Index: rest[1]}, 2
		}
		return nil, 1
	case 2:
		if len(rest) >= 4 {
			return color.RGBA{R: uint8(rest[1]), G: uint8(rest[2]), B: uint8(rest[3]), A: 255}, 4
		}
		return nil, 1
	default:
		return nil, 1
	}
}

func (p *Parser) stepOsc(b byte, emit func(Command)) {
	if p.oscEscSeen {
		if b == '\\' {
			p.dispatchOsc(emit)
			p.state = stateGround
			return
		}
		p.oscEscSeen = false
		p.oscBuf = append(p.oscBuf, 0x1B)
	}

	switch b {
	case 0x07:
		p.dispatchOsc(emit)
		p.state = stateGround
	case 0x1B:
		p.oscEscSeen = true
	default:
		p.oscBuf = append(p.oscBuf, b)
	}
}

func (p *Parser) dispatchOsc(emit func(Command)) {
	fields := splitOsc(p.oscBuf)
	if len(fields) == 0 {
		return
	}
	switch fields[0] {
	case "4":
		if len(fields) >= 3 {
			if rgb, ok := parseOscRgb(fields[2]); ok {
				emit(SetColor{Index: atoiOr(fields[1], -1), RGB: rgb})
			}
		}
	case "104":
		if len(fields) >= 2 {
			emit(ResetColor{Index: atoiOr(fields[1], -1)})
		}
	}
}

func splitOsc(buf []byte) []string {
	var fields []string
	start := 0
	for i := 0; i <= len(buf); i++ {
		if i == len(buf) || buf[i] == ';' {
			fields = append(fields, string(buf[start:i]))
			start = i + 1
		}
	}
	return fields
}

func atoiOr(s string, def int) int {
	n := 0
	if s == "" {
		return def
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return def
		}
		n = n*10 + int(r-'0')
	}
	return n
}

// parseOscRgb parses the "rgb:rr/gg/bb" color spec used by OSC 4.
func parseOscRgb(s string) (color.RGBA, bool) {
	if len(s) < 4 || s[:4] != "rgb:" {
		return color.RGBA{}, false
	}
	parts := s[4:]
	var comps [3]uint8
	idx := 0
	cur := ""
	flush := func() bool {
		if idx >= 3 {
			return false
		}
		v, ok := hexByte(cur)
		if !ok {
			return false
		}
		comps[idx] = v
		idx++
		cur = ""
		return true
	}
	for _, r := range parts {
		if r == '/' {
			if !flush() {
				return color.RGBA{}, false
			}
			continue
		}
		cur += string(r)
	}
	if !flush() || idx != 3 {
		return color.RGBA{}, false
	}
	return color.RGBA{R: comps[0], G: comps[1], B: comps[2], A: 255}, true
}

func hexByte(s string) (uint8, bool) {
	if len(s) == 0 {
		return 0, false
	}
	if len(s) > 2 {
		s = s[:2]
	}
	var v int
	for _, r := range s {
		var d int
		switch {
		case r >= '0' && r <= '9':
			d = int(r - '0')
		case r >= 'a' && r <= 'f':
			d = int(r-'a') + 10
		case r >= 'A' && r <= 'F':
			d = int(r-'A') + 10
		default:
			return 0, false
		}
		v = v*16 + d
	}
	return uint8(v), true
}

func (p *Parser) stepDcs(b byte) {
	if p.oscEscSeen {
		if b == '\\' {
			p.state = stateGround
			p.oscEscSeen = false
			return
		}
		p.oscEscSeen = false
	}
	if b == 0x1B {
		p.oscEscSeen = true
	}
}

func (p *Parser) stepSosPmApc(b byte) {
	p.stepDcs(b)
}
