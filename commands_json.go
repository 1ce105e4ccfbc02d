package mtty

import (
	"encoding/json"
	"fmt"
	"image/color"
)

// Command and Color are interfaces, so Commands recorded into a
// Recording need an explicit wire encoding: a type tag alongside the
// concrete payload. This file holds the wire tag of every concrete
// Command and Color implementation.

// commandTypeName returns the wire tag for a concrete Command value.
func commandTypeName(c Command) string {
	switch c.(type) {
	case Print:
		return "Print"
	case Backspace:
		return "Backspace"
	case PutTab:
		return "PutTab"
	case NewLine:
		return "NewLine"
	case CarriageReturn:
		return "CarriageReturn"
	case MoveCursorVertical:
		return "MoveCursorVertical"
	case MoveCursorHorizontal:
		return "MoveCursorHorizontal"
	case MoveCursor:
		return "MoveCursor"
	case MoveCursorAbsoluteHorizontal:
		return "MoveCursorAbsoluteHorizontal"
	case MoveCursorVerticalWithCarriageReturn:
		return "MoveCursorVerticalWithCarriageReturn"
	case ClearBelow:
		return "ClearBelow"
	case ClearAbove:
		return "ClearAbove"
	case ClearScreen:
		return "ClearScreen"
	case ClearLineAfterCursor:
		return "ClearLineAfterCursor"
	case ClearLineBeforeCursor:
		return "ClearLineBeforeCursor"
	case ClearLine:
		return "ClearLine"
	case ClearCount:
		return "ClearCount"
	case DeleteLines:
		return "DeleteLines"
	case SaveCursor:
		return "SaveCursor"
	case RestoreCursor:
		return "RestoreCursor"
	case ShowCursor:
		return "ShowCursor"
	case HideCursor:
		return "HideCursor"
	case SwapScreenAndSetRestoreCursor:
		return "SwapScreenAndSetRestoreCursor"
	case BrackPasteMode:
		return "BrackPasteMode"
	case SGR:
		return "SGR"
	case IdentifyTerminal:
		return "IdentifyTerminal"
	case ReportCursorPosition:
		return "ReportCursorPosition"
	case ReportCondition:
		return "ReportCondition"
	case SetColor:
		return "SetColor"
	case ResetColor:
		return "ResetColor"
	case SetCursorShape:
		return "SetCursorShape"
	default:
		return ""
	}
}

// decodeCommand rebuilds a Command from its wire tag and raw payload.
func decodeCommand(typeName string, raw json.RawMessage) (Command, error) {
	unmarshal := func(v any) error {
		if len(raw) == 0 {
			return nil
		}
		return json.Unmarshal(raw, v)
	}

	switch typeName {
	case "Print":
		var v Print
		return v, unmarshal(&v)
	case "Backspace":
		return Backspace{}, nil
	case "PutTab":
		return PutTab{}, nil
	case "NewLine":
		return NewLine{}, nil
	case "CarriageReturn":
		return CarriageReturn{}, nil
	case "MoveCursorVertical":
		var v MoveCursorVertical
		return v, unmarshal(&v)
	case "MoveCursorHorizontal":
		var v MoveCursorHorizontal
		return v, unmarshal(&v)
	case "MoveCursor":
		var v MoveCursor
		return v, unmarshal(&v)
	case "MoveCursorAbsoluteHorizontal":
		var v MoveCursorAbsoluteHorizontal
		return v, unmarshal(&v)
	case "MoveCursorVerticalWithCarriageReturn":
		var v MoveCursorVerticalWithCarriageReturn
		return v, unmarshal(&v)
	case "ClearBelow":
		return ClearBelow{}, nil
	case "ClearAbove":
		return ClearAbove{}, nil
	case "ClearScreen":
		return ClearScreen{}, nil
	case "ClearLineAfterCursor":
		return ClearLineAfterCursor{}, nil
	case "ClearLineBeforeCursor":
		return ClearLineBeforeCursor{}, nil
	case "ClearLine":
		return ClearLine{}, nil
	case "ClearCount":
		var v ClearCount
		return v, unmarshal(&v)
	case "DeleteLines":
		var v DeleteLines
		return v, unmarshal(&v)
	case "SaveCursor":
		return SaveCursor{}, nil
	case "RestoreCursor":
		return RestoreCursor{}, nil
	case "ShowCursor":
		return ShowCursor{}, nil
	case "HideCursor":
		return HideCursor{}, nil
	case "SwapScreenAndSetRestoreCursor":
		return SwapScreenAndSetRestoreCursor{}, nil
	case "BrackPasteMode":
		var v BrackPasteMode
		return v, unmarshal(&v)
	case "SGR":
		var v SGR
		return v, unmarshal(&v)
	case "IdentifyTerminal":
		var v IdentifyTerminal
		return v, unmarshal(&v)
	case "ReportCursorPosition":
		return ReportCursorPosition{}, nil
	case "ReportCondition":
		var v ReportCondition
		return v, unmarshal(&v)
	case "SetColor":
		var v SetColor
		return v, unmarshal(&v)
	case "ResetColor":
		var v ResetColor
		return v, unmarshal(&v)
	case "SetCursorShape":
		var v SetCursorShape
		return v, unmarshal(&v)
	default:
		return nil, fmt.Errorf("mtty: unknown command type %q", typeName)
	}
}

// recordedEventWire is the on-disk shape of a RecordedEvent: the
// Command interface field is split into a type tag and raw payload.
type recordedEventWire struct {
	Sequence    int             `json:"sequence"`
	TimestampMs int64           `json:"timestamp_ms"`
	Type        string          `json:"type"`
	Command     json.RawMessage `json:"command"`
}

// MarshalJSON implements json.Marshaler for RecordedEvent.
func (e RecordedEvent) MarshalJSON() ([]byte, error) {
	payload, err := json.Marshal(e.Command)
	if err != nil {
		return nil, err
	}
	return json.Marshal(recordedEventWire{
		Sequence:    e.Sequence,
		TimestampMs: e.TimestampMs,
		Type:        commandTypeName(e.Command),
		Command:     payload,
	})
}

// UnmarshalJSON implements json.Unmarshaler for RecordedEvent.
func (e *RecordedEvent) UnmarshalJSON(data []byte) error {
	var wire recordedEventWire
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	cmd, err := decodeCommand(wire.Type, wire.Command)
	if err != nil {
		return err
	}
	e.Sequence = wire.Sequence
	e.TimestampMs = wire.TimestampMs
	e.Command = cmd
	return nil
}

// colorWire is the tagged JSON shape for a Color value.
type colorWire struct {
	Kind  string `json:"kind"`
	R     uint8  `json:"r,omitempty"`
	G     uint8  `json:"g,omitempty"`
	B     uint8  `json:"b,omitempty"`
	Index int    `json:"index,omitempty"`
	Name  int    `json:"name,omitempty"`
}

func marshalColor(c Color) (colorWire, bool) {
	switch v := c.(type) {
	case nil:
		return colorWire{}, false
	case color.RGBA:
		return colorWire{Kind: "rgba", R: v.R, G: v.G, B: v.B}, true
	case *IndexedColor:
		return colorWire{Kind: "indexed", Index: v.Index}, true
	case *NamedColor:
		return colorWire{Kind: "named", Name: v.Name}, true
	default:
		return colorWire{}, false
	}
}

func unmarshalColor(w colorWire, present bool) Color {
	if !present {
		return nil
	}
	switch w.Kind {
	case "rgba":
		return color.RGBA{R: w.R, G: w.G, B: w.B, A: 255}
	case "indexed":
		return &IndexedColor{Index: w.Index}
	case "named":
		return &NamedColor{Name: w.Name}
	default:
		return nil
	}
}

// MarshalJSON implements json.Marshaler for SgrAttribute, whose Color
// field is an interface.
func (attr SgrAttribute) MarshalJSON() ([]byte, error) {
	wire, ok := marshalColor(attr.Color)
	return json.Marshal(struct {
		Kind  SgrKind    `json:"kind"`
		Color *colorWire `json:"color,omitempty"`
	}{
		Kind:  attr.Kind,
		Color: colorPtr(wire, ok),
	})
}

func colorPtr(w colorWire, ok bool) *colorWire {
	if !ok {
		return nil
	}
	return &w
}

// UnmarshalJSON implements json.Unmarshaler for SgrAttribute.
func (attr *SgrAttribute) UnmarshalJSON(data []byte) error {
	var wire struct {
		Kind  SgrKind    `json:"kind"`
		Color *colorWire `json:"color,omitempty"`
	}
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	attr.Kind = wire.Kind
	if wire.Color != nil {
		attr.Color = unmarshalColor(*wire.Color, true)
	} else {
		attr.Color = nil
	}
	return nil
}

// MarshalJSON implements json.Marshaler for SetColor, whose RGB field
// is a concrete color.RGBA and needs no tagging, but is included here
// to keep all Command JSON logic in one file.
func (c SetColor) MarshalJSON() ([]byte, error) {
	type wire struct {
		Index int   `json:"index"`
		R     uint8 `json:"r"`
		G     uint8 `json:"g"`
		B     uint8 `json:"b"`
	}
	return json.Marshal(wire{Index: c.Index, R: c.RGB.R, G: c.RGB.G, B: c.RGB.B})
}

// UnmarshalJSON implements json.Unmarshaler for SetColor.
func (c *SetColor) UnmarshalJSON(data []byte) error {
	var wire struct {
		Index int   `json:"index"`
		R     uint8 `json:"r"`
		G     uint8 `json:"g"`
		B     uint8 `json:"b"`
	}
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	c.Index = wire.Index
	c.RGB = color.RGBA{R: wire.R, G: wire.G, B: wire.B, A: 255}
	return nil
}
