package xwm

import (
	"github.com/jezek/xgb/xproto"
)

// Glyphs of the X core "cursor" font.
// See https://github.com/BurntSushi/xgbutil/blob/master/xcursor/xcursor.go
const (
	CursorHand2   uint16 = 60
	CursorLeftPtr uint16 = 68
)

// CreateCursor creates a white on black glyph cursor.
func (c *Conn) CreateCursor(glyph uint16) (xproto.Cursor, error) {
	return c.CreateCursorColor(glyph, 0xffff, 0xffff, 0xffff, 0, 0, 0)
}

func (c *Conn) CreateCursorColor(glyph, foreRed, foreGreen, foreBlue,
	backRed, backGreen, backBlue uint16) (xproto.Cursor, error) {

	fontID, err := xproto.NewFontId(c.X)
	if err != nil {
		return 0, err
	}

	cursorID, err := xproto.NewCursorId(c.X)
	if err != nil {
		return 0, err
	}

	const font = "cursor"
	if err := xproto.OpenFontChecked(c.X, fontID, uint16(len(font)), font).Check(); err != nil {
		return 0, err
	}
	defer xproto.CloseFont(c.X, fontID)

	err = xproto.CreateGlyphCursorChecked(c.X, cursorID, fontID, fontID,
		glyph, glyph+1,
		foreRed, foreGreen, foreBlue,
		backRed, backGreen, backBlue).Check()
	if err != nil {
		return 0, err
	}

	return cursorID, nil
}
