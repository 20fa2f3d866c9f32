package printer

import (
	"bytes"
	"strings"
	"unicode/utf8"
)

const (
	esc = 0x1B
	gs  = 0x1D
	lf  = 0x0A
)

// Slip accumulates an ESC/POS receipt. Text is folded to ASCII since most
// counter printers ship without a Turkish code page.
type Slip struct {
	buf   bytes.Buffer
	width int
}

// NewSlip starts a slip for paper of the given width in characters
// (32 for 58mm, 48 for 80mm).
func NewSlip(width int) *Slip {
	if width <= 0 {
		width = 32
	}
	s := &Slip{width: width}
	s.buf.Write([]byte{esc, '@'})
	return s
}

// Width returns the characters per line.
func (s *Slip) Width() int { return s.width }

// Title prints a centered, bold, double-size line.
func (s *Slip) Title(text string) *Slip {
	s.buf.Write([]byte{esc, 'a', 1, esc, 'E', 1, gs, '!', 0x11})
	s.line(text)
	s.buf.Write([]byte{gs, '!', 0x00, esc, 'E', 0, esc, 'a', 0})
	return s
}

// Center prints a centered line.
func (s *Slip) Center(text string) *Slip {
	s.buf.Write([]byte{esc, 'a', 1})
	s.line(text)
	s.buf.Write([]byte{esc, 'a', 0})
	return s
}

// Line prints text as is, truncated to the paper width.
func (s *Slip) Line(text string) *Slip {
	s.line(truncate(Fold(text), s.width))
	return s
}

// Row prints left and right on one line, padding between them. A left side
// that does not fit is truncated.
func (s *Slip) Row(left, right string) *Slip {
	left, right = Fold(left), Fold(right)
	room := s.width - utf8.RuneCountInString(right) - 1
	if room < 1 {
		room = 1
	}
	left = truncate(left, room)
	pad := s.width - utf8.RuneCountInString(left) - utf8.RuneCountInString(right)
	if pad < 1 {
		pad = 1
	}
	s.line(left + strings.Repeat(" ", pad) + right)
	return s
}

// Strong prints a bold row.
func (s *Slip) Strong(left, right string) *Slip {
	s.buf.Write([]byte{esc, 'E', 1})
	s.Row(left, right)
	s.buf.Write([]byte{esc, 'E', 0})
	return s
}

// Rule prints a full-width dashed line.
func (s *Slip) Rule() *Slip {
	s.line(strings.Repeat("-", s.width))
	return s
}

// Feed advances n lines.
func (s *Slip) Feed(n int) *Slip {
	for range n {
		s.buf.WriteByte(lf)
	}
	return s
}

// Cut feeds past the tear bar and cuts partially.
func (s *Slip) Cut() *Slip {
	s.Feed(3)
	s.buf.Write([]byte{gs, 'V', 0x01})
	return s
}

// Bytes returns the ESC/POS stream.
func (s *Slip) Bytes() []byte {
	return s.buf.Bytes()
}

func (s *Slip) line(text string) {
	s.buf.WriteString(Fold(text))
	s.buf.WriteByte(lf)
}

var fold = strings.NewReplacer(
	"ç", "c", "Ç", "C",
	"ğ", "g", "Ğ", "G",
	"ı", "i", "İ", "I",
	"ö", "o", "Ö", "O",
	"ş", "s", "Ş", "S",
	"ü", "u", "Ü", "U",
	"₺", "TL",
)

// Fold replaces Turkish letters with their ASCII base and drops any other
// non-ASCII rune.
func Fold(text string) string {
	text = fold.Replace(text)
	return strings.Map(func(r rune) rune {
		if r > 0x7E || (r < 0x20 && r != '\t') {
			return -1
		}
		return r
	}, text)
}

func truncate(text string, n int) string {
	if utf8.RuneCountInString(text) <= n {
		return text
	}
	r := []rune(text)
	return string(r[:n])
}
