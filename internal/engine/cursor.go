package engine

import "strings"

// cursor walks a block of engine output. end bounds every search.
type cursor struct {
	text string
	pos  int
	end  int
}

func newCursor(text string) *cursor {
	return &cursor{text: text, end: len(text)}
}

// sub returns a cursor over text[c.pos:end].
func (c *cursor) sub(end int) *cursor {
	if end > c.end {
		end = c.end
	}
	return &cursor{text: c.text, pos: c.pos, end: end}
}

func (c *cursor) rest() string {
	return c.text[c.pos:c.end]
}

// index reports where marker starts, or -1.
func (c *cursor) index(marker string) int {
	i := strings.Index(c.rest(), marker)
	if i < 0 {
		return -1
	}
	return c.pos + i
}

// seek moves past the next occurrence of marker.
func (c *cursor) seek(marker string) bool {
	i := c.index(marker)
	if i < 0 {
		return false
	}
	c.pos = i + len(marker)
	return true
}

// token reads up to the next space or line terminator.
func (c *cursor) token() string {
	rest := c.rest()
	n := strings.IndexAny(rest, " \n")
	if n < 0 {
		n = len(rest)
	}
	c.pos += n
	return strings.TrimSuffix(rest[:n], "\r")
}

// line reads up to the line terminator.
func (c *cursor) line() string {
	rest := c.rest()
	n := strings.IndexByte(rest, '\n')
	if n < 0 {
		n = len(rest)
	}
	c.pos += n
	return strings.TrimSuffix(rest[:n], "\r")
}
