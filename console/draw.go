package console

// drawColor returns the palette index selected by draw-colour slot n (1-4)
// and false when that slot is transparent.
func (m *Memory) drawColor(n uint) (uint8, bool) {
	v := uint8(m.DrawColors>>((n-1)*4)) & 0xf
	if v == 0 {
		return 0, false
	}
	return (v - 1) & 3, true
}

// Clear fills the framebuffer with palette colour 0.
func (m *Memory) Clear() {
	m.Framebuffer = [FramebufferSize]byte{}
}

// SetPixel writes palette index color at (x, y). Off-screen writes are ignored.
func (m *Memory) SetPixel(x, y int, color uint8) {
	if x < 0 || y < 0 || x >= ScreenSize || y >= ScreenSize {
		return
	}
	i := y*ScreenSize + x
	shift := uint(i&3) * 2
	b := &m.Framebuffer[i>>2]
	*b = *b&^(3<<shift) | (color&3)<<shift
}

// PixelAt returns the palette index at (x, y), or 0 off screen.
func (m *Memory) PixelAt(x, y int) uint8 {
	if x < 0 || y < 0 || x >= ScreenSize || y >= ScreenSize {
		return 0
	}
	i := y*ScreenSize + x
	return m.Framebuffer[i>>2] >> (uint(i&3) * 2) & 3
}

// HLine draws a horizontal line of length n with draw colour 1.
func (m *Memory) HLine(x, y, n int) {
	c, ok := m.drawColor(1)
	if !ok {
		return
	}
	for i := 0; i < n; i++ {
		m.SetPixel(x+i, y, c)
	}
}

// VLine draws a vertical line of length n with draw colour 1.
func (m *Memory) VLine(x, y, n int) {
	c, ok := m.drawColor(1)
	if !ok {
		return
	}
	for i := 0; i < n; i++ {
		m.SetPixel(x, y+i, c)
	}
}

// Rect fills a w x h rectangle with draw colour 1 and outlines it with draw
// colour 2. Either may be transparent.
func (m *Memory) Rect(x, y, w, h int) {
	if w <= 0 || h <= 0 {
		return
	}
	if fill, ok := m.drawColor(1); ok {
		for j := 0; j < h; j++ {
			for i := 0; i < w; i++ {
				m.SetPixel(x+i, y+j, fill)
			}
		}
	}
	if line, ok := m.drawColor(2); ok {
		for i := 0; i < w; i++ {
			m.SetPixel(x+i, y, line)
			m.SetPixel(x+i, y+h-1, line)
		}
		for j := 0; j < h; j++ {
			m.SetPixel(x, y+j, line)
			m.SetPixel(x+w-1, y+j, line)
		}
	}
}

// Blit draws a 1-bit-per-pixel sprite, most significant bit first, rows
// packed back to back. Clear bits use draw colour 1 and set bits draw
// colour 2; transparent slots leave the framebuffer untouched.
func (m *Memory) Blit(sprite []byte, x, y, width, height int, flags uint32) {
	c0, ok0 := m.drawColor(1)
	c1, ok1 := m.drawColor(2)
	for row := 0; row < height; row++ {
		for col := 0; col < width; col++ {
			bit := row*width + col
			if bit>>3 >= len(sprite) {
				return
			}
			set := sprite[bit>>3]&(0x80>>(bit&7)) != 0
			dx, dy := col, row
			if flags&BlitFlipX != 0 {
				dx = width - 1 - col
			}
			if flags&BlitFlipY != 0 {
				dy = height - 1 - row
			}
			switch {
			case set && ok1:
				m.SetPixel(x+dx, y+dy, c1)
			case !set && ok0:
				m.SetPixel(x+dx, y+dy, c0)
			}
		}
	}
}
