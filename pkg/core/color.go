package core

// PackRGB packs 8-bit channels into a 0xRRGGBB value. Channels are clamped
// to [0, 255].
func PackRGB(r, g, b int) uint32 {
	return uint32(clampChannel(r))<<16 | uint32(clampChannel(g))<<8 | uint32(clampChannel(b))
}

// UnpackRGB splits a 0xRRGGBB value into its channels
func UnpackRGB(c uint32) (r, g, b int) {
	return int(c>>16) & 0xff, int(c>>8) & 0xff, int(c) & 0xff
}

func clampChannel(v int) int {
	return max(0, min(255, v))
}
