package util

// SniffImageExt guesses a file extension for raw image bytes. Telegram strips
// filenames from photo messages, so the upload needs one synthesized.
func SniffImageExt(b []byte) string {
	if len(b) >= 2 && b[0] == 0xFF && b[1] == 0xD8 {
		return ".jpg"
	}
	if len(b) >= 8 &&
		b[0] == 0x89 && b[1] == 0x50 && b[2] == 0x4E && b[3] == 0x47 &&
		b[4] == 0x0D && b[5] == 0x0A && b[6] == 0x1A && b[7] == 0x0A {
		return ".png"
	}
	// Telegram re-encodes photos as JPEG
	return ".jpg"
}
