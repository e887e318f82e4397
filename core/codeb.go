package core

// Code B is the BCD font of MAX7219-style 7-segment drivers. A digit
// register holds 0-9 in the low nibble and the decimal point in bit 7.
const (
	CodeBBlank = 0x0F // Blank digit
	CodeBDP    = 0x80 // Decimal point segment
)

// CodeBDecodeMask returns the decode-mode register value that enables
// Code B on the first n digit registers.
func CodeBDecodeMask(n int) byte {
	if n >= 8 {
		return 0xFF
	}
	if n <= 0 {
		return 0
	}
	return byte(1)<<uint(n) - 1
}

// CodeBFrame returns the digit register contents for s. Register 0 is the
// rightmost digit (seconds units). The decimal points after the hours and
// minutes act as separators and go dark while paused.
func CodeBFrame(s Snapshot) [DisplayDigits]byte {
	digits := s.Time.Digits()

	var frame [DisplayDigits]byte
	for i := range frame {
		v := digits[DisplayDigits-1-i]
		if (i == 2 || i == 4) && s.Run == Running {
			v |= CodeBDP
		}
		frame[i] = v
	}
	return frame
}

// BlankFrame returns a frame with every digit dark
func BlankFrame() [DisplayDigits]byte {
	var frame [DisplayDigits]byte
	for i := range frame {
		frame[i] = CodeBBlank
	}
	return frame
}
