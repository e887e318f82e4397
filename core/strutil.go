package core

// utoa converts an unsigned integer to a string without using fmt
// This is a lightweight alternative for embedded systems
func utoa(n uint32) string {
	var buf [10]byte
	pos := len(buf)
	for {
		pos--
		buf[pos] = byte('0' + n%10)
		n /= 10
		if n == 0 {
			break
		}
	}
	return string(buf[pos:])
}

// itoa converts a signed integer to a string
func itoa(n int) string {
	if n < 0 {
		return "-" + utoa(uint32(-n))
	}
	return utoa(uint32(n))
}
