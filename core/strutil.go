package core

// itoa converts an integer to a string without using fmt or strconv.
// Status lines are built on the MCU, where fmt is heavy.
func itoa(n int) string {
	if n < 0 {
		return "-" + formatUint(uint64(-n))
	}
	return formatUint(uint64(n))
}

// utoa converts an unsigned integer to a string
func utoa(n uint32) string {
	return formatUint(uint64(n))
}

func formatUint(n uint64) string {
	if n == 0 {
		return "0"
	}
	var buf [20]byte
	pos := len(buf)
	for n > 0 {
		pos--
		buf[pos] = byte('0' + n%10)
		n /= 10
	}
	return string(buf[pos:])
}
