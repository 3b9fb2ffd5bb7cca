//go:build rp2040 && !alarm0 && !alarm1 && !alarm2 && !alarm3

package main

// No hardware alarm selected. Build with one of -tags alarm0, alarm1, alarm2
// or alarm3 (alarm1 is the usual choice next to TinyGo's runtime).
var _ = selectHardwareAlarmWithBuildTag
