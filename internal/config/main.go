package config

import (
	"strconv"
	"strings"

	"gopkg.in/alecthomas/kingpin.v2"
)

var (
	Directory     = kingpin.Arg("directory", "Song/chart directory").Required().ExistingDir()
	Rate          = kingpin.Flag("rate", "Playback speed").Default("1.0").Short('r').Float64()
	Offset        = kingpin.Flag("offset", "Global offset").Default("0ms").Short('o').Duration()
	Volume        = kingpin.Flag("volume", "Volume, 0 is unity, negative is quieter").Default("0").Short('v').Float64()
	ColumnSpacing = kingpin.Flag("spacing", "Columns between lanes").Default("6").Short('S').Uint()
	FramePeriod   = kingpin.Flag("frame-period", "Render frame period").Default("4ms").Short('p').Duration()
	ScrollSpeed   = kingpin.Flag("scroll-speed", "Rows a note travels per second").Default("16").Short('s').Float64()
	Visible       = kingpin.Flag("visible", "How far ahead of the receptors to draw").Default("3s").Duration()
	BarRow        = kingpin.Flag("bar-row", "Console row to render the receptors, from the bottom").Default("8").Uint()
	Keyboard      = kingpin.Flag("keyboard", "evdev device to read lane keys from").Default("").String()
	Joystick      = kingpin.Flag("joystick", "Joystick device to read lane buttons from").Default("").String()
	keyCodes      = kingpin.Flag("key-codes", "evdev key codes for the 4 lanes").Default("30,31,32,33").String()
	keys          = kingpin.Flag("keys", "Terminal fallback keys for the 4 lanes").Default("_-mp").Short('k').String()
	ScoreDB       = kingpin.Flag("scores", "Results database path").Default("./scores.db").String()
)

// KeyColumn maps a terminal key rune to its lane, or -1.
func KeyColumn(r rune) int {
	for i, c := range []rune(*keys) {
		if r == c {
			return i
		}
	}
	return -1
}

// KeyCodes maps evdev key codes to lane indices.
func KeyCodes() map[uint16]int {
	codes := map[uint16]int{}
	for i, s := range strings.Split(*keyCodes, ",") {
		c, err := strconv.ParseUint(strings.TrimSpace(s), 10, 16)
		if nil != err {
			continue
		}
		codes[uint16(c)] = i
	}
	return codes
}

func init() {
	kingpin.Version("0.1.0")
	kingpin.Parse()
}
