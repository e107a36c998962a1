package view

import "github.com/logrusorgru/aurora"

//palette holds the colors of the live cells, the index is the cell color
var palette = []func(arg interface{}) aurora.Value{
	aurora.White,
	aurora.BrightGreen,
	aurora.BrightCyan,
	aurora.BrightMagenta,
	aurora.Yellow,
}

const liveFiller = "█"

//liveFillers returns the painted filler for each of n palette colors
//palettes longer than the known colors repeat them
func liveFillers(n int) []string {
	if n <= 0 {
		n = len(palette)
	}
	fillers := make([]string, n)
	for i := range fillers {
		fillers[i] = palette[i%len(palette)](liveFiller).String()
	}
	return fillers
}
