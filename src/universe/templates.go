package universe

import "fmt"

var builtinTemplates = []Template{
	{"block", "still life, 2x2 square", [][]int{{0, 0}, {1, 0}, {0, 1}, {1, 1}}},
	{"blinker", "oscillator with period 2", [][]int{{0, 0}, {1, 0}, {2, 0}}},
	{"toad", "oscillator with period 2", [][]int{{1, 0}, {2, 0}, {3, 0}, {0, 1}, {1, 1}, {2, 1}}},
	{"beacon", "oscillator with period 2", [][]int{{0, 0}, {1, 0}, {0, 1}, {3, 2}, {2, 3}, {3, 3}}},
	{"glider", "spaceship moving diagonally", [][]int{{1, 0}, {2, 1}, {0, 2}, {1, 2}, {2, 2}}},
	{"rpentomino", "methuselah, stabilizes after 1103 generations on an infinite plane", [][]int{{1, 0}, {2, 0}, {0, 1}, {1, 1}, {1, 2}}},
	{"sample", "the test sample with 3 stable patterns", [][]int{
		{1, 1}, {1, 2},
		{2, 1}, {2, 2},
		{3, 3},
		{4, 2},
		{4, 3},
		{5, 3},
	}},
}

//centerTemplate moves the template coordinates so its bounding box is in the middle of the area
func centerTemplate(tmpl Template, width int, height int) ([][]int, error) {
	if len(tmpl.Coordinates) == 0 {
		return nil, nil
	}
	for _, v := range tmpl.Coordinates {
		if len(v) != 2 {
			return nil, fmt.Errorf("%w: template %q has malformed point %v", ErrInvalidCoordinate, tmpl.Name, v)
		}
	}
	minX, minY := tmpl.Coordinates[0][0], tmpl.Coordinates[0][1]
	maxX, maxY := minX, minY
	for _, v := range tmpl.Coordinates {
		minX, maxX = min(minX, v[0]), max(maxX, v[0])
		minY, maxY = min(minY, v[1]), max(maxY, v[1])
	}
	tw, th := maxX-minX+1, maxY-minY+1
	if tw > width || th > height {
		return nil, fmt.Errorf("%w: template %q is %vx%v, grid is %vx%v", ErrInvalidCoordinate, tmpl.Name, tw, th, width, height)
	}
	dx := (width-tw)/2 - minX
	dy := (height-th)/2 - minY
	vc := make([][]int, 0, len(tmpl.Coordinates))
	for _, v := range tmpl.Coordinates {
		vc = append(vc, []int{v[0] + dx, v[1] + dy})
	}
	return vc, nil
}
