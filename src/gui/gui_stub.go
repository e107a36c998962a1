//go:build !ebiten

package gui

import (
	"errors"

	"colorlife/src/universe"
)

//Run reports that the window needs the ebiten build tag
func Run(*universe.Grid, *universe.Scheduler, int, int) error {
	return errors.New("the window requires building with the 'ebiten' tag, re-run with `go run -tags ebiten ./src`")
}
