// Tinct Shell - GNOME Shell theme colours from your wallpaper
//
// Tinct Shell extracts colour palettes from the desktop wallpaper and
// assigns them to the colour variables of a GNOME Shell user theme.
//
// Copyright (c) 2025 John Mylchreest
// Licensed under the MIT License
package main

import (
	"github.com/jmylchreest/tinct-shell/internal/cli"
)

func main() {
	cli.Execute()
}
