package main

import (
	"image"
)

type watermarkFrame struct {
	img    *image.NRGBA
	format string
}

type embedFlags struct {
	in      string
	out     string
	creator string
	key     string
}

type extractFlags struct {
	in  string
	key string
	all bool
}

type fingerprintFlags struct {
	in      string
	compare string
}

type batchFlags struct {
	dir     string
	out     string
	creator string
	key     string
}
