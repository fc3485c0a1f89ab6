package main

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"tlog.app/go/tlog"

	"github.com/slowlang/bfc/compiler/tape"
)

type envDefaults struct {
	Optimize bool
	TapeSize int
}

// loadEnv reads flag defaults from BFC_* variables.
// Files are loaded first without overriding the process environment.
func loadEnv(files ...string) (d envDefaults) {
	d.TapeSize = tape.DefaultSize

	err := godotenv.Load(files...)
	if err != nil && !os.IsNotExist(err) {
		tlog.Printw("load env file", "files", files, "err", err)
	}

	if v, ok := os.LookupEnv("BFC_OPTIMIZE"); ok {
		d.Optimize, err = strconv.ParseBool(v)
		if err != nil {
			tlog.Printw("bad BFC_OPTIMIZE", "val", v, "err", err)
		}
	}

	if v, ok := os.LookupEnv("BFC_TAPE_SIZE"); ok {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			tlog.Printw("bad BFC_TAPE_SIZE", "val", v, "err", err)
		} else {
			d.TapeSize = n
		}
	}

	return d
}
