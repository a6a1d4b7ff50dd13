//go:build !linux

package tsv

import "os"

func fadviseSequential(_ *os.File) {}
