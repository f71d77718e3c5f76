// Command dtree trains ID3 decision trees on NumPy datasets.
package main

import (
	"log/slog"
	"os"

	"github.com/YuminosukeSato/dtree/pkg/log"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		slog.Error("dtree failed", log.ErrAttr(err))
		os.Exit(1)
	}
}
