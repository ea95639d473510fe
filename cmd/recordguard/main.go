// Package main is the entry point for the RecordGuard service.
package main

import (
	_ "go.uber.org/automaxprocs/maxprocs"

	"github.com/kart-io/recordguard/internal/recordguard"
)

func main() {
	recordguard.NewApp().Run()
}
