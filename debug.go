//go:build debug

package main

import (
	"net/http"
	_ "net/http/pprof"

	"github.com/rs/zerolog/log"
)

func init() {
	go func() {
		log.Fatal().Err(http.ListenAndServe("localhost:8080", nil)).Msg("pprof server stopped")
	}()
}
