package main

import (
	"context"
	"sync"
	"time"

	"github.com/greencart/ecostore/config"
	"github.com/greencart/ecostore/internal/app"
	"github.com/greencart/ecostore/pkg/sigctx"
)

func main() {
	sigCtx, stopApp := sigctx.NotifyContext()
	defer stopApp()

	cfg := config.Load()
	cfg.Print()

	application := app.New(sigCtx, cfg)

	var wg sync.WaitGroup
	application.Run(stopApp, &wg)

	<-sigCtx.Done()

	shutdownCtx, cancelTimeout := context.WithTimeout(
		context.Background(), 10*time.Second,
	)
	defer cancelTimeout()

	application.Close(shutdownCtx)
	wg.Wait()
}
