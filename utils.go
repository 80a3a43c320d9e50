package main

import (
	"time"

	"github.com/victorjacobs/go-pcagent/logger"
)

func loopSafely(log *logger.Logger, f func()) {
	defer func() {
		if v := recover(); v != nil {
			log.Errorw("Panic, restarting", "panic", v)
			time.Sleep(time.Second)
			go loopSafely(log, f)
		}
	}()

	for {
		f()
	}
}
