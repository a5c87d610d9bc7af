package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	kingpin "gopkg.in/alecthomas/kingpin.v2"

	"github.com/perfkit/usertop/internal/log"
	"github.com/perfkit/usertop/pkg/sampler"
	"github.com/perfkit/usertop/pkg/writer"
	"github.com/perfkit/usertop/procfs"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGTERM, syscall.SIGQUIT, syscall.SIGHUP, syscall.SIGINT)
	go func() {
		if sig := <-stop; sig != nil {
			log.Info("caught signal, reporting partial results: %s", sig.String())
		}
		cancel()
	}()

	// parse all command line flags
	kingpin.HelpFlag.Short('h')
	kingpin.Parse()

	if config.debug {
		log.SetLevel(log.LevelDebug)
	}

	if config.syslog {
		if err := log.InitSyslog(); err != nil {
			log.Error("failed to initialize syslog. Using standard logging: %+v", err)
		}
	}

	if err := checkConfig(); err != nil {
		kingpin.Fatalf("%v", err)
	}

	fs, err := procfs.NewFS(config.procfsPath)
	if err != nil {
		log.Fatal("configuration failure: %+v", err)
	}

	s := sampler.New(fs, procfs.TicksPerSecond())

	if config.webListen {
		initWebListener(s)
	}

	th := &constTicker{interval: time.Second}
	if err := run(ctx, s, writer.NewTable(os.Stdout), th, int(config.seconds)); err != nil {
		log.Fatal("%+v", err)
	}
}
