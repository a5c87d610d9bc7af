package main

import (
	"net/http"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	kingpin "gopkg.in/alecthomas/kingpin.v2"

	"github.com/perfkit/usertop/internal/log"
	"github.com/perfkit/usertop/internal/usercpu"
	"github.com/perfkit/usertop/pkg/sampler"
	"github.com/perfkit/usertop/procfs"
)

var config struct {
	seconds          uint64
	procfsPath       string
	debug            bool
	syslog           bool
	webListen        bool
	webListenAddress string
}

const defaultWebListenAddress = "127.0.0.1:9257"

func init() {
	kingpin.CommandLine.Name = "usertop"
	kingpin.CommandLine.Help = "Samples every process once per second for <seconds> seconds and prints CPU time per user, ranked."

	kingpin.Arg("seconds", "number of seconds to sample for").
		Required().
		Uint64Var(&config.seconds)

	kingpin.Flag("path.procfs", "procfs mountpoint.").
		Default(procfs.DefaultMountPoint).
		StringVar(&config.procfsPath)

	kingpin.Flag("debug", "display debug information to stderr").
		BoolVar(&config.debug)

	kingpin.Flag("syslog", "enable logging to syslog").
		BoolVar(&config.syslog)

	kingpin.Flag("web.listen", "expose the running totals as scrapeable prometheus metrics for the duration of the run").
		Default("false").
		BoolVar(&config.webListen)

	kingpin.Flag("web.listen-address", `serve prometheus metrics on the specified address (ex. ":9257")`).
		Default(defaultWebListenAddress).
		StringVar(&config.webListenAddress)
}

func checkConfig() error {
	if config.seconds == 0 {
		return errors.New("seconds must be a positive integer")
	}
	return nil
}

func initWebListener(s *sampler.Sampler) {
	reg := prometheus.NewRegistry()
	reg.MustRegister(usercpu.NewCollector(s.Totals))

	go func() {
		http.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
		// a dead metrics listener must not take the run down with it
		if err := http.ListenAndServe(config.webListenAddress, nil); err != nil {
			log.Error("metrics listener failed: %+v", err)
		}
	}()
}
