package main

import (
	"context"
	"flag"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hyperjiang/wheeltimer"
	"github.com/hyperjiang/wheeltimer/internal/config"
	"github.com/hyperjiang/wheeltimer/internal/server"
	log "github.com/sirupsen/logrus"
)

var confFile = flag.String("conf", "", "conf file path")

func main() {
	flag.Parse()
	conf, err := config.Load(*confFile)
	if err != nil {
		log.Fatalf("load conf: %v", err)
	}

	log.SetFormatter(&log.TextFormatter{FullTimestamp: true, TimestampFormat: "2006-01-02 15:04:05.000000"})
	if conf.Logs == "" {
		log.SetOutput(os.Stdout)
	} else {
		logFile, err := os.OpenFile(conf.Logs, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0644)
		if err != nil {
			log.Fatalf("open log file %s: %v", conf.Logs, err)
		}
		defer logFile.Close()
		log.SetOutput(logFile)
	}
	level, err := log.ParseLevel(conf.LogLevel)
	if err != nil {
		log.Warnf("unknown log level %q, using info", conf.LogLevel)
		level = log.InfoLevel
	}
	log.SetLevel(level)

	if conf.Server.WebLogs != "" {
		f, err := os.Create(conf.Server.WebLogs)
		if err != nil {
			log.Fatalf("create web log %s: %v", conf.Server.WebLogs, err)
		}
		defer f.Close()
		gin.DefaultWriter = io.MultiWriter(f)
	}
	if level < log.DebugLevel {
		gin.SetMode(gin.ReleaseMode)
	}

	tw, err := conf.NewTimer(
		wheeltimer.WithLogger(wheeltimer.LoggerFunc(log.Debugf)),
		wheeltimer.WithPanicHandler(func(t *wheeltimer.Timeout, v any) {
			log.Errorf("%v: task panicked: %v", t, v)
		}),
	)
	if err != nil {
		log.Fatalf("create timer: %v", err)
	}

	srv := server.New(tw)
	httpServer := &http.Server{
		Addr:    conf.Server.Addr,
		Handler: srv.Router(),
	}
	go func() {
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen on %s: %v", conf.Server.Addr, err)
		}
	}()
	log.Infof("wheeltimerd listening on %s, tick %v, wheel size %d", conf.Server.Addr, conf.Timer.Tick, conf.Timer.WheelSize)

	sigCh := make(chan os.Signal, 2)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGQUIT, syscall.SIGTERM)
	sig := <-sigCh
	log.Infof("received %v, shutting down", sig)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		log.Errorf("http shutdown: %v", err)
	}

	unfired := srv.Shutdown()
	for _, id := range unfired {
		log.Infof("timeout %s never fired", id)
	}
	log.Infof("wheeltimerd stopped, %d timeouts unfired", len(unfired))
}
