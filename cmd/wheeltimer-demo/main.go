package main

import (
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hyperjiang/wheeltimer"
	"github.com/hyperjiang/wheeltimer/internal/config"
	log "github.com/sirupsen/logrus"
)

var (
	confFile = flag.String("conf", "", "conf file path")
	runFor   = flag.Duration("run", 15*time.Second, "how long to run before shutting down, 0 waits for a signal")
)

// intervalTask fires every interval by submitting itself again.
type intervalTask struct {
	interval time.Duration
}

func (it intervalTask) Run(t *wheeltimer.Timeout) {
	log.Infof("IntervalTimerTask is fired at %d", time.Now().Unix())
	if _, err := t.Timer().Submit(it, it.interval); err != nil {
		log.Errorf("re-arm interval task: %v", err)
	}
}

// oneTimeTask fires once and prints its data.
type oneTimeTask string

func (ot oneTimeTask) Run(*wheeltimer.Timeout) {
	log.Infof("%s is fired at %d", string(ot), time.Now().Unix())
}

func main() {
	flag.Parse()
	conf, err := config.Load(*confFile)
	if err != nil {
		log.Fatalf("load conf: %v", err)
	}
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true, TimestampFormat: "2006-01-02 15:04:05.000000"})
	if level, err := log.ParseLevel(conf.LogLevel); err == nil {
		log.SetLevel(level)
	}

	// one second ticks over five buckets unless the conf file says otherwise
	tick, size := time.Second, 5
	if *confFile != "" {
		tick, size = conf.Timer.Tick, conf.Timer.WheelSize
	}
	tw, err := wheeltimer.NewScheduler(tick, size, conf.Timer.MaxPending,
		wheeltimer.WithLogger(wheeltimer.LoggerFunc(log.Debugf)),
	)
	if err != nil {
		log.Fatalf("create timer: %v", err)
	}

	submit := func(task wheeltimer.TimerTask, delay time.Duration) *wheeltimer.Timeout {
		t, err := tw.Submit(task, delay)
		if err != nil {
			log.Fatalf("submit: %v", err)
		}
		return t
	}

	submit(oneTimeTask("A"), 5*time.Second)
	submit(oneTimeTask("B"), 4*time.Second)
	c := submit(oneTimeTask("C"), 3*time.Second)
	submit(oneTimeTask("D"), 2*time.Second)
	submit(oneTimeTask("E"), 1*time.Second)

	c.Cancel()

	submit(intervalTask{interval: 2 * time.Second}, 5*time.Second)
	log.Infof("%d : Started", time.Now().Unix())

	sigCh := make(chan os.Signal, 2)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	if *runFor > 0 {
		select {
		case <-sigCh:
		case <-time.After(*runFor):
		}
	} else {
		<-sigCh
	}

	unfired := tw.Shutdown()
	log.Infof("%d : Stopped, %d timeouts unfired", time.Now().Unix(), len(unfired))
}
