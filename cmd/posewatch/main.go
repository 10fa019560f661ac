// Command posewatch connects to a running lesson's mirror and prints the
// camera pose it streams.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"time"

	"wgpu_lessons/logging"
	"wgpu_lessons/mirror"
)

var (
	addr     = flag.String("addr", "localhost:8080", "mirror address")
	every    = flag.Int("every", 30, "print one pose out of every n frames")
	logLevel = flag.String("log-level", "info", "log level")
)

func main() {
	flag.Parse()

	log, err := logging.New(os.Stderr, *logLevel, "text")
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	cb := mirror.NewBreaker(log, 3, 5*time.Second)
	for ctx.Err() == nil {
		log.Info("connecting", "url", mirror.URL(*addr))
		c, err := mirror.DialRetry(ctx, cb, *addr, time.Second)
		if err != nil {
			break
		}
		log.Info("connected", "client", c.ID)

		err = c.Watch(ctx, func(m mirror.Message) {
			if *every > 1 && m.Frame%uint64(*every) != 0 {
				return
			}
			p := m.Pose
			fmt.Printf("%8d  pos (%7.3f %7.3f %7.3f)  dir (%6.3f %6.3f %6.3f)\n", m.Frame,
				p.Position[0], p.Position[1], p.Position[2],
				p.Orientation[0], p.Orientation[1], p.Orientation[2])
		})
		c.Close()
		if err != nil && ctx.Err() == nil {
			log.Error("connection lost", err)
		}
	}
}
