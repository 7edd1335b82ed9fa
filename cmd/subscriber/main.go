// Command subscriber runs one subscriber registrant: it registers with
// a seed discovery node, waits for readiness, looks up publishers by
// topic, and consumes for a configured iteration count.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/golang/glog"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/vandy-dsys/chordcast/internal/cliflags"
	"github.com/vandy-dsys/chordcast/internal/logsetup"
	"github.com/vandy-dsys/chordcast/internal/topics"

	"github.com/vandy-dsys/chordcast/eventloop"
	"github.com/vandy-dsys/chordcast/registrant"
	"github.com/vandy-dsys/chordcast/transport"
	"github.com/vandy-dsys/chordcast/wire"
)

func main() {
	defer glog.Flush()

	common := &cliflags.Common{}
	role := &cliflags.Role{}

	cmd := &cobra.Command{
		Use:   "subscriber",
		Short: "Register as a subscriber and consume publisher samples",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(common, role)
		},
	}
	cliflags.Register(cmd, common)
	cliflags.RegisterRole(cmd, role)

	if err := cmd.Execute(); err != nil {
		glog.Errorf("subscriber: %v", err)
		os.Exit(1)
	}
}

func run(common *cliflags.Common, role *cliflags.Role) error {
	if err := logsetup.Configure(common.LogLevel); err != nil {
		return err
	}
	if common.Discovery == "" {
		return fmt.Errorf("subscriber: --discovery is required")
	}
	name := common.Name
	if name == "" {
		name = "subscriber-" + uuid.NewString()
	}

	shared := make(chan transport.Message, 64)
	info := wire.RegistrantInfo{ID: name, Addr: common.Addr, Port: uint32(common.Port)}
	client, err := registrant.Dial(common.Discovery, info, topics.Universe(role.NumTopics), shared)
	if err != nil {
		return err
	}
	defer client.Close()

	sub := registrant.NewSubscriber(client, role.NumTopics, role.Iters)

	loop := &eventloop.Loop{Handler: sub, DealerInbound: shared}
	loop.Init()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		err := loop.Run(0)
		cancel()
		return err
	})
	g.Go(func() error {
		<-gctx.Done()
		glog.Info("subscriber: received shutdown signal")
		loop.Stop()
		return nil
	})
	if err := g.Wait(); err != nil {
		return fmt.Errorf("subscriber: event loop: %w", err)
	}
	glog.Infof("subscriber %s: completed", name)
	return nil
}
