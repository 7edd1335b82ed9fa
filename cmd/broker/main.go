// Command broker runs the broker registrant: it registers as the
// ring's sole BOTH-role endpoint, waits for readiness, looks up every
// publisher, and then relays indefinitely — CONSUME is unbounded, so
// the process runs until signaled.
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
		Use:   "broker",
		Short: "Register as the broker and relay between publishers and subscribers",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(common, role)
		},
	}
	cliflags.Register(cmd, common)
	cliflags.RegisterRole(cmd, role)

	if err := cmd.Execute(); err != nil {
		glog.Errorf("broker: %v", err)
		os.Exit(1)
	}
}

func run(common *cliflags.Common, role *cliflags.Role) error {
	if err := logsetup.Configure(common.LogLevel); err != nil {
		return err
	}
	if common.Discovery == "" {
		return fmt.Errorf("broker: --discovery is required")
	}
	name := common.Name
	if name == "" {
		name = "broker-" + uuid.NewString()
	}

	shared := make(chan transport.Message, 64)
	info := wire.RegistrantInfo{ID: name, Addr: common.Addr, Port: uint32(common.Port)}
	client, err := registrant.Dial(common.Discovery, info, nil, shared)
	if err != nil {
		return err
	}
	defer client.Close()

	b := registrant.NewBroker(client)

	loop := &eventloop.Loop{Handler: b, DealerInbound: shared}
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
		glog.Info("broker: received shutdown signal")
		loop.Stop()
		return nil
	})
	if err := g.Wait(); err != nil {
		return fmt.Errorf("broker: event loop: %w", err)
	}
	glog.Infof("broker %s: stopped", name)
	return nil
}
