// Command publisher runs one publisher registrant: it registers with a
// seed discovery node, waits for the ring to report ready, then
// disseminates samples at a configured frequency for a configured
// iteration count.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

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
		Use:   "publisher",
		Short: "Register as a publisher and disseminate samples",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(common, role)
		},
	}
	cliflags.Register(cmd, common)
	cliflags.RegisterRole(cmd, role)

	if err := cmd.Execute(); err != nil {
		glog.Errorf("publisher: %v", err)
		os.Exit(1)
	}
}

func run(common *cliflags.Common, role *cliflags.Role) error {
	if err := logsetup.Configure(common.LogLevel); err != nil {
		return err
	}
	if common.Discovery == "" {
		return fmt.Errorf("publisher: --discovery is required")
	}
	name := common.Name
	if name == "" {
		name = "publisher-" + uuid.NewString()
	}
	if role.Frequency <= 0 {
		return fmt.Errorf("publisher: --frequency must be positive")
	}

	shared := make(chan transport.Message, 64)
	info := wire.RegistrantInfo{ID: name, Addr: common.Addr, Port: uint32(common.Port)}
	client, err := registrant.Dial(common.Discovery, info, topics.Universe(role.NumTopics), shared)
	if err != nil {
		return err
	}
	defer client.Close()

	frequency := time.Duration(float64(time.Second) / role.Frequency)
	pub := registrant.NewPublisher(client, role.NumTopics, role.Iters, frequency)

	loop := &eventloop.Loop{Handler: pub, DealerInbound: shared}
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
		glog.Info("publisher: received shutdown signal")
		loop.Stop()
		return nil
	})
	if err := g.Wait(); err != nil {
		return fmt.Errorf("publisher: event loop: %w", err)
	}
	glog.Infof("publisher %s: completed", name)
	return nil
}
