// Command discovery runs one shard of the Chord-routed discovery
// plane: it loads the static ring manifest, builds its finger table,
// and serves REGISTER/ISREADY/LOOKUP requests until interrupted.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/golang/glog"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/vandy-dsys/chordcast/internal/cliflags"
	"github.com/vandy-dsys/chordcast/internal/config"
	"github.com/vandy-dsys/chordcast/internal/logsetup"
	"github.com/vandy-dsys/chordcast/internal/ringdb"

	"github.com/vandy-dsys/chordcast/discovery"
	"github.com/vandy-dsys/chordcast/eventloop"
)

func main() {
	defer glog.Flush()

	common := &cliflags.Common{}
	role := &cliflags.Role{}

	cmd := &cobra.Command{
		Use:   "discovery",
		Short: "Run one shard of the chordcast discovery plane",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(common, role)
		},
	}
	cliflags.Register(cmd, common)
	cliflags.RegisterRole(cmd, role)

	if err := cmd.Execute(); err != nil {
		glog.Errorf("discovery: %v", err)
		os.Exit(1)
	}
}

func run(common *cliflags.Common, role *cliflags.Role) error {
	if err := logsetup.Configure(common.LogLevel); err != nil {
		return err
	}
	if common.Name == "" {
		return fmt.Errorf("discovery: --name is required")
	}

	ring, err := ringdb.Load(common.JSONFile)
	if err != nil {
		return err
	}
	self, ok := ring.ByID(common.Name)
	if !ok {
		return fmt.Errorf("discovery: node id %q not found in %s", common.Name, common.JSONFile)
	}

	cfg, err := config.Load(common.Config)
	if err != nil {
		return err
	}

	bindAddr := fmt.Sprintf("%s:%d", common.Addr, common.Port)
	server, err := discovery.NewServer(ring, self, common.HashBits, cfg, role.NumPubs, role.NumSubs, bindAddr)
	if err != nil {
		return err
	}
	defer server.Close()

	glog.Infof("discovery: node %s listening on %s (hash=%d, dissemination=%s)", self.ID, bindAddr, self.Hash, cfg.Dissemination)

	loop := &eventloop.Loop{
		Handler:       server.Node,
		RouterInbound: server.Sock.Inbound,
		DealerInbound: server.Pool.Inbound(),
	}
	loop.Init()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		err := loop.Run(time.Second)
		cancel()
		return err
	})
	g.Go(func() error {
		<-gctx.Done()
		glog.Info("discovery: received shutdown signal")
		loop.Stop()
		return nil
	})
	if err := g.Wait(); err != nil {
		return fmt.Errorf("discovery: event loop: %w", err)
	}
	return nil
}
