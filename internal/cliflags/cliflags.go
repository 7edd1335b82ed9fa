// Package cliflags holds the CLI surface common to the discovery,
// publisher, subscriber and broker binaries, so each cmd/ package wires
// the same flag names the same way.
package cliflags

import "github.com/spf13/cobra"

// Common is the flag set every role binary accepts, even when a given
// role does not consult every field (e.g. a registrant never reads
// JSONFile directly; it is passed through for uniformity with the
// discovery binary's surface).
type Common struct {
	Name     string
	Addr     string
	Port     int
	Discovery string
	Config   string
	JSONFile string
	LogLevel int
	HashBits int
}

// Register adds the common flags to cmd.
func Register(cmd *cobra.Command, c *Common) {
	cmd.Flags().StringVar(&c.Name, "name", "", "this process's node id in the ring manifest")
	cmd.Flags().StringVar(&c.Addr, "addr", "0.0.0.0", "local bind address")
	cmd.Flags().IntVar(&c.Port, "port", 0, "local bind port")
	cmd.Flags().StringVar(&c.Discovery, "discovery", "", "host:port of a seed discovery node")
	cmd.Flags().StringVar(&c.Config, "config", "config.ini", "path to the discovery/dissemination config file")
	cmd.Flags().StringVar(&c.JSONFile, "json_file", "dht.json", "path to the ring manifest")
	cmd.Flags().IntVar(&c.LogLevel, "loglevel", 30, "log level (10=DEBUG, 20=INFO, 30=WARNING, 40=ERROR, 50=CRITICAL)")
	cmd.Flags().IntVar(&c.HashBits, "hash_bits", 48, "Chord key-space width in bits (8 for small test rings, 48 for production)")
}

// Role is the additional flag set for the discovery, publisher,
// subscriber and broker binaries; discovery reads only NumPubs and
// NumSubs.
type Role struct {
	NumPubs   int
	NumSubs   int
	NumTopics int
	Iters     int
	Frequency float64
}

// RegisterRole adds the role-specific flags to cmd.
func RegisterRole(cmd *cobra.Command, r *Role) {
	cmd.Flags().IntVar(&r.NumPubs, "num_pubs", 0, "expected number of publishers")
	cmd.Flags().IntVar(&r.NumSubs, "num_subs", 0, "expected number of subscribers")
	cmd.Flags().IntVar(&r.NumTopics, "num_topics", 1, "number of topics in the universe")
	cmd.Flags().IntVar(&r.Iters, "iters", 1, "number of dissemination/consumption iterations")
	cmd.Flags().Float64Var(&r.Frequency, "frequency", 1.0, "samples per second")
}
