// main.go sets up the command-line interface for inspecting and editing
// hub snapshots using the Cobra library. It defines the root command, the
// get/set/walk/table subcommands, and configuration loading via Viper.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/kovaacs/virgin-media-hub3/auditlog"
	"github.com/kovaacs/virgin-media-hub3/snmp"
)

var version = "dev" // set by the linker

var cfgFile string

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd *cobra.Command

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd = newRootCmd()

	viper.SetDefault("snapshot.path", "hub3.snapshot")
	viper.SetDefault("log.level", "info")
	viper.SetDefault("log.format", "text")
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "hub3",
		Short:         "Inspect and edit recorded hub OID snapshots",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./hub3.yaml)")
	cmd.PersistentFlags().String("snapshot", "", "snapshot file to operate on")
	cmd.PersistentFlags().String("log-level", "", "log level (debug, info, warn, error)")
	cmd.PersistentFlags().String("log-format", "", "log format (text, json)")
	must(viper.BindPFlag("snapshot.path", cmd.PersistentFlags().Lookup("snapshot")))
	must(viper.BindPFlag("log.level", cmd.PersistentFlags().Lookup("log-level")))
	must(viper.BindPFlag("log.format", cmd.PersistentFlags().Lookup("log-format")))

	cmd.AddCommand(newGetCmd(), newSetCmd(), newWalkCmd(), newTableCmd())
	return cmd
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("hub3")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		if dir, err := os.UserConfigDir(); err == nil {
			viper.AddConfigPath(dir)
		}
	}
	viper.SetEnvPrefix("HUB3")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, notFound := err.(viper.ConfigFileNotFoundError); !notFound {
			fmt.Fprintln(os.Stderr, "reading config:", err)
			os.Exit(1)
		}
	}

	setupLogging(viper.GetString("log.level"), viper.GetString("log.format"))
}

// setupLogging configures the global slog logger from level and format
// strings. Use "json" when the output feeds a log pipeline.
func setupLogging(level, format string) {
	opts := &slog.HandlerOptions{Level: parseLevel(level)}
	var handler slog.Handler
	if strings.ToLower(format) == "json" {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}
	slog.SetDefault(slog.New(handler))
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func openSnapshot(readOnly bool) (*snmp.Snapshot, error) {
	path := viper.GetString("snapshot.path")
	return snmp.OpenSnapshot(path, snmp.SnapshotOptions{ReadOnly: readOnly})
}

// translatorNamed maps the --as flag (and table column types) to a
// translator.
func translatorNamed(name string) (snmp.Translator, error) {
	switch strings.ToLower(name) {
	case "", "raw":
		return snmp.Null, nil
	case "string":
		return snmp.Identity, nil
	case "int":
		return snmp.Int, nil
	case "port":
		return snmp.Port, nil
	case "bool":
		return snmp.Bool, nil
	case "mac":
		return snmp.MacAddr, nil
	case "ipv4":
		return snmp.IPv4, nil
	case "ipv6":
		return snmp.IPv6, nil
	case "ip":
		return snmp.IPAddr, nil
	case "datetime":
		return snmp.DateTime, nil
	default:
		return nil, fmt.Errorf("unknown value type %q", name)
	}
}

func newGetCmd() *cobra.Command {
	var as string
	cmd := &cobra.Command{
		Use:   "get OID",
		Short: "Read and decode a single value from the snapshot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tr, err := translatorNamed(as)
			if err != nil {
				return err
			}
			snap, err := openSnapshot(true)
			if err != nil {
				return err
			}
			defer snap.Close()

			v, err := snmp.NewAttribute(snap, args[0], tr).Read()
			if err != nil {
				return err
			}
			if v == nil {
				fmt.Println("<absent>")
			} else {
				fmt.Println(v)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&as, "as", "raw", "value type (raw, string, int, port, bool, mac, ipv4, ipv6, ip, datetime)")
	return cmd
}

func newSetCmd() *cobra.Command {
	var as, audit string
	cmd := &cobra.Command{
		Use:   "set OID VALUE",
		Short: "Write a value to the snapshot, verified by readback",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			tr, err := translatorNamed(as)
			if err != nil {
				return err
			}
			snap, err := openSnapshot(false)
			if err != nil {
				return err
			}
			defer snap.Close()

			var tp snmp.Transport = snap
			if audit != "" {
				log, err := auditlog.Open(audit)
				if err != nil {
					return err
				}
				defer log.Close()
				tp = auditlog.Wrap(tp, log)
			}

			return snmp.NewAttribute(tp, args[0], tr).Write(args[1])
		},
	}
	cmd.Flags().StringVar(&as, "as", "raw", "value type (raw, string, int, port, bool, mac, ipv4, ipv6, ip, datetime)")
	cmd.Flags().StringVar(&audit, "audit", "", "append the write to this audit log file")
	return cmd
}

func newWalkCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "walk ROOT",
		Short: "Print all values in a subtree of the snapshot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			snap, err := openSnapshot(true)
			if err != nil {
				return err
			}
			defer snap.Close()

			walk, err := snap.Walk(args[0])
			if err != nil {
				return err
			}
			for _, item := range walk {
				fmt.Printf("%s = %s\n", item.OID, item.Value)
			}
			return nil
		},
	}
}

func newTableCmd() *cobra.Command {
	var cols []string
	cmd := &cobra.Command{
		Use:   "table ROOT --col ID=NAME[:TYPE]...",
		Short: "Materialize a table from a subtree and print its rows",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			columns, err := parseColumns(cols)
			if err != nil {
				return err
			}
			snap, err := openSnapshot(true)
			if err != nil {
				return err
			}
			defer snap.Close()

			table, err := snmp.NewTable(snap, args[0], columns, nil)
			if err != nil {
				return err
			}
			for _, id := range table.RowIDs() {
				row, _ := table.Row(id)
				fmt.Printf("%s: %s\n", id, row)
			}
			return nil
		},
	}
	cmd.Flags().StringArrayVar(&cols, "col", nil, "column mapping, e.g. 1=port:int")
	must(cmd.MarkFlagRequired("col"))
	return cmd
}

func parseColumns(specs []string) ([]snmp.Column, error) {
	columns := make([]snmp.Column, 0, len(specs))
	for _, spec := range specs {
		id, rest, ok := strings.Cut(spec, "=")
		if !ok || id == "" || rest == "" {
			return nil, fmt.Errorf("column %q is not ID=NAME[:TYPE]", spec)
		}
		name, typ, _ := strings.Cut(rest, ":")
		if name == "" {
			return nil, fmt.Errorf("column %q is not ID=NAME[:TYPE]", spec)
		}
		tr, err := translatorNamed(typ)
		if err != nil {
			return nil, fmt.Errorf("column %q: %w", spec, err)
		}
		columns = append(columns, snmp.Column{ID: id, Name: name, Translator: tr})
	}
	return columns, nil
}

func must(err error) {
	if err != nil {
		panic(err)
	}
}
