// cmd/toolmem/image.go
package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/Wazzup77/kalico/internal/device"
	"github.com/Wazzup77/kalico/internal/memory"
	"github.com/Wazzup77/kalico/internal/reactor"
	"github.com/Wazzup77/kalico/internal/record"
)

// Image subcommands operate on file-backed memory images offline. They
// drive the same controller the service uses, on a synchronous
// scheduler: every callback runs immediately, no timers.

type syncScheduler struct{}

func (syncScheduler) Schedule(fn func()) { fn() }

func (syncScheduler) RegisterTimer(func()) reactor.TimerHandle { return noopTimer{} }

type noopTimer struct{}

func (noopTimer) Reschedule(time.Duration) {}
func (noopTimer) Cancel()                  {}

// openImage attaches a controller to an existing image file.
func openImage(path string) (*memory.Controller, func() error, error) {
	dev, err := device.OpenFile(path)
	if err != nil {
		return nil, nil, err
	}

	ctrl := memory.New(dev, syncScheduler{}, memory.Config{Name: path})
	ctrl.HandleAttach()

	if !ctrl.Status().Connected {
		_ = dev.Close()
		return nil, nil, fmt.Errorf("image %s is not readable", path)
	}
	return ctrl, dev.Close, nil
}

func newInitCmd() *cobra.Command {
	var capacity int

	cmd := &cobra.Command{
		Use:   "init <image>",
		Short: "Create and initialize a blank memory image",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dev, err := device.CreateFile(args[0], capacity)
			if err != nil {
				return err
			}
			defer dev.Close()

			ctrl := memory.New(dev, syncScheduler{}, memory.Config{Name: args[0]})
			ctrl.HandleAttach()

			st := ctrl.Status()
			if !st.Connected {
				return fmt.Errorf("initialization failed for %s", args[0])
			}
			fmt.Printf("initialized %s\nuid: %s\n", args[0], st.UID)
			return nil
		},
	}

	cmd.Flags().IntVar(&capacity, "capacity", 4096, "image capacity in bytes")
	return cmd
}

func newInspectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <image>",
		Short: "Print an image's identity and record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctrl, closeDev, err := openImage(args[0])
			if err != nil {
				return err
			}
			defer closeDev()

			st := ctrl.Status()
			out, err := yaml.Marshal(map[string]any{
				"uid":      st.UID,
				"saved_at": st.Timestamp.Format(time.RFC3339),
				"record":   st.Record.AsMap(),
			})
			if err != nil {
				return err
			}
			fmt.Print(string(out))
			return nil
		},
	}
}

func newGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <image> <key>",
		Short: "Print one record value",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctrl, closeDev, err := openImage(args[0])
			if err != nil {
				return err
			}
			defer closeDev()

			v, err := ctrl.Get(args[1])
			if err != nil {
				return err
			}
			fmt.Println(v)
			return nil
		},
	}
}

func newSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set <image> <key> <value>",
		Short: "Set one record value and save",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctrl, closeDev, err := openImage(args[0])
			if err != nil {
				return err
			}
			defer closeDev()

			if err := ctrl.Set(args[1], parseValue(args[2])); err != nil {
				return err
			}
			return ctrl.Save()
		},
	}
}

func newDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <image> <key>",
		Short: "Delete one record key and save",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctrl, closeDev, err := openImage(args[0])
			if err != nil {
				return err
			}
			defer closeDev()

			if err := ctrl.Delete(args[1]); err != nil {
				return err
			}
			return ctrl.Save()
		},
	}
}

// parseValue reads a CLI argument as the most specific scalar it can
// be: int, float, bool, then string.
func parseValue(s string) record.Value {
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return record.Int(n)
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return record.Float(f)
	}
	if b, err := strconv.ParseBool(s); err == nil {
		return record.Bool(b)
	}
	return record.String(s)
}
