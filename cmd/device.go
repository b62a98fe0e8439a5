package main

import (
	"context"
	"fmt"

	"github.com/tunedock/tunedock/internal/formatter"
	"github.com/tunedock/tunedock/internal/shared"
	"github.com/urfave/cli/v3"
)

// DeviceStatus probes the device and reports connectivity and free space.
func (r *Runner) DeviceStatus(ctx context.Context, cmd *cli.Command) error {
	status := r.transport.Probe(ctx)

	if cmd.Bool("json") {
		return r.writeJSON(status, true)
	}

	return r.writePlain("%s", formatter.DeviceStatusText(status))
}

// DeviceSet persists a new device address and probes it.
func (r *Runner) DeviceSet(ctx context.Context, cmd *cli.Command) error {
	address := cmd.StringArg("address")
	if address == "" {
		return fmt.Errorf("%w: device address required", shared.ErrMissingArgument)
	}

	status := r.transport.SetAddress(ctx, address)
	r.writePlain("✓ Device address set to %s\n", address)
	return r.writePlain("%s", formatter.DeviceStatusText(status))
}

// DeviceHistory prints the most recently synced tracks.
func (r *Runner) DeviceHistory(ctx context.Context, cmd *cli.Command) error {
	history := r.transport.History()

	if cmd.Bool("json") {
		return r.writeJSON(history, true)
	}

	return r.writePlain("%s", formatter.HistoryToText(history))
}
