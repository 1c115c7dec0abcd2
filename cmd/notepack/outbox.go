// Copyright 2026 CICD AI Toolkit. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.

package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/cicd-ai-toolkit/notepack/pkg/codec"
	"github.com/cicd-ai-toolkit/notepack/pkg/errors"
	"github.com/cicd-ai-toolkit/notepack/pkg/sink"
)

func newOutboxCmd(a *app) *cobra.Command {
	var diag bool

	cmd := &cobra.Command{
		Use:   "outbox [DIR]",
		Short: "List and verify the notes stored in an outbox",
		Long: `Outbox reads every note in an outbox directory in submission order and
checks its digest. DIR defaults to the configured outbox_dir. With --diag
every note is also printed in CBOR diagnostic notation.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var dir string
			if len(args) == 1 {
				dir = args[0]
			} else {
				cfg, err := a.loadConfig()
				if err != nil {
					return err
				}
				dir = cfg.Output.OutboxDir
			}

			envelopes, err := sink.ReadOutbox(dir)
			if err != nil {
				return errors.InputError("failed to read outbox", err).WithContext("dir", dir)
			}
			for _, e := range envelopes {
				fmt.Fprintf(a.out, "%08d  %s  %-8s  %s  %s  [%s]\n",
					e.Seq,
					time.Unix(e.CreatedUnix, 0).UTC().Format(time.RFC3339),
					e.Chunk.Label,
					e.Chunk.Entity,
					shortDigest(e.Digest),
					strings.Join(e.Chunk.Sources, ", "))
				if diag {
					if err := printDiag(a, e); err != nil {
						return err
					}
				}
			}
			fmt.Fprintf(a.out, "%d note(s) verified in %s\n", len(envelopes), dir)
			return nil
		},
	}
	cmd.Flags().BoolVar(&diag, "diag", false, "print each note in CBOR diagnostic notation")
	return cmd
}

func printDiag(a *app, e sink.Envelope) error {
	data, err := codec.Marshal(e.Chunk)
	if err != nil {
		return err
	}
	text, err := codec.Diagnose(data)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "          %s\n", text)
	return nil
}

func shortDigest(d string) string {
	if len(d) > 12 {
		return d[:12]
	}
	return d
}
