// Copyright 2026 CICD AI Toolkit. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");

package sink

import (
	"context"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/klauspost/compress/zstd"
	"github.com/zeebo/blake3"

	"github.com/cicd-ai-toolkit/notepack/pkg/codec"
	"github.com/cicd-ai-toolkit/notepack/pkg/document"
)

// NoteExt is the extension of outbox files.
const NoteExt = ".note"

// Envelope is the stored form of one submission.
type Envelope struct {
	ID          string         `json:"id"`
	Seq         int            `json:"seq"`
	RunID       string         `json:"run_id"`
	Index       int            `json:"index"`
	CreatedUnix int64          `json:"created_unix"` // seconds
	Digest      string         `json:"digest"`
	Chunk       document.Chunk `json:"chunk"`
}

// zstd encoders and decoders are safe for concurrent use.
var (
	zstdEncoder *zstd.Encoder
	zstdDecoder *zstd.Decoder
)

func init() {
	var err error
	zstdEncoder, err = zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		panic("sink: zstd encoder initialization failed: " + err.Error())
	}
	zstdDecoder, err = zstd.NewReader(nil)
	if err != nil {
		panic("sink: zstd decoder initialization failed: " + err.Error())
	}
}

// Outbox writes each submission to its own file in a directory, named
// <seq>-<id>.note so a directory listing sorts in submission order. A note
// is a zstd-compressed CBOR Envelope; Digest is the BLAKE3 hash of the
// CBOR-encoded chunk.
type Outbox struct {
	mu  sync.Mutex
	dir string
	seq int
	now func() time.Time
}

// NewOutbox opens (creating if needed) an outbox directory. Numbering
// continues after the highest sequence already present.
func NewOutbox(dir string) (*Outbox, error) {
	if dir == "" {
		return nil, fmt.Errorf("outbox directory is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create outbox %s: %w", dir, err)
	}
	files, err := listNotes(dir)
	if err != nil {
		return nil, err
	}
	next := 0
	if len(files) > 0 {
		next = files[len(files)-1].seq + 1
	}
	return &Outbox{dir: dir, seq: next, now: time.Now}, nil
}

// Name implements Sink.
func (o *Outbox) Name() string { return KindOutbox }

// Dir returns the outbox directory.
func (o *Outbox) Dir() string { return o.dir }

// Submit implements Sink. The note is written to a temporary file and
// renamed, so readers never see a partial note.
func (o *Outbox) Submit(ctx context.Context, s Submission) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	digest, err := Digest(s.Chunk)
	if err != nil {
		return err
	}

	o.mu.Lock()
	defer o.mu.Unlock()

	env := Envelope{
		ID:          uuid.NewString(),
		Seq:         o.seq,
		RunID:       s.RunID,
		Index:       s.Index,
		CreatedUnix: o.now().Unix(),
		Digest:      digest,
		Chunk:       s.Chunk,
	}
	raw, err := codec.Marshal(env)
	if err != nil {
		return fmt.Errorf("encode note: %w", err)
	}

	name := fmt.Sprintf("%08d-%s%s", env.Seq, env.ID, NoteExt)
	tmp := filepath.Join(o.dir, "."+name+".tmp")
	if err := os.WriteFile(tmp, zstdEncoder.EncodeAll(raw, nil), 0o644); err != nil {
		return fmt.Errorf("write note: %w", err)
	}
	if err := os.Rename(tmp, filepath.Join(o.dir, name)); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("commit note: %w", err)
	}
	o.seq++
	return nil
}

// Digest returns the hex BLAKE3 hash of the chunk's CBOR encoding.
func Digest(c document.Chunk) (string, error) {
	data, err := codec.Marshal(c)
	if err != nil {
		return "", fmt.Errorf("encode chunk: %w", err)
	}
	sum := blake3.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}

// ReadOutbox loads every note in dir in submission order and checks each
// digest.
func ReadOutbox(dir string) ([]Envelope, error) {
	files, err := listNotes(dir)
	if err != nil {
		return nil, err
	}
	out := make([]Envelope, 0, len(files))
	for _, f := range files {
		env, err := readNote(filepath.Join(dir, f.name))
		if err != nil {
			return nil, err
		}
		out = append(out, env)
	}
	return out, nil
}

func readNote(path string) (Envelope, error) {
	compressed, err := os.ReadFile(path)
	if err != nil {
		return Envelope{}, fmt.Errorf("read note: %w", err)
	}
	raw, err := zstdDecoder.DecodeAll(compressed, nil)
	if err != nil {
		return Envelope{}, fmt.Errorf("decompress %s: %w", filepath.Base(path), err)
	}
	var env Envelope
	if err := codec.Unmarshal(raw, &env); err != nil {
		return Envelope{}, fmt.Errorf("decode %s: %w", filepath.Base(path), err)
	}
	digest, err := Digest(env.Chunk)
	if err != nil {
		return Envelope{}, err
	}
	if digest != env.Digest {
		return Envelope{}, fmt.Errorf("note %s: digest mismatch", filepath.Base(path))
	}
	return env, nil
}

type noteFile struct {
	name string
	seq  int
}

func listNotes(dir string) ([]noteFile, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("list outbox %s: %w", dir, err)
	}
	var files []noteFile
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, NoteExt) || strings.HasPrefix(name, ".") {
			continue
		}
		prefix, _, ok := strings.Cut(name, "-")
		if !ok {
			continue
		}
		seq, err := strconv.Atoi(prefix)
		if err != nil {
			continue
		}
		files = append(files, noteFile{name: name, seq: seq})
	}
	sort.Slice(files, func(i, j int) bool { return files[i].seq < files[j].seq })
	return files, nil
}
