package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/klawil/gnuradio-rocket-tracker/bitstream"
	"github.com/klawil/gnuradio-rocket-tracker/channel"
	"github.com/klawil/gnuradio-rocket-tracker/parse"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	if err := ioutil.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("%+v\n", err)
	}
	return path
}

func testContext(t *testing.T) context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	t.Cleanup(cancel)
	return ctx
}

func TestLoadConfig(t *testing.T) {
	path := writeFile(t, "config.yaml", `
channels:
  - freq: 434650000
    input: a.bits
  - input: b.bits
    format: ascii
output: JSON
unique: true
serials: [4321, 1234]
types: [1, 5]
duration: 90s
log:
  level: debug
`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("%+v\n", err)
	}
	if err := cfg.Normalize(); err != nil {
		t.Fatalf("%+v\n", err)
	}

	if len(cfg.Channels) != 2 {
		t.Fatalf("Expected 2 channels got %d\n", len(cfg.Channels))
	}
	if ch := cfg.Channels[0]; ch.Freq != 434650000 || ch.Format != "byte" {
		t.Fatalf("bad first channel: %+v\n", ch)
	}
	if ch := cfg.Channels[1]; ch.Freq != channel.DefaultFrequencies()[1] || ch.Format != "ascii" {
		t.Fatalf("bad second channel: %+v\n", ch)
	}

	if cfg.Output != "json" || !cfg.Unique || cfg.Duration != 90*time.Second {
		t.Fatalf("bad options: %+v\n", cfg)
	}
	if len(cfg.Serials) != 2 || len(cfg.Types) != 2 || cfg.Log.Level != "debug" {
		t.Fatalf("bad filters: %+v\n", cfg)
	}

	// Unset values keep their defaults.
	if cfg.Log.MaxSizeMB != DefaultConfig().Log.MaxSizeMB {
		t.Fatalf("Expected default max size got %d\n", cfg.Log.MaxSizeMB)
	}
}

func TestLoadConfigErrors(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("Expected error for missing file")
	}

	if _, err := LoadConfig(writeFile(t, "bad.yaml", "chanels: []\n")); err == nil {
		t.Fatal("Expected error for unknown field")
	}

	cases := []Config{
		{Output: "gob", Log: LogConfig{Level: "info"}},
		{Output: "plain", Log: LogConfig{Level: "loud"}},
		{Output: "plain", Log: LogConfig{Level: "info"}, Channels: []ChannelConfig{{Freq: 1}}},
		{Output: "plain", Log: LogConfig{Level: "info"}, Channels: []ChannelConfig{{Input: "-", Format: "iq"}}},
		{Output: "plain", Log: LogConfig{Level: "info"}, Channels: []ChannelConfig{{Input: "-"}, {Input: "-"}}},
	}
	for idx, cfg := range cases {
		if err := cfg.Normalize(); err == nil {
			t.Fatalf("case %d: Expected error\n", idx)
		}
	}
}

func TestEmptyConfig(t *testing.T) {
	cfg, err := LoadConfig(writeFile(t, "empty.yaml", ""))
	if err != nil {
		t.Fatalf("%+v\n", err)
	}
	if cfg.Output != "plain" {
		t.Fatalf("Expected defaults got %+v\n", cfg)
	}
}

func TestEnvOverride(t *testing.T) {
	os.Setenv("ALTUSRX_FORMAT", "csv")
	defer os.Unsetenv("ALTUSRX_FORMAT")
	defer func() { *format = "plain" }()

	EnvOverride()
	if *format != "csv" {
		t.Fatalf("Expected format csv got %q\n", *format)
	}

	cfg := DefaultConfig()
	HandleFlags(&cfg)
	if cfg.Output != "csv" {
		t.Fatalf("Expected output csv got %q\n", cfg.Output)
	}
}

func TestUintMap(t *testing.T) {
	m := make(UintMap)
	if err := m.Set("1, 0x12,20"); err != nil {
		t.Fatalf("%+v\n", err)
	}
	if !m[1] || !m[0x12] || !m[20] || len(m) != 3 {
		t.Fatalf("unexpected values: %v\n", m)
	}
	if err := m.Set("x"); err == nil {
		t.Fatal("Expected error")
	}
}

func TestTypeFilter(t *testing.T) {
	f := TypeFilter{make(UintMap)}
	if err := f.Set("megadata,0x05"); err != nil {
		t.Fatalf("%+v\n", err)
	}
	if !f.UintMap[0x09] || !f.UintMap[0x15] || !f.UintMap[0x05] || len(f.UintMap) != 3 {
		t.Fatalf("unexpected values: %v\n", f.UintMap)
	}

	buf := make([]byte, 36)
	buf[4] = 0x15
	if !f.Filter(parse.Parse(buf)) {
		t.Fatal("Expected 0x15 to pass")
	}
	buf[4] = 0x01
	if f.Filter(parse.Parse(buf)) {
		t.Fatal("Expected 0x01 to be rejected")
	}
}

func TestUniqueFilter(t *testing.T) {
	a := make([]byte, 36)
	a[0], a[4], a[32] = 1, 0x01, 0xAA
	b := append([]byte{}, a...)
	b[4] = 0x05
	c := append([]byte{}, a...)
	c[32] = 0xBB

	uf := NewUniqueFilter()
	for idx, want := range []bool{true, false, true, true, false} {
		msg := parse.Parse([][]byte{a, a, b, c, c}[idx])
		if got := uf.Filter(msg); got != want {
			t.Fatalf("message %d: Expected %v got %v\n", idx, want, got)
		}
	}
}

func TestGenerate(t *testing.T) {
	registered := parse.Registered()

	for _, f := range []bitstream.Format{bitstream.Byte, bitstream.ASCII, bitstream.Packed} {
		buf := &bytes.Buffer{}
		if err := Generate(buf, f, len(registered), 0, 1); err != nil {
			t.Fatalf("%s: %+v\n", f, err)
		}

		syms, err := ioutil.ReadAll(bitstream.NewReader(buf, f))
		if err != nil {
			t.Fatalf("%s: %+v\n", f, err)
		}

		ch := channel.New(434550000, channel.Options{}, nil)
		msgs := ch.Write(syms)
		if len(msgs) != len(registered) {
			t.Fatalf("%s: Expected %d messages got %d\n", f, len(registered), len(msgs))
		}

		for _, msg := range msgs {
			if _, ok := registered[msg.TypeCode()]; !ok || msg.MsgType() == "Base" {
				t.Fatalf("%s: unexpected message %s\n", f, msg)
			}
		}
	}
}

// Sparse errors are corrected, so every generated message still decodes.
func TestGenerateErrors(t *testing.T) {
	buf := &bytes.Buffer{}
	if err := Generate(buf, bitstream.Byte, 64, 0.002, 3); err != nil {
		t.Fatalf("%+v\n", err)
	}

	ch := channel.New(434550000, channel.Options{KeepInvalid: true}, nil)
	msgs := ch.Write(buf.Bytes())

	valid := 0
	for _, msg := range msgs {
		if msg.Valid {
			valid++
		}
	}
	if valid < 56 {
		t.Fatalf("Expected at least 56 of 64 valid messages got %d\n", valid)
	}
}

func TestReceiver(t *testing.T) {
	buf := &bytes.Buffer{}
	if err := Generate(buf, bitstream.ASCII, 5, 0, 7); err != nil {
		t.Fatalf("%+v\n", err)
	}
	path := writeFile(t, "ch.txt", buf.String())

	cfg := DefaultConfig()
	cfg.Channels = []ChannelConfig{{Input: path, Format: "ascii"}, {Input: path, Format: "ascii"}}
	if err := cfg.Normalize(); err != nil {
		t.Fatalf("%+v\n", err)
	}

	out := &bytes.Buffer{}
	rcvr, err := NewReceiver(cfg, channel.Options{}, NewEncoder("json", out))
	if err != nil {
		t.Fatalf("%+v\n", err)
	}
	defer rcvr.Close()

	if err := rcvr.Run(testContext(t), false); err != nil {
		t.Fatalf("%+v\n", err)
	}

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) != 10 {
		t.Fatalf("Expected 10 records got %d\n", len(lines))
	}

	freqs := map[float64]int{}
	for _, line := range lines {
		var fields map[string]interface{}
		if err := json.Unmarshal([]byte(line), &fields); err != nil {
			t.Fatalf("%+v\n", err)
		}
		if fields["valid"] != true {
			t.Fatalf("Expected valid record got %s\n", line)
		}
		freqs[fields["freq"].(float64)]++
	}

	if freqs[434.55] != 5 || freqs[434.65] != 5 {
		t.Fatalf("unexpected channel counts: %v\n", freqs)
	}
}

func TestReceiverSingle(t *testing.T) {
	buf := &bytes.Buffer{}
	if err := Generate(buf, bitstream.Byte, 5, 0, 9); err != nil {
		t.Fatalf("%+v\n", err)
	}

	cfg := DefaultConfig()
	cfg.Channels = []ChannelConfig{{Input: writeFile(t, "ch.bits", buf.String())}}
	if err := cfg.Normalize(); err != nil {
		t.Fatalf("%+v\n", err)
	}

	out := &bytes.Buffer{}
	rcvr, err := NewReceiver(cfg, channel.Options{}, NewEncoder("plain", out))
	if err != nil {
		t.Fatalf("%+v\n", err)
	}
	defer rcvr.Close()

	if err := rcvr.Run(testContext(t), true); err != nil {
		t.Fatalf("%+v\n", err)
	}

	if lines := strings.Count(out.String(), "\n"); lines != 1 {
		t.Fatalf("Expected 1 record got %d\n", lines)
	}
}

func idleWorker(t *testing.T, freq float64) worker {
	t.Helper()

	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("%+v\n", err)
	}
	t.Cleanup(func() { w.Close() })

	return worker{
		ch:     channel.New(freq, channel.Options{}, nil),
		src:    r,
		format: bitstream.Byte,
	}
}

func runWithin(t *testing.T, rcvr *Receiver, ctx context.Context, single bool, limit time.Duration) error {
	t.Helper()

	done := make(chan error, 1)
	go func() { done <- rcvr.Run(ctx, single) }()

	select {
	case err := <-done:
		return err
	case <-time.After(limit):
		t.Fatalf("Run still blocked %s after cancellation\n", limit)
	}
	return nil
}

func TestReceiverIdleInput(t *testing.T) {
	rcvr := &Receiver{
		workers: []worker{idleWorker(t, 434.55e6)},
		encoder: NewEncoder("plain", &bytes.Buffer{}),
	}

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	if err := runWithin(t, rcvr, ctx, false, 5*time.Second); err != nil {
		t.Fatalf("%+v\n", err)
	}
}

func TestReceiverSingleIdleInput(t *testing.T) {
	buf := &bytes.Buffer{}
	if err := Generate(buf, bitstream.Byte, 1, 0, 11); err != nil {
		t.Fatalf("%+v\n", err)
	}

	cfg := DefaultConfig()
	cfg.Channels = []ChannelConfig{{Input: writeFile(t, "ch.bits", buf.String())}}
	if err := cfg.Normalize(); err != nil {
		t.Fatalf("%+v\n", err)
	}

	out := &bytes.Buffer{}
	rcvr, err := NewReceiver(cfg, channel.Options{}, NewEncoder("plain", out))
	if err != nil {
		t.Fatalf("%+v\n", err)
	}
	rcvr.workers = append(rcvr.workers, idleWorker(t, 434.65e6))
	defer rcvr.Close()

	if err := runWithin(t, rcvr, testContext(t), true, 5*time.Second); err != nil {
		t.Fatalf("%+v\n", err)
	}

	if lines := strings.Count(out.String(), "\n"); lines != 1 {
		t.Fatalf("Expected 1 record got %d\n", lines)
	}
}
