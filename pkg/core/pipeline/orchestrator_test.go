package pipeline

import (
	"testing"

	"qamind/pkg/core/chunk"
)

func TestMD5Hex(t *testing.T) {
	if got := md5Hex(""); got != "d41d8cd98f00b204e9800998ecf8427e" {
		t.Errorf("md5Hex(\"\") = %q", got)
	}
	if md5Hex("a") == md5Hex("b") {
		t.Error("distinct content should hash differently")
	}
}

func TestNew_ConcurrencyDefault(t *testing.T) {
	o := New(nil, nil, nil, Options{})
	if o.opts.Concurrency != 3 {
		t.Errorf("concurrency = %d, want default 3", o.opts.Concurrency)
	}

	o = New(nil, nil, nil, Options{Concurrency: 8})
	if o.opts.Concurrency != 8 {
		t.Errorf("concurrency = %d, want 8", o.opts.Concurrency)
	}
}

func TestNew_ChunkBudgets(t *testing.T) {
	o := New(nil, nil, nil, Options{})
	if o.chunker.Size != chunk.DefaultSize || o.chunker.Overlap != chunk.DefaultOverlap {
		t.Errorf("chunker budgets = %d/%d, want defaults", o.chunker.Size, o.chunker.Overlap)
	}

	o = New(nil, nil, nil, Options{ChunkSize: 400, ChunkOverlap: 100})
	if o.chunker.Size != 400 || o.chunker.Overlap != 100 {
		t.Errorf("chunker budgets = %d/%d, want the configured 400/100", o.chunker.Size, o.chunker.Overlap)
	}
}
