package cssbin

import (
	"bytes"
	"testing"

	"github.com/dhamidi/cssbox/css"
)

func TestWriteReadRoundTrip(t *testing.T) {
	source := []byte("p.cls { color: #abc; font-size: 10px } a > b { x: rgb(1,2,3) }")
	rule, err := css.ParseCSS(nil, source, "test.css")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	var buf bytes.Buffer
	if err := Write(&buf, source, rule); err != nil {
		t.Fatalf("write: %v", err)
	}

	got, meta, err := Read(&buf)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if meta.Version != formatVersion {
		t.Errorf("version: got %d want %d", meta.Version, formatVersion)
	}
	if meta.Stale(source) {
		t.Errorf("metadata should not be stale against its own source")
	}
	if meta.Stale([]byte("different source")) == false {
		t.Errorf("metadata should be stale against different source")
	}

	if got == nil || got.Next == nil {
		t.Fatalf("expected two rules, got %+v", got)
	}
	if !got.Selector.HasName || got.Selector.Name != "p" {
		t.Errorf("first selector: got %+v", got.Selector)
	}
	if got.Declaration.Value.Type != css.CSSColor || got.Declaration.Value.Data != "a0b0c0" {
		t.Errorf("first declaration value: got %+v", got.Declaration.Value)
	}

	second := got.Next
	if second.Selector.Combine != '>' {
		t.Errorf("second selector combine: got %q", second.Selector.Combine)
	}
	if second.Declaration.Value.Type != css.TokenKind('(') || second.Declaration.Value.Data != "rgb" {
		t.Errorf("second declaration value: got %+v", second.Declaration.Value)
	}
}

func TestReadMetadataWithoutFullDecode(t *testing.T) {
	source := []byte("a { x: 1 }")
	rule, err := css.ParseCSS(nil, source, "test.css")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	var buf bytes.Buffer
	if err := Write(&buf, source, rule); err != nil {
		t.Fatalf("write: %v", err)
	}

	meta, err := ReadMetadata(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("read metadata: %v", err)
	}
	if meta.Stale(source) {
		t.Errorf("metadata should not be stale")
	}
}

func TestReadRejectsBadMagic(t *testing.T) {
	_, _, err := Read(bytes.NewReader([]byte("nope")))
	if err == nil {
		t.Fatalf("expected an error for bad magic")
	}
}
