/*
NAME
  block_test.go

DESCRIPTION
  block_test.go provides testing for the tile RLE codec in block.go.

AUTHORS
  Saxon A. Nelson-Milton <saxon@ausocean.org>
  Trek Hopton <trek@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package block

import (
	"bytes"
	"io"
	"math/rand"
	"testing"

	"github.com/pkg/errors"

	"github.com/ausocean/reia/pixel"
)

// genTile returns a 32x32 tile with deterministic pseudo random pixels.
func genTile(t *testing.T, rng *rand.Rand) *pixel.Image {
	pix := make([]byte, Size)
	_, err := rng.Read(pix)
	if err != nil {
		t.Fatalf("did not expect error generating pixels: %v", err)
	}
	tile, err := pixel.FromBytes(Width, Height, pix)
	if err != nil {
		t.Fatalf("did not expect error from FromBytes: %v", err)
	}
	return tile
}

// solidTile returns a 32x32 tile of a single color.
func solidTile(r, g, b byte) *pixel.Image {
	tile := pixel.New(Width, Height)
	for i := 0; i < len(tile.Pix); i += pixel.Channels {
		tile.Pix[i] = r
		tile.Pix[i+1] = g
		tile.Pix[i+2] = b
	}
	return tile
}

func TestDecodeRepeatRuns(t *testing.T) {
	// A solid tile as seven maximal repeat chunks plus the 121 remainder.
	// Wire pixels are B, G, R.
	var payload []byte
	for i := 0; i < 7; i++ {
		payload = append(payload, 0x80, 3, 2, 1) // Tag -128: 129 repeats.
	}
	payload = append(payload, 0x88, 3, 2, 1) // Tag -120: 121 repeats.

	tile, err := Decode(bytes.NewReader(payload))
	if err != nil {
		t.Fatalf("did not expect error decoding: %v", err)
	}
	if !tile.Equal(solidTile(1, 2, 3)) {
		t.Error("did not get expected solid tile")
	}
}

func TestDecodeUniqueRun(t *testing.T) {
	// Two unique pixels then a repeat run filling the rest of the tile.
	payload := []byte{
		0x01, // Tag 1: two unique pixels.
		3, 2, 1,
		6, 5, 4,
	}
	for i := 0; i < 7; i++ {
		payload = append(payload, 0x80, 0, 0, 0)
	}
	payload = append(payload, 0x8a, 0, 0, 0) // Tag -118: 119 repeats.

	tile, err := Decode(bytes.NewReader(payload))
	if err != nil {
		t.Fatalf("did not expect error decoding: %v", err)
	}
	want := pixel.New(Width, Height)
	copy(want.Pix, []byte{1, 2, 3, 4, 5, 6})
	if !tile.Equal(want) {
		t.Error("did not get expected tile")
	}
}

func TestDecodeOverrun(t *testing.T) {
	// Eight maximal repeat chunks emit 1032 pixels; the decoder must reject
	// the eighth.
	var payload []byte
	for i := 0; i < 8; i++ {
		payload = append(payload, 0x80, 3, 2, 1)
	}
	_, err := Decode(bytes.NewReader(payload))
	if !errors.Is(err, ErrMalformed) {
		t.Errorf("expected ErrMalformed, got %v", err)
	}
}

func TestDecodeTruncated(t *testing.T) {
	tests := [][]byte{
		{},                    // Nothing at all.
		{0x80},                // Tag with no pixel.
		{0x80, 3, 2},          // Tag with a partial pixel.
		{0x05, 3, 2, 1},       // Unique run cut short.
		{0x80, 3, 2, 1},       // One full run, then silence.
		{0x80, 3, 2, 1, 0x7f}, // Second run's pixels missing.
	}
	for i, payload := range tests {
		_, err := Decode(bytes.NewReader(payload))
		if !errors.Is(err, io.ErrUnexpectedEOF) {
			t.Errorf("expected io.ErrUnexpectedEOF for test %d, got %v", i, err)
		}
	}
}

func TestEncodeSolid(t *testing.T) {
	var buf bytes.Buffer
	err := Encode(&buf, solidTile(1, 2, 3), nil)
	if err != nil {
		t.Fatalf("did not expect error encoding: %v", err)
	}

	// Greedy segmentation of a 1024 pixel run: seven chunks of 129 then one
	// of 121, tag bytes fully utilised, pixels in B, G, R order.
	var want []byte
	for i := 0; i < 7; i++ {
		want = append(want, 0x80, 3, 2, 1)
	}
	want = append(want, 0x88, 3, 2, 1)

	if !bytes.Equal(buf.Bytes(), want) {
		t.Errorf("did not get expected payload.\nGot: %v\nWant: %v\n", buf.Bytes(), want)
	}
}

func TestEncodeAllUnique(t *testing.T) {
	// A tile where no two neighboring pixels match encodes as eight maximal
	// unique runs: 8 tag bytes on top of the raw data.
	tile := pixel.New(Width, Height)
	for i := 0; i < NumPixels; i++ {
		tile.Pix[i*pixel.Channels] = byte(i)
		tile.Pix[i*pixel.Channels+1] = byte(i >> 8)
		tile.Pix[i*pixel.Channels+2] = byte(255 - i)
	}

	var buf bytes.Buffer
	err := Encode(&buf, tile, nil)
	if err != nil {
		t.Fatalf("did not expect error encoding: %v", err)
	}

	payload := buf.Bytes()
	if len(payload) != Size+8 {
		t.Fatalf("did not get expected payload size.\nGot: %v\nWant: %v\n", len(payload), Size+8)
	}
	for i := 0; i < 8; i++ {
		if tag := payload[i*(1+maxUnique*pixel.Channels)]; tag != 0x7f {
			t.Errorf("did not get expected tag for run %d.\nGot: %#x\nWant: 0x7f\n", i, tag)
		}
	}
}

func TestRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(6))
	for i := 0; i < 20; i++ {
		tile := genTile(t, rng)

		var buf bytes.Buffer
		err := Encode(&buf, tile, nil)
		if err != nil {
			t.Fatalf("did not expect error encoding: %v", err)
		}
		got, err := Decode(&buf)
		if err != nil {
			t.Fatalf("did not expect error decoding: %v", err)
		}
		if !got.Equal(tile) {
			t.Fatalf("round trip changed pixels for tile %d", i)
		}
	}
}

func TestRoundTripDelta(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	prev := genTile(t, rng)
	cur := genTile(t, rng)

	var buf bytes.Buffer
	err := Encode(&buf, cur, prev)
	if err != nil {
		t.Fatalf("did not expect error encoding: %v", err)
	}
	delta, err := Decode(&buf)
	if err != nil {
		t.Fatalf("did not expect error decoding: %v", err)
	}

	// The payload carries cur-prev mod 256; reconstruction is the modular
	// add against the previous tile.
	if got := pixel.AddMod(delta, prev); !got.Equal(cur) {
		t.Error("did not get original tile after delta reconstruction")
	}
}

// TestTagBounds checks that every repeat tag is in [-128,-1] and every
// unique tag in [0,127], and that each payload accounts for exactly 1024
// pixels, over a mix of tile shapes.
func TestTagBounds(t *testing.T) {
	rng := rand.New(rand.NewSource(8))

	tiles := []*pixel.Image{
		solidTile(9, 9, 9),
		genTile(t, rng),
	}
	// A stripy tile; alternating short runs exercise both run kinds.
	stripes := pixel.New(Width, Height)
	for i := 0; i < NumPixels; i++ {
		c := byte(i / 3 % 7)
		stripes.Pix[i*pixel.Channels] = c
		stripes.Pix[i*pixel.Channels+1] = c
		stripes.Pix[i*pixel.Channels+2] = c
	}
	tiles = append(tiles, stripes)

	for n, tile := range tiles {
		var buf bytes.Buffer
		err := Encode(&buf, tile, nil)
		if err != nil {
			t.Fatalf("did not expect error encoding tile %d: %v", n, err)
		}

		payload := buf.Bytes()
		pixels, i := 0, 0
		for i < len(payload) {
			tag := int(int8(payload[i]))
			if tag < 0 {
				if tag < -128 {
					t.Fatalf("repeat tag %d out of range for tile %d", tag, n)
				}
				pixels += -tag + 1
				i += 1 + pixel.Channels
			} else {
				pixels += tag + 1
				i += 1 + (tag+1)*pixel.Channels
			}
		}
		if i != len(payload) {
			t.Fatalf("payload for tile %d has trailing bytes", n)
		}
		if pixels != NumPixels {
			t.Fatalf("did not get expected pixel count for tile %d.\nGot: %v\nWant: %v\n", n, pixels, NumPixels)
		}
	}
}

func TestEncodeBadDimensions(t *testing.T) {
	var buf bytes.Buffer
	err := Encode(&buf, pixel.New(16, 16), nil)
	if err == nil {
		t.Error("expected error for non 32x32 tile")
	}
	err = Encode(&buf, pixel.New(Width, Height), pixel.New(16, 16))
	if err == nil {
		t.Error("expected error for non 32x32 previous tile")
	}
}
