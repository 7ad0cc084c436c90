// Package blob rasterizes vector-described "blob" images on the CPU.
//
// A blob image arrives as a serialized command stream (move/line/quad/
// close) plus a fill color and target size. Rasterization is the slow,
// preemptible part of a scene transaction; the low-priority scene-builder
// thread runs it with QualityLow before the primary thread sees the
// transaction, so cheap transactions are not queued behind it.
package blob

import (
	"encoding/binary"
	"image"
	"image/color"
	"image/draw"
	"math"

	"golang.org/x/image/vector"

	"github.com/gogpu/scenepaint"
)

// Verb is one path command in a blob stream.
type Verb uint8

const (
	VerbMoveTo Verb = iota
	VerbLineTo
	VerbQuadTo
	VerbClose
)

// Command is one decoded path command. CX/CY carry the control point for
// VerbQuadTo and are ignored otherwise.
type Command struct {
	Verb   Verb
	X, Y   float32
	CX, CY float32
}

// Quality selects the rasterization effort.
type Quality uint8

const (
	// QualityHigh rasterizes at full resolution.
	QualityHigh Quality = iota
	// QualityLow rasterizes at half resolution and upscales; used by the
	// low-priority thread so slow blobs cost less on first paint.
	QualityLow
)

// Request describes one blob image awaiting rasterization.
type Request struct {
	Key           uint64
	Width, Height int
	Color         scenepaint.Color
	Commands      []Command
}

// Result is one rasterized blob: premultiplied RGBA pixels.
type Result struct {
	Key           uint64
	Width, Height int
	Pixels        []byte
}

// commandSize is the encoded size of one command: verb byte plus four
// float32 coordinates.
const commandSize = 1 + 4*4

// Encode serializes a command stream into the byte form display lists
// carry.
func Encode(cmds []Command) []byte {
	out := make([]byte, 0, len(cmds)*commandSize)
	for _, c := range cmds {
		out = append(out, byte(c.Verb))
		out = binary.LittleEndian.AppendUint32(out, math.Float32bits(c.X))
		out = binary.LittleEndian.AppendUint32(out, math.Float32bits(c.Y))
		out = binary.LittleEndian.AppendUint32(out, math.Float32bits(c.CX))
		out = binary.LittleEndian.AppendUint32(out, math.Float32bits(c.CY))
	}
	return out
}

// Decode parses an encoded command stream. Trailing partial commands are
// dropped; malformed input degrades to fewer commands, never an error.
func Decode(data []byte) []Command {
	n := len(data) / commandSize
	if n == 0 {
		return nil
	}
	out := make([]Command, 0, n)
	for i := 0; i < n; i++ {
		p := data[i*commandSize:]
		out = append(out, Command{
			Verb: Verb(p[0]),
			X:    math.Float32frombits(binary.LittleEndian.Uint32(p[1:])),
			Y:    math.Float32frombits(binary.LittleEndian.Uint32(p[5:])),
			CX:   math.Float32frombits(binary.LittleEndian.Uint32(p[9:])),
			CY:   math.Float32frombits(binary.LittleEndian.Uint32(p[13:])),
		})
	}
	return out
}

// Rasterize renders each request into premultiplied RGBA pixels. Requests
// with a non-positive size or no commands produce an empty (fully
// transparent) result rather than an error.
func Rasterize(reqs []Request, q Quality) []Result {
	out := make([]Result, 0, len(reqs))
	for i := range reqs {
		out = append(out, rasterizeOne(&reqs[i], q))
	}
	return out
}

func rasterizeOne(req *Request, q Quality) Result {
	w, h := req.Width, req.Height
	if w <= 0 || h <= 0 {
		return Result{Key: req.Key}
	}

	res := Result{Key: req.Key, Width: w, Height: h}
	if len(req.Commands) == 0 {
		res.Pixels = make([]byte, w*h*4)
		return res
	}

	scale := float32(1)
	rw, rh := w, h
	if q == QualityLow && w > 1 && h > 1 {
		// Half-resolution rasterization, upscaled below. Coarser edges,
		// roughly a quarter of the fill cost.
		scale = 0.5
		rw, rh = (w+1)/2, (h+1)/2
	}

	r := vector.NewRasterizer(rw, rh)
	r.DrawOp = draw.Src
	for _, c := range req.Commands {
		switch c.Verb {
		case VerbMoveTo:
			r.MoveTo(c.X*scale, c.Y*scale)
		case VerbLineTo:
			r.LineTo(c.X*scale, c.Y*scale)
		case VerbQuadTo:
			r.QuadTo(c.CX*scale, c.CY*scale, c.X*scale, c.Y*scale)
		case VerbClose:
			r.ClosePath()
		}
	}
	r.ClosePath()

	dst := image.NewRGBA(image.Rect(0, 0, rw, rh))
	pr, pg, pb, pa := req.Color.Premultiplied()
	src := image.NewUniform(color.RGBA{R: pr, G: pg, B: pb, A: pa})
	r.Draw(dst, dst.Bounds(), src, image.Point{})

	if rw == w && rh == h {
		res.Pixels = dst.Pix
		return res
	}
	res.Pixels = upscaleNearest(dst.Pix, rw, rh, w, h)
	return res
}

// upscaleNearest resizes premultiplied RGBA pixels with nearest-neighbor
// sampling.
func upscaleNearest(src []byte, sw, sh, dw, dh int) []byte {
	dst := make([]byte, dw*dh*4)
	for y := 0; y < dh; y++ {
		sy := y * sh / dh
		for x := 0; x < dw; x++ {
			sx := x * sw / dw
			si := (sy*sw + sx) * 4
			di := (y*dw + x) * 4
			copy(dst[di:di+4], src[si:si+4])
		}
	}
	return dst
}
