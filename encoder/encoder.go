// Package encoder records rendered frames to a video file by piping raw RGBA
// pixels into an ffmpeg process.
package encoder

import (
	"errors"
	"fmt"
	"io"
	"os/exec"

	"github.com/charmbracelet/log"
	ffmpeg "github.com/u2takey/ffmpeg-go"
)

// Frame represents a single rendered video frame's data, ready for encoding.
// Pixels are tightly packed RGBA rows, bottom row first as read back from GL.
type Frame struct {
	Pixels []byte
	PTS    int64
}

type Options struct {
	Width      int
	Height     int
	FPS        int
	Output     string
	FFmpegPath string
	Codec      string // defaults to libx264
	Verbose    bool   // pass ffmpeg's own output through
}

var ErrClosed = errors.New("recorder closed")

// Recorder handles the video encoding using an external FFmpeg process.
type Recorder struct {
	opts       Options
	cmd        *exec.Cmd
	pipeWriter *io.PipeWriter
	logger     *log.Logger

	videoFrames chan *Frame
	written     chan error
	done        chan error
	closed      bool
}

func (o Options) frameSize() int { return o.Width * o.Height * 4 }

// Stream builds the ffmpeg invocation reading raw frames from in.
func (o Options) Stream(in io.Reader) *ffmpeg.Stream {
	codec := o.Codec
	if codec == "" {
		codec = "libx264"
	}
	stream := ffmpeg.Input("pipe:", ffmpeg.KwArgs{
		"f":         "rawvideo",
		"pix_fmt":   "rgba",
		"s":         fmt.Sprintf("%dx%d", o.Width, o.Height),
		"framerate": o.FPS,
	}).Output(o.Output, ffmpeg.KwArgs{
		"vf":      "vflip",
		"c:v":     codec,
		"pix_fmt": "yuv420p",
	}).OverWriteOutput().WithInput(in)

	if o.Verbose {
		stream = stream.ErrorToStdOut()
	}
	if o.FFmpegPath != "" {
		stream.SetFfmpegPath(o.FFmpegPath)
	}
	return stream
}

func NewRecorder(opts Options, logger *log.Logger) (*Recorder, error) {
	if opts.Width <= 0 || opts.Height <= 0 {
		return nil, fmt.Errorf("invalid video size %dx%d", opts.Width, opts.Height)
	}
	if opts.FPS <= 0 {
		return nil, fmt.Errorf("invalid frame rate %d", opts.FPS)
	}
	if opts.Output == "" {
		return nil, errors.New("no output file specified")
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Recorder{
		opts:        opts,
		logger:      logger.WithPrefix("encoder"),
		videoFrames: make(chan *Frame, 4),
		written:     make(chan error, 1),
		done:        make(chan error, 1),
	}, nil
}

// Start launches ffmpeg and the goroutine feeding it.
func (r *Recorder) Start() error {
	pipeReader, pipeWriter := io.Pipe()
	r.pipeWriter = pipeWriter
	cmd := r.opts.Stream(pipeReader).Compile()

	r.logger.Info("recording", "output", r.opts.Output, "size", fmt.Sprintf("%dx%d", r.opts.Width, r.opts.Height), "fps", r.opts.FPS)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to start ffmpeg: %w", err)
	}
	r.cmd = cmd

	go func() {
		err := r.cmd.Wait()
		if err != nil {
			r.logger.Error("ffmpeg finished with error", "error", err)
		}
		// unblock a writer stuck on a dead process
		pipeReader.CloseWithError(io.ErrClosedPipe)
		r.done <- err
	}()

	go r.run()
	return nil
}

func (r *Recorder) run() {
	var err error
	for frame := range r.videoFrames {
		if err != nil {
			continue
		}
		if _, err = r.pipeWriter.Write(frame.Pixels); err != nil {
			r.logger.Error("error writing to ffmpeg pipe", "pts", frame.PTS, "error", err)
		}
	}
	r.pipeWriter.Close()
	r.written <- err
}

// SendVideo queues one frame. Pixels must be exactly Width*Height*4 bytes;
// the slice is owned by the recorder afterwards.
func (r *Recorder) SendVideo(frame *Frame) error {
	if r.closed {
		return ErrClosed
	}
	if len(frame.Pixels) != r.opts.frameSize() {
		return fmt.Errorf("frame %d has %d bytes, expected %d", frame.PTS, len(frame.Pixels), r.opts.frameSize())
	}
	r.videoFrames <- frame
	return nil
}

// Close flushes the queued frames, ends the stream and waits for ffmpeg.
func (r *Recorder) Close() error {
	if r.closed {
		return nil
	}
	r.closed = true
	close(r.videoFrames)
	if r.cmd == nil {
		return nil
	}
	writeErr := <-r.written
	runErr := <-r.done
	if runErr != nil {
		return fmt.Errorf("ffmpeg: %w", runErr)
	}
	return writeErr
}
