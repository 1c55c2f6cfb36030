package media

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
)

// Audio extraction formats.
const (
	FormatMP3 = "mp3"
	FormatWAV = "wav"
)

// DefaultThumbnailTime is the conventional poster-frame offset in seconds.
const DefaultThumbnailTime = 1.0

// GenerateThumbnail extracts a single frame at timeSeconds, scaled to
// 320x240, and returns it as a JPEG data URL. Pass a non-positive
// timeSeconds to use DefaultThumbnailTime.
func (t *Toolkit) GenerateThumbnail(ctx context.Context, file io.Reader, timeSeconds float64) (string, error) {
	if timeSeconds <= 0 {
		timeSeconds = DefaultThumbnailTime
	}

	input, err := readAll(file)
	if err != nil {
		return "", err
	}

	res, err := t.run(ctx, "thumbnail", input, ".mp4", ".jpg", "image/jpeg",
		func(_ Engine, in, out string) []string {
			return []string{
				"-ss", formatSeconds(timeSeconds),
				"-i", in,
				"-frames:v", "1",
				"-vf", "scale=320:240",
				"-q:v", "2",
				out,
			}
		}, nil)
	if err != nil {
		return "", err
	}

	return "data:" + res.MIME + ";base64," + base64.StdEncoding.EncodeToString(res.Data), nil
}

// TrimVideo cuts the input to [startTime, endTime) seconds using stream
// copy. No re-encode happens, so cut points snap to the nearest keyframe;
// trims are not frame exact. That is a limitation of stream copy, not a bug.
func (t *Toolkit) TrimVideo(ctx context.Context, file io.Reader, startTime, endTime float64, onProgress ProgressFunc) (*Result, error) {
	if endTime <= startTime {
		return nil, fmt.Errorf("trim: end time %s must be after start time %s",
			formatSeconds(endTime), formatSeconds(startTime))
	}

	input, err := readAll(file)
	if err != nil {
		return nil, err
	}

	return t.run(ctx, "trim", input, ".mp4", ".mp4", "video/mp4",
		func(_ Engine, in, out string) []string {
			return []string{
				"-ss", formatSeconds(startTime),
				"-i", in,
				"-t", formatSeconds(endTime - startTime),
				"-c", "copy",
				out,
			}
		}, onProgress)
}

// ConvertToWebM re-encodes the input with VP9 at CRF 30 (bitrate
// unconstrained, quality-targeted) and Opus audio.
func (t *Toolkit) ConvertToWebM(ctx context.Context, file io.Reader, onProgress ProgressFunc) (*Result, error) {
	input, err := readAll(file)
	if err != nil {
		return nil, err
	}

	return t.run(ctx, "convert-webm", input, ".mp4", ".webm", "video/webm",
		func(eng Engine, in, out string) []string {
			args := []string{
				"-i", in,
				"-c:v", "libvpx-vp9",
				"-crf", "30",
				"-b:v", "0",
			}
			if n := eng.EncodeThreads(); n > 0 {
				args = append(args, "-row-mt", "1", "-threads", fmt.Sprintf("%d", n))
			}
			return append(args, "-c:a", "libopus", out)
		}, onProgress)
}

// ExtractAudio drops the video stream and encodes the audio as MP3 (lame)
// or 16-bit PCM WAV. An empty format defaults to MP3.
func (t *Toolkit) ExtractAudio(ctx context.Context, file io.Reader, format string) (*Result, error) {
	if format == "" {
		format = FormatMP3
	}

	var codec string
	switch format {
	case FormatMP3:
		codec = "libmp3lame"
	case FormatWAV:
		codec = "pcm_s16le"
	default:
		return nil, fmt.Errorf("extract-audio: unsupported format %q", format)
	}

	input, err := readAll(file)
	if err != nil {
		return nil, err
	}

	return t.run(ctx, "extract-audio", input, ".mp4", "."+format, "audio/"+format,
		func(_ Engine, in, out string) []string {
			return []string{"-i", in, "-vn", "-acodec", codec, out}
		}, nil)
}
