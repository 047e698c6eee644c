package normalizer

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/nguyentantai21042004/medscribe/internal/apperror"
	"github.com/nguyentantai21042004/medscribe/internal/wavinfo"
)

var errEmptySource = errors.New("source file is empty")

// Normalize decodes srcPath with ffmpeg and writes mono PCM s16le WAV to
// dstPath. Any decode failure is a conversion error.
func (n *implNormalizer) Normalize(ctx context.Context, srcPath, dstPath string) error {
	st, err := os.Stat(srcPath)
	if err != nil {
		return apperror.Conversion(fmt.Errorf("stat source: %w", err))
	}
	if st.Size() == 0 {
		return apperror.Conversion(errEmptySource)
	}

	n.logger.Info(ctx, "Converting %s to WAV format...", srcPath)

	// -vn: drop any video/cover-art stream
	// -ac 1: downmix to mono
	// -c:a pcm_s16le: PCM 16-bit little-endian
	// No -ar: the source sample rate is kept and later reported to the recognizer.
	args := []string{
		"-hide_banner",
		"-nostdin",
		"-i", srcPath,
		"-vn",
		"-ac", "1",
		"-c:a", "pcm_s16le",
		"-f", "wav",
		"-y",
		dstPath,
	}

	if _, err := n.executor.Execute(ctx, n.ffmpeg, args...); err != nil {
		return apperror.Conversion(fmt.Errorf("ffmpeg convert: %w", err))
	}

	info, err := wavinfo.Inspect(dstPath)
	if err != nil {
		return apperror.Conversion(fmt.Errorf("inspect output: %w", err))
	}
	if !info.IsMonoPCM16() {
		return apperror.Conversion(fmt.Errorf("unexpected output format: %d channel(s), %d-bit, pcm=%v",
			info.Channels, info.BitDepth, info.PCM))
	}

	n.logger.Info(ctx, "Successfully converted to %s (%d Hz, %s)", dstPath, info.SampleRate, info.Duration)
	return nil
}
