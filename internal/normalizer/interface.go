package normalizer

import "context"

// Normalizer converts uploaded audio into the WAV format the recognizer
// accepts: one channel, PCM 16-bit little-endian, source sample rate.
type Normalizer interface {
	Normalize(ctx context.Context, srcPath, dstPath string) error
}
