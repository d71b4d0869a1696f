package source

import "math"

// float32bits/float32frombits back every atomically-shared float32 control
// field in this package (Amplify.factor, Speed.factor, ...): atomic.Uint32
// has no float32 counterpart in the standard library, so the bit pattern is
// stored directly, matching the teacher's use of atomic.Pointer for the
// single hot-path field it shares across threads (audio_backend_oto.go).
func float32bits(f float32) uint32   { return math.Float32bits(f) }
func float32frombits(b uint32) float32 { return math.Float32frombits(b) }
