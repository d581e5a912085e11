// SPDX-License-Identifier: EPL-2.0

// Package audio provides the decoded-signal model and the processing stages
// between a decoder and the canonical encoder.
//
// It contains two views of the same data:
//   - Source, a pull-based stream of interleaved float32 samples produced by
//     the format decoders and chained through Resampler and MonoMixer
//   - Signal, a fully decoded planar buffer that the pipeline passes from
//     stage to stage
//
// # Decoding
//
// A Registry maps format keys and media types to decoders. Registry.Decode
// sniffs the payload, falls back to the declared media type, drains the
// decoder into a Signal and always closes the decoding context:
//
//	reg := audio.NewRegistry()
//	reg.Register("wav", wav.Decoder{}, "audio/wav", "audio/x-wav")
//	sig, format, err := reg.Decode(data, "audio/wav")
//
// Every decode failure is a *DecodeError.
//
// # Resampling
//
// Resample converts a Signal to a new rate with cubic interpolation and
// returns exactly round(frames * target / rate) frames per channel:
//
//	sig16k, err := audio.Resample(sig, 16000)
//
// Resampling to the current rate is an identity. The streaming Resampler
// does the same work on a Source:
//
//	resampler := audio.NewResampler(source, 16000)
//	n, err := resampler.ReadSamples(buf)
//
// # Channel Mixing
//
// MixToMono (or the streaming MonoMixer) averages all channels into one:
//
//	mono, err := audio.MixToMono(sig)
//
// # Sample Format
//
// Samples are float32 in the range [-1.0, 1.0]. Sources return io.EOF when no
// more data is available:
//
//	for {
//	    n, err := source.ReadSamples(buf)
//	    // use buf[:n]
//	    if err == io.EOF {
//	        break
//	    }
//	    if err != nil {
//	        return err
//	    }
//	}
package audio
