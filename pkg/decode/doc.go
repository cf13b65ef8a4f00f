// Package decode converts raw sensor planes into RGB images.
//
// Three decoders are provided:
//
//   - Mono replicates each raw byte into all three channels.
//   - Grey demosaics a Bayer plane into a greyscale image.
//   - Colour demosaics a Bayer plane into a colour image.
//
// The Bayer decoders use a 13-tap stencil centred on each interior raw pixel:
//
//	      a
//	   b  c  d
//	e  f  g  h  i
//	   j  k  l
//	      m
//
// A 2-pixel border is consumed by the stencil, so a w×h plane decodes to a
// (w-4)×(h-4) image. The border is cropped, not an error.
//
// All arithmetic is integer and every channel is clamped to 0..255.
package decode
