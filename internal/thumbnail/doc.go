/*
Package thumbnail renders JPEG thumbnails through a closed set of engines.

# Engines

  - gd (alias imaging): in-process decode and Lanczos resample with
    disintegration/imaging. Files whose estimated decode footprint exceeds
    Config.MemoryLimit get a fixed "Image Too Large :(" placeholder instead,
    without ever being decoded.
  - vips: libvips via govips, shrinking at decode time.
  - convert: the ImageMagick binary.
  - epeg: the epeg binary (JPEG sources only).

New selects an engine by name; unknown names fall back to gd. Every engine
clamps the source to at most a 5:1 aspect ratio before scaling, so a long
banner keeps a readable thumbnail.

External tools are run with exec.CommandContext, bounded by
Config.CommandTimeout, and their exit status is checked. Failures are returned
as *EngineError so callers can tell an unavailable tool from a broken input.
*/
package thumbnail
