// Package ffmpeg drives the external ffmpeg encoder. The rest of the tool
// treats it as an opaque collaborator: bytes in, WebM file out, exit status
// and captured log text as the only observable results.
package ffmpeg
