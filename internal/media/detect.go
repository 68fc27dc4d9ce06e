package media

import (
	"path/filepath"
	"strings"
)

// Kind classifies an input file.
type Kind int

const (
	Unsupported Kind = iota
	Image
	Video
	Sequence
)

func (k Kind) String() string {
	switch k {
	case Image:
		return "image"
	case Video:
		return "video"
	case Sequence:
		return "sequence"
	default:
		return "unsupported"
	}
}

var imageExts = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".gif":  true,
	".bmp":  true,
	".tif":  true,
	".tiff": true,
	".webp": true,
}

var videoExts = map[string]bool{
	".mp4":  true,
	".mkv":  true,
	".mov":  true,
	".avi":  true,
	".webm": true,
	".m4v":  true,
}

var sequenceExts = map[string]bool{
	".m3u":  true,
	".m3u8": true,
	".lst":  true,
}

// KindOf classifies path by its extension.
func KindOf(path string) Kind {
	ext := strings.ToLower(filepath.Ext(path))
	switch {
	case imageExts[ext]:
		return Image
	case videoExts[ext]:
		return Video
	case sequenceExts[ext]:
		return Sequence
	}
	return Unsupported
}

// IsSupportedExt returns true if the extension is an image, video or frame
// list format.
func IsSupportedExt(ext string) bool {
	ext = strings.ToLower(ext)
	return imageExts[ext] || videoExts[ext] || sequenceExts[ext]
}

// IsImageExt returns true if the extension is a decodable still image.
func IsImageExt(ext string) bool {
	return imageExts[strings.ToLower(ext)]
}

// IsSequenceExt returns true if the extension is a frame list format.
func IsSequenceExt(ext string) bool {
	return sequenceExts[strings.ToLower(ext)]
}

// SupportedExtsList returns a human-readable list of supported formats.
func SupportedExtsList() string {
	return ".png, .jpg, .gif, .bmp, .tif, .webp, .mp4, .mkv, .mov, .avi, .webm, .m4v, .m3u, .lst"
}
