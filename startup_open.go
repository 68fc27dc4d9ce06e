package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/olivier-w/snakes/internal/config"
	"github.com/olivier-w/snakes/internal/frame"
	"github.com/olivier-w/snakes/internal/media"
	"github.com/olivier-w/snakes/internal/sim"
	"github.com/olivier-w/snakes/internal/ui"
	"github.com/olivier-w/snakes/internal/video"
)

// withInput points p at path, classifying it by extension.
func withInput(p *config.Params, path string) (*config.Params, error) {
	kind := media.KindOf(path)
	if kind == media.Unsupported {
		return nil, fmt.Errorf("unsupported format %s (supported: %s)", filepath.Ext(path), media.SupportedExtsList())
	}
	return p.WithInput(path, kind != media.Image), nil
}

// openSource opens the configured input as the kind its extension names.
func openSource(p *config.Params) (frame.Source, error) {
	path, _ := p.Source()
	if path == "" {
		return nil, fmt.Errorf("no image or video given")
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%s is a directory", path)
	}

	overlay, err := frame.ParseOverlay(p.Overlay, p.OverlayWidth)
	if err != nil {
		return nil, err
	}

	switch media.KindOf(path) {
	case media.Image:
		return frame.OpenImage(path, overlay)
	case media.Video:
		if !video.Available() {
			return nil, fmt.Errorf("video input needs ffmpeg and ffprobe on PATH")
		}
		return video.Open(path, overlay)
	case media.Sequence:
		paths, err := media.ParseSequence(path)
		if err != nil {
			return nil, err
		}
		paths = media.FilterImagePaths(paths)
		if len(paths) == 0 {
			return nil, fmt.Errorf("%s lists no readable images", path)
		}
		return frame.OpenSequence(path, paths, overlay)
	}
	return nil, fmt.Errorf("unsupported format %s (supported: %s)", filepath.Ext(path), media.SupportedExtsList())
}

// buildModel opens the input, builds the first force field and, when the
// config carries one, the initial contour.
func buildModel(p *config.Params) (ui.Model, error) {
	src, err := openSource(p)
	if err != nil {
		return ui.Model{}, err
	}
	d, err := sim.New(p, src)
	if err != nil {
		src.Close()
		return ui.Model{}, err
	}
	if init := p.Init(); init != nil {
		if err := d.Init(init); err != nil {
			src.Close()
			return ui.Model{}, err
		}
	}
	return ui.New(d), nil
}
