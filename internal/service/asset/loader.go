package asset

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	gojson "github.com/goccy/go-json"
	"github.com/goccy/go-yaml"

	domainasset "github.com/alanyang/engn/internal/domain/asset"
	portaudio "github.com/alanyang/engn/internal/port/audio"
	portfetcher "github.com/alanyang/engn/internal/port/fetcher"
)

var ErrNoAudioContext = errors.New("no audio context configured")

// Op is a pending load operation. It resolves to exactly one asset or fails
// with a *domainasset.LoadError.
type Op func(ctx context.Context) (domainasset.Asset, error)

// ImageDecoder turns encoded image bytes into an image.
type ImageDecoder interface {
	DecodeImage(data []byte) (image.Image, error)
}

// StdImageDecoder decodes PNG, JPEG and GIF through the image package registry.
type StdImageDecoder struct{}

func (StdImageDecoder) DecodeImage(data []byte) (image.Image, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decoding image: %w", err)
	}
	return img, nil
}

// Loader builds load operations over one fetcher. Every operation performs
// exactly one fetch, plus one decode for sounds.
type Loader struct {
	fetch  portfetcher.Fetcher
	images ImageDecoder
	audio  portaudio.Context
}

type LoaderOption func(*Loader)

func WithImageDecoder(d ImageDecoder) LoaderOption {
	return func(l *Loader) { l.images = d }
}

// WithAudioContext enables Sound operations. Without it they fail with ErrNoAudioContext.
func WithAudioContext(ac portaudio.Context) LoaderOption {
	return func(l *Loader) { l.audio = ac }
}

func NewLoader(fetch portfetcher.Fetcher, opts ...LoaderOption) *Loader {
	l := &Loader{fetch: fetch, images: StdImageDecoder{}}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

func (l *Loader) Image(name, src string) Op {
	return func(ctx context.Context) (domainasset.Asset, error) {
		data, err := l.fetch.Fetch(ctx, src)
		if err != nil {
			return domainasset.Asset{}, loadError(domainasset.KindImage, name, src, err)
		}
		img, err := l.images.DecodeImage(data)
		if err != nil {
			return domainasset.Asset{}, loadError(domainasset.KindImage, name, src, err)
		}
		return domainasset.Asset{Kind: domainasset.KindImage, Name: name, Value: img}, nil
	}
}

func (l *Loader) Sound(name, src string) Op {
	return func(ctx context.Context) (domainasset.Asset, error) {
		if l.audio == nil {
			return domainasset.Asset{}, loadError(domainasset.KindSound, name, src, ErrNoAudioContext)
		}
		data, err := l.fetch.Fetch(ctx, src)
		if err != nil {
			return domainasset.Asset{}, loadError(domainasset.KindSound, name, src, err)
		}
		buf, err := l.audio.Decode(ctx, data)
		if err != nil {
			return domainasset.Asset{}, loadError(domainasset.KindSound, name, src, fmt.Errorf("decoding audio: %w", err))
		}
		return domainasset.Asset{Kind: domainasset.KindSound, Name: name, Value: buf}, nil
	}
}

func (l *Loader) JSON(name, src string) Op {
	return l.data(name, src, func(data []byte, v *any) error {
		return gojson.Unmarshal(data, v)
	})
}

// YAML loads structured data written as YAML. The result lands under KindJSON
// next to JSON documents.
func (l *Loader) YAML(name, src string) Op {
	return l.data(name, src, func(data []byte, v *any) error {
		return yaml.Unmarshal(data, v)
	})
}

func (l *Loader) data(name, src string, decode func([]byte, *any) error) Op {
	return func(ctx context.Context) (domainasset.Asset, error) {
		data, err := l.fetch.Fetch(ctx, src)
		if err != nil {
			return domainasset.Asset{}, loadError(domainasset.KindJSON, name, src, err)
		}
		var v any
		if err := decode(data, &v); err != nil {
			return domainasset.Asset{}, loadError(domainasset.KindJSON, name, src, fmt.Errorf("decoding data: %w", err))
		}
		return domainasset.Asset{Kind: domainasset.KindJSON, Name: name, Value: v}, nil
	}
}

func loadError(kind domainasset.Kind, name, src string, err error) error {
	return &domainasset.LoadError{Kind: kind, Name: name, Src: src, Err: err}
}
