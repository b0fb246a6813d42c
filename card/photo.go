package card

import (
	"encoding/base64"
	"mime"
	"net/url"
	"path"
	"strings"

	"github.com/emersion/go-vcard"
)

// Photo is one PHOTO property. It carries either inline bytes or a URL that
// has to be fetched before the bytes are known.
type Photo struct {
	URL         string
	ContentType string
	data        []byte
}

// Data returns the photo bytes currently known, or nil.
func (p *Photo) Data() []byte {
	return p.data
}

// SetData replaces the photo bytes and their media type.
func (p *Photo) SetData(data []byte, contentType string) {
	p.data = data
	if contentType != "" {
		p.ContentType = contentType
	}
}

// IsRemote reports whether the photo bytes live behind a URL.
func (p *Photo) IsRemote() bool {
	return p.URL != ""
}

func newPhoto(field *vcard.Field) *Photo {
	value := strings.TrimSpace(field.Value)
	photo := &Photo{ContentType: photoMediaType(field)}
	if value == "" {
		return photo
	}

	if hasScheme(value, "data") {
		data, mediaType, ok := decodeDataURI(value)
		if ok {
			photo.data = data
			if mediaType != "" {
				photo.ContentType = mediaType
			}
		}
		return photo
	}

	switch strings.ToLower(param(field, paramEncoding)) {
	case "b", "base64":
		photo.data = decodeBase64(value)
		return photo
	}

	if u, err := url.Parse(value); err == nil && u.Scheme != "" && u.Host != "" {
		photo.URL = value
		if photo.ContentType == "" {
			photo.ContentType = mime.TypeByExtension(path.Ext(u.Path))
		}
		return photo
	}

	if strings.EqualFold(param(field, paramValue), "uri") {
		photo.URL = value
	}
	return photo
}

// photoMediaType resolves MEDIATYPE (vCard 4) or TYPE=JPEG (vCard 2.1/3).
func photoMediaType(field *vcard.Field) string {
	if mediaType := param(field, paramMediaType); mediaType != "" {
		return strings.ToLower(mediaType)
	}
	for _, t := range typesOf(field) {
		switch t {
		case "jpeg", "jpg":
			return "image/jpeg"
		case "png":
			return "image/png"
		case "gif":
			return "image/gif"
		}
		if strings.HasPrefix(t, "image/") {
			return t
		}
	}
	return ""
}

func decodeDataURI(value string) ([]byte, string, bool) {
	header, payload, ok := strings.Cut(value[len("data:"):], ",")
	if !ok {
		return nil, "", false
	}
	isBase64 := false
	mediaType := ""
	for i, part := range strings.Split(header, ";") {
		part = strings.TrimSpace(part)
		if i == 0 {
			mediaType = strings.ToLower(part)
			continue
		}
		if strings.EqualFold(part, "base64") {
			isBase64 = true
		}
	}
	if isBase64 {
		data := decodeBase64(payload)
		return data, mediaType, data != nil
	}
	data, err := url.PathUnescape(payload)
	if err != nil {
		return nil, "", false
	}
	return []byte(data), mediaType, true
}

func decodeBase64(value string) []byte {
	value = strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\t', '\r', '\n':
			return -1
		}
		return r
	}, value)
	for _, enc := range []*base64.Encoding{base64.StdEncoding, base64.RawStdEncoding, base64.URLEncoding, base64.RawURLEncoding} {
		if data, err := enc.DecodeString(value); err == nil {
			return data
		}
	}
	return nil
}
