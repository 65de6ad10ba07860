package media

import (
	"strings"

	"game-catalog/core/utils"
	"game-catalog/feature/catalog"
)

// Extracted is the media found in one provider payload.
type Extracted struct {
	Images []catalog.MediaDetail
	Videos []catalog.MediaDetail
}

// Extract reads media from a raw provider payload. Recognised keys are cover,
// screenshots, artworks, videos and a generic media array whose entries carry
// url, role or type, and optional dimensions, ordinal, is_primary and quality.
// Entries may be objects or bare URL strings. Duplicate URLs are dropped.
func Extract(payload map[string]any) Extracted {
	x := &extractor{seen: map[string]bool{}}

	if cover, ok := payload["cover"]; ok {
		x.image(cover, KindCover)
	}
	for _, entry := range asList(payload["artworks"]) {
		x.image(entry, KindArtwork)
	}
	for _, entry := range asList(payload["screenshots"]) {
		x.image(entry, KindScreenshot)
	}
	for _, entry := range asList(payload["videos"]) {
		x.video(entry)
	}
	for _, entry := range asList(payload["media"]) {
		obj, ok := entry.(map[string]any)
		if ok && isVideoEntry(obj) {
			x.video(obj)
			continue
		}
		x.image(entry, "")
	}
	return x.out
}

type extractor struct {
	out  Extracted
	seen map[string]bool
}

func (x *extractor) image(entry any, role string) {
	d, hint, ok := detail(entry)
	if !ok || x.seen[d.URL] {
		return
	}
	x.seen[d.URL] = true

	if hint == "" {
		hint = role
	}
	if d.Kind == "" {
		d.Kind = ClassifyImage(d.URL, hint)
	}
	if d.Ordinal == nil {
		n := len(x.out.Images)
		d.Ordinal = &n
	}
	x.out.Images = append(x.out.Images, d)
}

func (x *extractor) video(entry any) {
	d, hint, ok := detail(entry)
	if !ok || x.seen[d.URL] {
		return
	}
	x.seen[d.URL] = true

	if d.Kind == "" {
		d.Kind = ClassifyVideo(d.URL, hint)
	}
	if d.Ordinal == nil {
		n := len(x.out.Videos)
		d.Ordinal = &n
	}
	x.out.Videos = append(x.out.Videos, d)
}

// detail converts one payload entry. hint is the provider's role or type.
func detail(entry any) (catalog.MediaDetail, string, bool) {
	switch v := entry.(type) {
	case string:
		url := normalizeURL(v)
		return catalog.MediaDetail{URL: url}, "", url != ""
	case map[string]any:
		url := normalizeURL(utils.ToString(v["url"]))
		if url == "" {
			if id := utils.ToString(v["video_id"]); id != "" {
				url = "https://www.youtube.com/watch?v=" + id
			}
		}
		if url == "" {
			return catalog.MediaDetail{}, "", false
		}

		d := catalog.MediaDetail{
			URL:         url,
			Thumbnail:   normalizeURL(utils.ToString(v["thumbnail"])),
			Title:       firstString(v, "title", "name"),
			Caption:     utils.ToString(v["caption"]),
			License:     utils.ToString(v["license"]),
			LicenseURL:  utils.ToString(v["license_url"]),
			Attribution: utils.ToString(v["attribution"]),
			Kind:        strings.ToLower(utils.ToString(v["kind"])),
			IsPrimary:   utils.ToBool(v["is_primary"]),
		}
		if id, ok := utils.ToInt64(v["id"]); ok && id > 0 {
			d.ID = uint(id)
		}
		d.Width = intPtr(v["width"])
		d.Height = intPtr(v["height"])
		d.Ordinal = intPtr(v["ordinal"])
		if q, ok := utils.ToFloat64(v["quality"]); ok {
			q = min(max(q, 0), 1)
			d.Quality = &q
		}
		if meta, ok := v["metadata"].(map[string]any); ok {
			d.Metadata = meta
		}
		return d, firstString(v, "role", "type", "purpose"), true
	}
	return catalog.MediaDetail{}, "", false
}

func isVideoEntry(obj map[string]any) bool {
	if strings.EqualFold(utils.ToString(obj["media_type"]), "video") {
		return true
	}
	if _, ok := obj["video_id"]; ok {
		return true
	}
	switch strings.ToLower(utils.ToString(obj["kind"])) {
	case KindTrailer, KindAdvertisement, KindPreview, KindGameplay, KindVideo:
		return true
	}
	return false
}

func asList(v any) []any {
	switch list := v.(type) {
	case []any:
		return list
	case nil:
		return nil
	default:
		return []any{list}
	}
}

func firstString(obj map[string]any, keys ...string) string {
	for _, k := range keys {
		if s := utils.ToString(obj[k]); s != "" {
			return s
		}
	}
	return ""
}

func intPtr(v any) *int {
	n, ok := utils.ToInt64(v)
	if !ok {
		return nil
	}
	i := int(n)
	return &i
}

// normalizeURL completes protocol-relative URLs.
func normalizeURL(url string) string {
	url = strings.TrimSpace(url)
	if strings.HasPrefix(url, "//") {
		return "https:" + url
	}
	return url
}
