package media

import "strings"

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

// ClassifyImage derives an image kind from the provider's role hint, falling
// back to URL patterns.
func ClassifyImage(url, role string) string {
	if r := strings.ToLower(role); r != "" {
		switch {
		case containsAny(r, "boxart", "box-art", "box_art", "cover", "poster"):
			return KindCover
		case containsAny(r, "hero", "banner", "keyart", "key_art", "key-art"):
			return KindKeyArt
		case containsAny(r, "background", "backdrop", "fanart"):
			return KindBackground
		case containsAny(r, "artwork", "promo"):
			return KindArtwork
		case containsAny(r, "screenshot", "screen-shot", "screen_shot"):
			return KindScreenshot
		case containsAny(r, "logo"):
			return KindLogo
		case containsAny(r, "icon"):
			return KindIcon
		case containsAny(r, "thumb"):
			return KindThumbnail
		case containsAny(r, "character", "portrait"):
			return KindCharacter
		}
	}

	u := strings.ToLower(url)
	switch {
	case containsAny(u, "screenshot", "screen-shot", "screen_shot"):
		return KindScreenshot
	case containsAny(u, "thumb"):
		return KindThumbnail
	case containsAny(u, "logo"):
		return KindLogo
	case containsAny(u, "icon"):
		return KindIcon
	case containsAny(u, "cover", "boxart", "box-art", "poster"):
		return KindCover
	case containsAny(u, "hero", "banner", "keyart", "key-art"):
		return KindKeyArt
	case containsAny(u, "background", "backdrop"):
		return KindBackground
	case containsAny(u, "artwork", "promo"):
		return KindArtwork
	case containsAny(u, "character", "portrait"):
		return KindCharacter
	}
	return KindImage
}

// ClassifyVideo derives a video kind from the provider's type hint, falling
// back to URL patterns.
func ClassifyVideo(url, videoType string) string {
	if t := strings.ToLower(videoType); t != "" {
		switch {
		case strings.Contains(t, "trailer"):
			return KindTrailer
		case t == "ad" || containsAny(t, "advert", "commercial"):
			return KindAdvertisement
		case containsAny(t, "preview", "teaser"):
			return KindPreview
		case containsAny(t, "gameplay", "game-play"):
			return KindGameplay
		}
	}

	u := strings.ToLower(url)
	switch {
	case strings.Contains(u, "trailer"):
		return KindTrailer
	case containsAny(u, "gameplay", "game-play"):
		return KindGameplay
	case containsAny(u, "preview", "teaser"):
		return KindPreview
	}
	return KindVideo
}
