package media

import "strings"

// Image kinds written by the classifier.
const (
	KindCover      = "cover"
	KindKeyArt     = "keyart"
	KindBackground = "background"
	KindArtwork    = "artwork"
	KindCharacter  = "character"
	KindLogo       = "logo"
	KindIcon       = "icon"
	KindScreenshot = "screenshot"
	KindThumbnail  = "thumbnail"
	KindImage      = "image"
)

// Video kinds written by the classifier.
const (
	KindTrailer       = "trailer"
	KindAdvertisement = "advertisement"
	KindPreview       = "preview"
	KindGameplay      = "gameplay"
	KindVideo         = "video"
)

var kindPriority = map[string]int{
	"cover": 400, "box_art": 400, "boxart": 400,
	"background": 350, "backdrop": 350, "banner": 350, "fanart": 350,
	"keyart": 350, "key_art": 350, "poster": 350,
	"artwork":    300,
	"screenshot": 200,
	"icon":       150, "thumb": 150, "thumbnail": 150,
}

// KindPriority ranks an image kind for display; higher wins.
func KindPriority(kind string) int {
	if p, ok := kindPriority[strings.ToLower(strings.TrimSpace(kind))]; ok {
		return p
	}
	return 100
}

// IsScreenshot reports whether kind names a screenshot of any flavour.
func IsScreenshot(kind string) bool {
	return strings.Contains(strings.ToLower(kind), "screenshot")
}
