package models

// PublishableAsset is one rendered slide image, ready for upload.
// Ordinal carries the slide position; carousel children are created in
// ordinal order and Instagram renders them in the order supplied, so the
// ordering must survive every step of a publish run.
type PublishableAsset struct {
	Ordinal int    `json:"ordinal"`
	Image   []byte `json:"-"`
	// ContentType of Image, e.g. "image/png".
	ContentType string `json:"contentType,omitempty"`
}

// RemoteImageRef is the publicly fetchable location of an uploaded asset.
// Valid only within the publish run that produced it.
type RemoteImageRef struct {
	PublicURL string `json:"publicUrl"`
}

// ContainerRole classifies a media container staged on the Graph API.
type ContainerRole string

const (
	RoleSingleImage  ContainerRole = "single_image"
	RoleCarouselItem ContainerRole = "carousel_item"
	RoleCarouselRoot ContainerRole = "carousel_root"
)

// MediaContainer is an opaque server-side staging object. The id has no
// meaning besides being passed to the next API call and is never reused
// across runs.
type MediaContainer struct {
	ID   string        `json:"id"`
	Role ContainerRole `json:"role"`
}

// PublishRequest is the wire form of a publish action from the editor.
type PublishRequest struct {
	Account Account `json:"account"`
	Caption string  `json:"caption"`
	Slides  []Slide `json:"slides"`
}

// PublishResult reports the terminal state of a publish run.
type PublishResult struct {
	MediaID   string `json:"mediaId,omitempty"`
	Published bool   `json:"published"`
	Error     string `json:"error,omitempty"`
	Simulated bool   `json:"simulated"`
}
