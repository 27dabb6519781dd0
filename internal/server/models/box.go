package models

// Box is a single catalogued item attached to a user: a pair of coordinates,
// a free-text city label, and an optional reference to an externally stored
// image. ImageRef is the storage name only, never the content; empty means
// no image.
type Box struct {
	ID           string
	UserID       string
	X            float64
	Y            float64
	ImageRef     string
	LocationCity string
}
