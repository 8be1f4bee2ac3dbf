package domain

// Overlay places an image relative to each detected face.
// Offsets and sizes are fractions of the face bounding box.
type Overlay struct {
	URI     string  `mapstructure:"uri"`
	OffsetX float32 `mapstructure:"offset_x"`
	OffsetY float32 `mapstructure:"offset_y"`
	Width   float32 `mapstructure:"width"`
	Height  float32 `mapstructure:"height"`
}
