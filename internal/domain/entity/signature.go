package entity

// DefaultSignatureOpacity is applied to placements that do not set one
const DefaultSignatureOpacity = 0.7

// SignaturePlacement is the rectangle, in PDF points, where the renderer
// stamps the client signature for a form type
type SignaturePlacement struct {
	X       float64 `json:"x" validate:"gte=0"`
	Y       float64 `json:"y" validate:"gte=0"`
	Width   float64 `json:"width" validate:"gt=0"`
	Height  float64 `json:"height" validate:"gt=0"`
	Opacity float64 `json:"opacity" validate:"gte=0,lte=1"`
}

// DefaultSignaturePlacement is used when a form type has no mapping
var DefaultSignaturePlacement = SignaturePlacement{X: 400, Y: 100, Width: 200, Height: 60, Opacity: DefaultSignatureOpacity}

// WithDefaultOpacity returns the placement with opacity filled in when unset
func (p SignaturePlacement) WithDefaultOpacity() SignaturePlacement {
	if p.Opacity == 0 {
		p.Opacity = DefaultSignatureOpacity
	}
	return p
}
