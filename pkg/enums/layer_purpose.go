package enums

// LayerPurpose tells the canvas what a render handle is for.
type LayerPurpose string

const (
	LayerPurposeDesign LayerPurpose = "design"
	LayerPurposeGuide  LayerPurpose = "guide"
	LayerPurposeLabel  LayerPurpose = "label"
)

func (p LayerPurpose) String() string {
	return string(p)
}

// Exportable reports whether handles of this purpose belong in composites.
func (p LayerPurpose) Exportable() bool {
	return p == LayerPurposeDesign
}
