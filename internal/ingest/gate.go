package ingest

import pkgerrors "github.com/Future-Now-Studio/shirtshop-2026-sub000/pkg/errors"

// AcknowledgmentGate enforces the once-per-session usage rights confirmation
// before the first image is processed.
type AcknowledgmentGate struct {
	acknowledged bool
	processed    int
}

// Acknowledge records the confirmation. Repeating it is harmless.
func (g *AcknowledgmentGate) Acknowledge() {
	g.acknowledged = true
}

func (g *AcknowledgmentGate) Acknowledged() bool {
	return g.acknowledged
}

// Check returns an error while no confirmation has been given.
func (g *AcknowledgmentGate) Check() error {
	if g.acknowledged || g.processed > 0 {
		return nil
	}
	return pkgerrors.New(pkgerrors.CodeAcknowledgmentRequired,
		"confirm you hold the rights to use this image before uploading")
}

// Record counts a processed image.
func (g *AcknowledgmentGate) Record() {
	g.processed++
}

func (g *AcknowledgmentGate) Processed() int {
	return g.processed
}
