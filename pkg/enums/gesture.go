package enums

import "fmt"

// GesturePhase is one step of a press, drag, release pointer interaction.
type GesturePhase string

const (
	GesturePress   GesturePhase = "press"
	GestureMove    GesturePhase = "move"
	GestureRelease GesturePhase = "release"
)

var validGesturePhases = []GesturePhase{
	GesturePress,
	GestureMove,
	GestureRelease,
}

// ParseGesturePhase converts raw input into a GesturePhase.
func ParseGesturePhase(value string) (GesturePhase, error) {
	for _, candidate := range validGesturePhases {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid gesture phase %q", value)
}

// LayerMove names a paint-order reordering operation.
type LayerMove string

const (
	LayerMoveFront    LayerMove = "front"
	LayerMoveBack     LayerMove = "back"
	LayerMoveForward  LayerMove = "forward"
	LayerMoveBackward LayerMove = "backward"
)

var validLayerMoves = []LayerMove{
	LayerMoveFront,
	LayerMoveBack,
	LayerMoveForward,
	LayerMoveBackward,
}

// ParseLayerMove converts raw input into a LayerMove.
func ParseLayerMove(value string) (LayerMove, error) {
	for _, candidate := range validLayerMoves {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid layer move %q", value)
}

// TransformAction names a discrete transform applied to the selection.
type TransformAction string

const (
	TransformScaleUp   TransformAction = "scale-up"
	TransformScaleDown TransformAction = "scale-down"
	TransformFlipX     TransformAction = "flip-x"
	TransformFlipY     TransformAction = "flip-y"
	TransformNudge     TransformAction = "nudge"
)

var validTransformActions = []TransformAction{
	TransformScaleUp,
	TransformScaleDown,
	TransformFlipX,
	TransformFlipY,
	TransformNudge,
}

// ParseTransformAction converts raw input into a TransformAction.
func ParseTransformAction(value string) (TransformAction, error) {
	for _, candidate := range validTransformActions {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid transform action %q", value)
}
