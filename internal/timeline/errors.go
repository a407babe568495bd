package timeline

import (
	"errors"
	"fmt"
)

var (
	// ErrLastKeyframe is returned when a delete would leave the timeline
	// empty. The store is unchanged.
	ErrLastKeyframe = errors.New("cannot delete the last keyframe")

	// ErrEmptyTimeline is returned when there are no keyframes to work with.
	ErrEmptyTimeline = errors.New("timeline has no keyframes")
)

type NotFoundError struct {
	ID string
}

func (e NotFoundError) Error() string {
	return fmt.Sprintf("keyframe not found: %s", e.ID)
}
