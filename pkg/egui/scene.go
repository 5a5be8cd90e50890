package egui

import (
	"context"
	"fmt"

	"github.com/haivivi/pioneer/pkg/relay"
)

// Scene3D is a 3-D viewport rendered by the host. Scene handles are not
// tied to a window.
type Scene3D struct {
	b  *Builder
	id string
}

// ID returns the scene id.
func (s *Scene3D) ID() string { return s.id }

// AddCube adds a cube with the given edge length.
func (s *Scene3D) AddCube(objectID string, size float64) *Scene3D {
	return s.addObject(objectID, Cube, size)
}

// AddSphere adds a sphere with the given radius.
func (s *Scene3D) AddSphere(objectID string, radius float64) *Scene3D {
	return s.addObject(objectID, Sphere, radius)
}

func (s *Scene3D) addObject(objectID string, typ ObjectType, size float64) *Scene3D {
	s.b.send(OpAdd3DObject, ObjectArgs{
		SceneID:    s.id,
		ObjectID:   objectID,
		ObjectType: typ,
		Size:       size,
	})
	return s
}

// Rotate rotates the scene by angle degrees.
func (s *Scene3D) Rotate(angle float64) *Scene3D {
	s.b.send(OpRotate3D, RotateArgs{SceneID: s.id, Angle: angle})
	return s
}

// OnRotate registers fn for rotations reported by the host.
func (s *Scene3D) OnRotate(fn func(angle float64)) *Scene3D {
	s.b.on(KindRotate, s.id, func(ev *relay.Event) { fn(ev.Float("angle")) })
	return s
}

// StartRecording starts capturing interactions on the host.
func (s *Scene3D) StartRecording() *Scene3D {
	s.b.send(OpStartRecording, nil)
	return s
}

// StopRecording stops capturing and returns what the host recorded. It
// fails if the host does not reply before ctx is done or the relay's
// request timeout passes.
func (s *Scene3D) StopRecording(ctx context.Context) ([]RecordedEvent, error) {
	ev, err := s.b.r.Request(ctx, relay.NewCommand(OpStopRecording, nil))
	if err != nil {
		return nil, fmt.Errorf("egui: stop recording: %w", err)
	}
	var reply struct {
		Events []RecordedEvent `json:"events"`
	}
	if err := ev.Decode(&reply); err != nil {
		return nil, fmt.Errorf("egui: decode recording: %w", err)
	}
	return reply.Events, nil
}

// StartPlayback replays the host's current recording.
func (s *Scene3D) StartPlayback() *Scene3D {
	s.b.send(OpStartPlayback, nil)
	return s
}

// StopPlayback stops a replay.
func (s *Scene3D) StopPlayback() *Scene3D {
	s.b.send(OpStopPlayback, nil)
	return s
}
