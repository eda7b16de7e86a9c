// Package character provides the thin entity that owns a GraphInstance and
// its world placement, the way a game object owns a model and an animator.
package character

import (
	"sync/atomic"

	"github.com/Carmen-Shannon/oxy-animgraph-go/engine/animgraph"
)

type character struct {
	id      uint64
	enabled atomic.Bool

	instance *animgraph.GraphInstance

	position [3]float32
	rotation [4]float32
}

// Character is a world entity driven by an animation graph instance: it
// owns the instance, advances it once per frame, and folds the resulting
// root-motion delta into its own world transform.
type Character interface {
	// ID returns the character's unique identifier.
	ID() uint64

	// Enabled reports whether this character should be evaluated this frame.
	Enabled() bool

	// GraphInstance returns the owned animation graph instance.
	GraphInstance() *animgraph.GraphInstance

	// Position returns the character's current world-space position.
	Position() [3]float32

	// Rotation returns the character's current world-space rotation
	// (quaternion, x, y, z, w).
	Rotation() [4]float32

	// SetID assigns the character's unique identifier.
	SetID(id uint64)

	// SetEnabled toggles whether the character is evaluated.
	SetEnabled(enabled bool)

	// SetPosition overrides the character's world-space position directly
	// (e.g. on spawn or teleport, bypassing root motion for this frame).
	SetPosition(pos [3]float32)

	// Update advances the owned graph instance by deltaTime and applies its
	// root-motion delta to the character's world transform. A no-op if the
	// character is disabled.
	Update(deltaTime float64)
}

// CharacterBuilderOption is a functional option for configuring a Character
// during construction.
type CharacterBuilderOption func(*character)

// WithID sets the character's unique identifier.
func WithID(id uint64) CharacterBuilderOption {
	return func(c *character) {
		c.id = id
	}
}

// WithEnabled sets whether the character is evaluated for animation updates.
func WithEnabled(enabled bool) CharacterBuilderOption {
	return func(c *character) {
		c.enabled.Store(enabled)
	}
}

// WithPosition sets the character's initial world-space position.
func WithPosition(pos [3]float32) CharacterBuilderOption {
	return func(c *character) {
		c.position = pos
	}
}

// WithRotation sets the character's initial world-space rotation.
func WithRotation(rot [4]float32) CharacterBuilderOption {
	return func(c *character) {
		c.rotation = rot
	}
}

// NewCharacter constructs a Character driven by instance, configured by opts.
// Panics if instance is nil — a character with no graph to drive is an
// authoring bug, not a runtime condition to recover from.
func NewCharacter(instance *animgraph.GraphInstance, opts ...CharacterBuilderOption) Character {
	if instance == nil {
		panic("character: NewCharacter requires a non-nil GraphInstance")
	}

	c := &character{
		instance: instance,
		rotation: [4]float32{0, 0, 0, 1},
	}
	c.enabled.Store(true)

	for _, opt := range opts {
		opt(c)
	}

	return c
}

func (c *character) ID() uint64 {
	return c.id
}

func (c *character) Enabled() bool {
	return c.enabled.Load()
}

func (c *character) GraphInstance() *animgraph.GraphInstance {
	return c.instance
}

func (c *character) Position() [3]float32 {
	return c.position
}

func (c *character) Rotation() [4]float32 {
	return c.rotation
}

func (c *character) SetID(id uint64) {
	c.id = id
}

func (c *character) SetEnabled(enabled bool) {
	c.enabled.Store(enabled)
}

func (c *character) SetPosition(pos [3]float32) {
	c.position = pos
}

func (c *character) Update(deltaTime float64) {
	if !c.Enabled() {
		return
	}

	c.instance.EvaluateGraph(deltaTime)
	delta, _ := c.instance.ExecutePostPhysicsPoseTasks()

	for i := range c.position {
		c.position[i] += delta.Translation[i]
	}
	c.rotation = composeRotation(c.rotation, delta.Rotation)
}

// composeRotation combines two quaternions (a then b), used to fold a
// frame's root-motion rotation delta into the character's accumulated
// world rotation.
func composeRotation(a, b [4]float32) [4]float32 {
	return [4]float32{
		a[3]*b[0] + a[0]*b[3] + a[1]*b[2] - a[2]*b[1],
		a[3]*b[1] - a[0]*b[2] + a[1]*b[3] + a[2]*b[0],
		a[3]*b[2] + a[0]*b[1] - a[1]*b[0] + a[2]*b[3],
		a[3]*b[3] - a[0]*b[0] - a[1]*b[1] - a[2]*b[2],
	}
}
