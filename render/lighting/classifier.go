package lighting

import (
	"fmt"

	"github.com/gekko3d/shaderlab/render/core"
)

const (
	MaxDirectionalLights = 25
	MaxPointLights       = 50
	MaxSpotLights        = 25
)

// Capacity bounds each bucket. The shader light arrays are sized to match.
type Capacity struct {
	Directional int `toml:"directional"`
	Point       int `toml:"point"`
	Spot        int `toml:"spot"`
}

var DefaultCapacity = Capacity{
	Directional: MaxDirectionalLights,
	Point:       MaxPointLights,
	Spot:        MaxSpotLights,
}

// Normalized replaces non-positive fields with the defaults.
func (c Capacity) Normalized() Capacity {
	if c.Directional <= 0 {
		c.Directional = DefaultCapacity.Directional
	}
	if c.Point <= 0 {
		c.Point = DefaultCapacity.Point
	}
	if c.Spot <= 0 {
		c.Spot = DefaultCapacity.Spot
	}
	return c
}

// Clamped caps every field at the size of the shader light arrays.
func (c Capacity) Clamped() Capacity {
	c.Directional = min(c.Directional, MaxDirectionalLights)
	c.Point = min(c.Point, MaxPointLights)
	c.Spot = min(c.Spot, MaxSpotLights)
	return c
}

// Validate rejects capacities the shader light arrays cannot hold.
func (c Capacity) Validate() error {
	switch {
	case c.Directional > MaxDirectionalLights:
		return fmt.Errorf("lighting: %d directional lights, shaders hold %d", c.Directional, MaxDirectionalLights)
	case c.Point > MaxPointLights:
		return fmt.Errorf("lighting: %d point lights, shaders hold %d", c.Point, MaxPointLights)
	case c.Spot > MaxSpotLights:
		return fmt.Errorf("lighting: %d spot lights, shaders hold %d", c.Spot, MaxSpotLights)
	}
	return nil
}

type Logger interface {
	Warnf(format string, args ...any)
}

type nopLogger struct{}

func (nopLogger) Warnf(string, ...any) {}

// Buckets holds the frame's lights split by type, in the order they were given.
// The slices are owned by the Classifier and are only valid until the next Classify.
type Buckets struct {
	Directional []*core.LightNode
	Point       []*core.LightNode
	Spot        []*core.LightNode
}

func (b Buckets) Counts() (directional, point, spot int) {
	return len(b.Directional), len(b.Point), len(b.Spot)
}

func (b Buckets) Len() int {
	return len(b.Directional) + len(b.Point) + len(b.Spot)
}

type Dropped struct {
	Directional int
	Point       int
	Spot        int
}

func (d Dropped) Total() int {
	return d.Directional + d.Point + d.Spot
}

type Classifier struct {
	capacity Capacity
	log      Logger
	buckets  Buckets
	dropped  Dropped
}

func NewClassifier(capacity Capacity, log Logger) *Classifier {
	if log == nil {
		log = nopLogger{}
	}
	c := capacity.Normalized()
	return &Classifier{
		capacity: c,
		log:      log,
		buckets: Buckets{
			Directional: make([]*core.LightNode, 0, c.Directional),
			Point:       make([]*core.LightNode, 0, c.Point),
			Spot:        make([]*core.LightNode, 0, c.Spot),
		},
	}
}

func (c *Classifier) Capacity() Capacity {
	return c.capacity
}

func (c *Classifier) Buckets() Buckets {
	return c.buckets
}

// Dropped reports how many lights the last Classify discarded for exceeding capacity.
func (c *Classifier) Dropped() Dropped {
	return c.dropped
}

func (c *Classifier) Reset() {
	c.buckets.Directional = c.buckets.Directional[:0]
	c.buckets.Point = c.buckets.Point[:0]
	c.buckets.Spot = c.buckets.Spot[:0]
	c.dropped = Dropped{}
}

// Classify clears the buckets and refills them from lights in a single pass.
// Nil entries and unknown light types are skipped. Lights past a bucket's
// capacity are dropped with one warning per bucket.
func (c *Classifier) Classify(lights []*core.LightNode) Buckets {
	c.Reset()

	for _, l := range lights {
		if l == nil {
			continue
		}
		switch l.Type() {
		case core.LightTypeDirectional:
			c.buckets.Directional = c.push(c.buckets.Directional, c.capacity.Directional, &c.dropped.Directional, l)
		case core.LightTypePoint:
			c.buckets.Point = c.push(c.buckets.Point, c.capacity.Point, &c.dropped.Point, l)
		case core.LightTypeSpot:
			c.buckets.Spot = c.push(c.buckets.Spot, c.capacity.Spot, &c.dropped.Spot, l)
		}
	}

	c.warn(core.LightTypeDirectional, c.dropped.Directional, c.capacity.Directional)
	c.warn(core.LightTypePoint, c.dropped.Point, c.capacity.Point)
	c.warn(core.LightTypeSpot, c.dropped.Spot, c.capacity.Spot)

	return c.buckets
}

func (c *Classifier) push(bucket []*core.LightNode, limit int, dropped *int, l *core.LightNode) []*core.LightNode {
	if len(bucket) >= limit {
		*dropped++
		return bucket
	}
	return append(bucket, l)
}

func (c *Classifier) warn(t core.LightType, dropped, limit int) {
	if dropped == 0 {
		return
	}
	c.log.Warnf("lighting: %d %s light(s) over capacity %d dropped", dropped, t, limit)
}
