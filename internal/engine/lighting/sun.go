// Package lighting converts the configured sun angles into the light
// direction the model shader uses.
package lighting

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// Sun is a directional light given as angles in degrees. Azimuth rotates
// around +Y starting at +Z; elevation is measured up from the horizon.
type Sun struct {
	Azimuth   float32
	Elevation float32
}

// ToSun returns the unit vector pointing from the scene towards the sun.
func (s Sun) ToSun() mgl32.Vec3 {
	az := mgl32.DegToRad(s.Azimuth)
	el := mgl32.DegToRad(mgl32.Clamp(s.Elevation, -90, 90))
	return mgl32.Vec3{
		math32.Cos(el) * math32.Sin(az),
		math32.Sin(el),
		math32.Cos(el) * math32.Cos(az),
	}
}

// Direction returns the direction light travels, the negated ToSun vector.
func (s Sun) Direction() mgl32.Vec3 {
	return s.ToSun().Mul(-1)
}
