// Package ifp provides data structures and a parser for clip archives.
// An archive (one ".ifp" file) bundles many named animation clips; each clip
// holds one key track per skeleton bone. Clips are looked up by name and bound
// to a concrete skeleton by pkg/clip.
package ifp

// Archive is the root element of a clip archive file.
type Archive struct {
	// Name is the archive name, e.g. "ped"
	Name string `xml:"name,attr"`

	// Anims is the list of clips in this archive
	Anims []Anim `xml:"anim"`
}

// Anim is a single named clip.
type Anim struct {
	// Name is the clip name, e.g. "walk_civi", "run_civi"
	Name string `xml:"name,attr"`

	// Loop controls whether the clip wraps when played. Defaults to true when omitted.
	Loop *bool `xml:"loop,attr,omitempty"`

	// Bones is the list of per-bone key tracks
	Bones []Bone `xml:"bone"`
}

// IsLooping reports whether the clip loops (true unless loop="false").
func (a *Anim) IsLooping() bool {
	return a.Loop == nil || *a.Loop
}

// Duration returns the time of the last key across all bones, in seconds.
func (a *Anim) Duration() float64 {
	var d float64
	for i := range a.Bones {
		keys := a.Bones[i].Keys
		if len(keys) > 0 && keys[len(keys)-1].T > d {
			d = keys[len(keys)-1].T
		}
	}
	return d
}

// Bone is a key track for one named skeleton frame.
type Bone struct {
	// Name must match a frame name of the skeleton the clip is bound to, e.g. "Pelvis"
	Name string `xml:"name,attr"`

	// Keys are ordered by time
	Keys []Key `xml:"k"`
}

// Key is a single keyframe. Transform fields are optional and use pointer
// types to support null values. When a field is null, its value is inherited
// from the previous key (cumulative inheritance), see ResolveKeys.
type Key struct {
	// T is the key time in seconds
	T float64 `xml:"t,attr"`

	// X, Y, Z are the local translation
	X *float64 `xml:"x,attr,omitempty"`
	Y *float64 `xml:"y,attr,omitempty"`
	Z *float64 `xml:"z,attr,omitempty"`

	// RX, RY, RZ, RW are the local rotation quaternion
	RX *float64 `xml:"rx,attr,omitempty"`
	RY *float64 `xml:"ry,attr,omitempty"`
	RZ *float64 `xml:"rz,attr,omitempty"`
	RW *float64 `xml:"rw,attr,omitempty"`
}

// ResolvedKey is a keyframe with every field filled in.
type ResolvedKey struct {
	T        float64
	Position [3]float64
	Rotation [4]float64 // x, y, z, w
	HasPos   bool
}

// ResolveKeys fills null fields from the previous key. Missing rotation on the
// first key defaults to identity. HasPos is false until a key sets any translation
// component, so bones without translation keys keep their bind offset.
func (b *Bone) ResolveKeys() []ResolvedKey {
	out := make([]ResolvedKey, len(b.Keys))
	cur := ResolvedKey{Rotation: [4]float64{0, 0, 0, 1}}
	for i, k := range b.Keys {
		cur.T = k.T
		if k.X != nil || k.Y != nil || k.Z != nil {
			cur.HasPos = true
		}
		set(&cur.Position[0], k.X)
		set(&cur.Position[1], k.Y)
		set(&cur.Position[2], k.Z)
		set(&cur.Rotation[0], k.RX)
		set(&cur.Rotation[1], k.RY)
		set(&cur.Rotation[2], k.RZ)
		set(&cur.Rotation[3], k.RW)
		out[i] = cur
	}
	return out
}

func set(dst *float64, v *float64) {
	if v != nil {
		*dst = *v
	}
}
