package universe

import (
	"strconv"
	"strings"

	"starfield-server/internal/shared/errors"
)

// EntityKind discriminates resolved deep-link targets.
type EntityKind string

const (
	KindStar   EntityKind = "star"
	KindPlanet EntityKind = "planet"
	KindMoon   EntityKind = "moon"
)

// Ref is a parsed deep-link id: the chunk that owns the entity plus the
// index path down the star → planet → moon hierarchy.
type Ref struct {
	Kind   EntityKind
	IX, IY int
	Star   int
	Planet int // valid for planet/moon refs
	Moon   int // valid for moon refs
}

// ResolvedEntity is the result of a deep-link lookup. Exactly one of
// Star/Planet/Moon matches Kind; the parents are populated for context so
// a client can focus the camera without further requests.
type ResolvedEntity struct {
	Kind   EntityKind `json:"kind"`
	IX     int        `json:"ix"`
	IY     int        `json:"iy"`
	Star   *Star      `json:"star"`
	Planet *Planet    `json:"planet,omitempty"`
	Moon   *Moon      `json:"moon,omitempty"`
}

// ParseRef parses the s:/p:/m: id format:
//
//	s:{ix},{iy}:{star}
//	p:{ix},{iy}:{star}:{planet}
//	m:{ix},{iy}:{star}:{planet}:{moon}
func ParseRef(id string) (Ref, error) {
	parts := strings.Split(id, ":")
	if len(parts) < 3 {
		return Ref{}, errors.Validationf("malformed entity id %q", id)
	}

	var ref Ref
	var wantParts int
	switch parts[0] {
	case "s":
		ref.Kind, wantParts = KindStar, 3
	case "p":
		ref.Kind, wantParts = KindPlanet, 4
	case "m":
		ref.Kind, wantParts = KindMoon, 5
	default:
		return Ref{}, errors.Validationf("unknown entity kind %q in id %q", parts[0], id)
	}
	if len(parts) != wantParts {
		return Ref{}, errors.Validationf("entity id %q has %d segments, want %d", id, len(parts), wantParts)
	}

	coords := strings.Split(parts[1], ",")
	if len(coords) != 2 {
		return Ref{}, errors.Validationf("malformed chunk coordinates in id %q", id)
	}

	var err error
	if ref.IX, err = strconv.Atoi(coords[0]); err != nil {
		return Ref{}, errors.WrapValidation("invalid chunk x coordinate", err)
	}
	if ref.IY, err = strconv.Atoi(coords[1]); err != nil {
		return Ref{}, errors.WrapValidation("invalid chunk y coordinate", err)
	}
	if ref.Star, err = strconv.Atoi(parts[2]); err != nil || ref.Star < 0 {
		return Ref{}, errors.Validationf("invalid star index in id %q", id)
	}
	if ref.Kind == KindPlanet || ref.Kind == KindMoon {
		if ref.Planet, err = strconv.Atoi(parts[3]); err != nil || ref.Planet < 0 {
			return Ref{}, errors.Validationf("invalid planet index in id %q", id)
		}
	}
	if ref.Kind == KindMoon {
		if ref.Moon, err = strconv.Atoi(parts[4]); err != nil || ref.Moon < 0 {
			return Ref{}, errors.Validationf("invalid moon index in id %q", id)
		}
	}
	return ref, nil
}

// resolve walks the index path inside the owning chunk. Star indices are
// candidate indices, not slice positions: placement failures leave gaps.
func (r Ref) resolve(m *Manager) (*ResolvedEntity, error) {
	chunk := m.GetChunk(r.IX, r.IY)

	var star *Star
	for _, s := range chunk.Stars {
		if s.Index == r.Star {
			star = s
			break
		}
	}
	if star == nil {
		return nil, errors.NotFoundf("star %d not present in chunk %d,%d", r.Star, r.IX, r.IY)
	}

	resolved := &ResolvedEntity{Kind: r.Kind, IX: r.IX, IY: r.IY, Star: star}
	if r.Kind == KindStar {
		return resolved, nil
	}

	if r.Planet >= len(star.Planets) {
		return nil, errors.NotFoundf("planet %d not present in system %s", r.Planet, star.ID)
	}
	resolved.Planet = star.Planets[r.Planet]
	if r.Kind == KindPlanet {
		return resolved, nil
	}

	if r.Moon >= len(resolved.Planet.Moons) {
		return nil, errors.NotFoundf("moon %d not present on planet %s", r.Moon, resolved.Planet.ID)
	}
	resolved.Moon = resolved.Planet.Moons[r.Moon]
	return resolved, nil
}
