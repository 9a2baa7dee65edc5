package fallback

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf16"

	"github.com/kapu/anti-portfolio-go/internal/domain"
)

// Candidate lists indexed by the seed. Order is part of the output contract:
// reordering changes every previously generated identity.
var (
	geometryCandidates = []domain.GeometryType{
		domain.GeometrySphere,
		domain.GeometryTorus,
		domain.GeometryIcosahedron,
		domain.GeometryCapsule,
		domain.GeometryPyramid,
		domain.GeometryCluster,
		domain.GeometryDNAHelix,
		domain.GeometryFluidOrb,
	}
	materialCandidates = []domain.MaterialType{
		domain.MaterialGlass,
		domain.MaterialWireframe,
		domain.MaterialMetal,
		domain.MaterialStone,
		domain.MaterialHologram,
	}
	textureCandidates = []domain.TextureStyle{
		domain.TextureClean,
		domain.TextureDistorted,
		domain.TextureRough,
	}
	speedCandidates = []domain.MovementSpeed{
		domain.SpeedSlow,
		domain.SpeedMedium,
		domain.SpeedFast,
	}
)

// A link ends at any Unicode space separator or BOM, not only ASCII
// whitespace.
var linkPattern = regexp.MustCompile(`https?://[^\s\v\p{Z}\x{FEFF}]+|www\.[^\s\v\p{Z}\x{FEFF}]+`)

// TextBlob joins the fields that carry the person's voice into one lowercase
// string. Fields are concatenated without separators.
func TextBlob(input domain.QuestionnaireInput) string {
	return lowerFull(input.Interests + input.HatedTrends + input.CVContext + input.Projects)
}

// lowerFull lowercases with the full Unicode mappings that simple case
// folding misses: dotted capital I keeps its dot as U+0307, and capital
// sigma at the end of a word becomes final sigma.
func lowerFull(s string) string {
	if !strings.ContainsAny(s, "\u0130\u03a3") {
		return strings.ToLower(s)
	}

	runes := []rune(s)
	var b strings.Builder
	b.Grow(len(s) + 2)
	for i, r := range runes {
		switch {
		case r == '\u0130':
			b.WriteString("i\u0307")
		case r == '\u03a3' && i > 0 && unicode.IsLetter(runes[i-1]) &&
			(i+1 == len(runes) || !unicode.IsLetter(runes[i+1])):
			b.WriteRune('\u03c2')
		default:
			b.WriteRune(unicode.ToLower(r))
		}
	}
	return b.String()
}

// ExtractLink returns the first URL-like token in blob, or "".
func ExtractLink(blob string) string {
	return linkPattern.FindString(blob)
}

// Seed folds blob through hash = hash*31 + c with 32-bit signed wraparound,
// iterating UTF-16 code units, and returns the absolute value.
func Seed(blob string) int64 {
	var hash int32
	for _, unit := range utf16.Encode([]rune(blob)) {
		hash = hash*31 + int32(unit)
	}
	seed := int64(hash)
	if seed < 0 {
		seed = -seed
	}
	return seed
}

// SelectDNA derives the four enum axes from independent bit-shifted views of
// the same seed.
func SelectDNA(seed int64) (domain.GeometryType, domain.MaterialType, domain.TextureStyle, domain.MovementSpeed) {
	return geometryCandidates[seed%int64(len(geometryCandidates))],
		materialCandidates[(seed>>1)%int64(len(materialCandidates))],
		textureCandidates[(seed>>2)%int64(len(textureCandidates))],
		speedCandidates[(seed>>3)%int64(len(speedCandidates))]
}

// Colors returns a saturated primary, its complementary secondary and a dark
// low-saturation background of the primary hue.
func Colors(seed int64) domain.ColorTriad {
	hue1 := seed % 360
	hue2 := (seed + 180) % 360
	return domain.ColorTriad{
		Primary:   fmt.Sprintf("hsl(%d, 70%%, 50%%)", hue1),
		Secondary: fmt.Sprintf("hsl(%d, 80%%, 60%%)", hue2),
		Bg:        fmt.Sprintf("hsl(%d, 30%%, 10%%)", hue1),
	}
}

// VisualDNAForSeed assembles a complete VisualDNA from one seed.
func VisualDNAForSeed(seed int64) domain.VisualDNA {
	geometry, material, texture, speed := SelectDNA(seed)
	return domain.VisualDNA{
		GeometryType:  geometry,
		MaterialType:  material,
		TextureStyle:  texture,
		MovementSpeed: speed,
		Colors:        Colors(seed),
	}
}
