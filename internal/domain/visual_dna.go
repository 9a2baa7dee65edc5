package domain

import (
	"github.com/kapu/anti-portfolio-go/internal/util"
)

// VisualDNA drives the appearance of the rendered totem. Every enum field
// must hold a member of its closed set; renderers do not re-validate.
type VisualDNA struct {
	GeometryType  GeometryType  `json:"geometry_type"`
	MaterialType  MaterialType  `json:"material_type"`
	TextureStyle  TextureStyle  `json:"texture_style"`
	MovementSpeed MovementSpeed `json:"movement_speed"`
	Colors        ColorTriad    `json:"colors"`
}

type ColorTriad struct {
	Primary   string `json:"primary"`
	Secondary string `json:"secondary"`
	Bg        string `json:"bg"`
}

type GeometryType string

const (
	GeometrySphere      GeometryType = "sphere"
	GeometryTorus       GeometryType = "torus"
	GeometryIcosahedron GeometryType = "icosahedron"
	GeometryCapsule     GeometryType = "capsule"
	GeometryPyramid     GeometryType = "pyramid"
	GeometryCluster     GeometryType = "cluster"
	GeometryDNAHelix    GeometryType = "dna-helix"
	GeometryFluidOrb    GeometryType = "fluid-orb"
	GeometryOrganicBulb GeometryType = "organic-bulb"
	GeometryTechPill    GeometryType = "tech-pill"
	GeometryMatrixCloud GeometryType = "matrix-cloud"
)

type MaterialType string

const (
	MaterialGlass      MaterialType = "glass"
	MaterialWireframe  MaterialType = "wireframe"
	MaterialMetal      MaterialType = "metal"
	MaterialStone      MaterialType = "stone"
	MaterialHologram   MaterialType = "hologram"
	MaterialLiquid     MaterialType = "liquid"
	MaterialCeramic    MaterialType = "ceramic"
	MaterialMatte      MaterialType = "matte"
	MaterialIridescent MaterialType = "iridescent"
)

type TextureStyle string

const (
	TextureClean     TextureStyle = "clean"
	TextureDistorted TextureStyle = "distorted"
	TextureRough     TextureStyle = "rough"
)

type MovementSpeed string

const (
	SpeedSlow   MovementSpeed = "slow"
	SpeedMedium MovementSpeed = "medium"
	SpeedFast   MovementSpeed = "fast"
)

// Closed sets, in declaration order.
var (
	GeometryTypes = []GeometryType{
		GeometrySphere, GeometryTorus, GeometryIcosahedron, GeometryCapsule,
		GeometryPyramid, GeometryCluster, GeometryDNAHelix, GeometryFluidOrb,
		GeometryOrganicBulb, GeometryTechPill, GeometryMatrixCloud,
	}
	MaterialTypes = []MaterialType{
		MaterialGlass, MaterialWireframe, MaterialMetal, MaterialStone, MaterialHologram,
		MaterialLiquid, MaterialCeramic, MaterialMatte, MaterialIridescent,
	}
	TextureStyles  = []TextureStyle{TextureClean, TextureDistorted, TextureRough}
	MovementSpeeds = []MovementSpeed{SpeedSlow, SpeedMedium, SpeedFast}
)

// ParseGeometryType matches raw case-insensitively against the closed set.
func ParseGeometryType(raw string) (GeometryType, bool) {
	return parseEnum(raw, GeometryTypes)
}

func ParseMaterialType(raw string) (MaterialType, bool) {
	return parseEnum(raw, MaterialTypes)
}

func ParseTextureStyle(raw string) (TextureStyle, bool) {
	return parseEnum(raw, TextureStyles)
}

func ParseMovementSpeed(raw string) (MovementSpeed, bool) {
	return parseEnum(raw, MovementSpeeds)
}

func parseEnum[T ~string](raw string, allowed []T) (T, bool) {
	normalized := util.Normalize(raw)
	for _, candidate := range allowed {
		if string(candidate) == normalized {
			return candidate, true
		}
	}
	var zero T
	return zero, false
}

// EnumStrings converts a closed set to plain strings, for prompts and errors.
func EnumStrings[T ~string](values []T) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = string(v)
	}
	return out
}
